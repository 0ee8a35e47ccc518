package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/wanderly-dev/storefront/internal/guard"
)

// NewGuardCmd creates the guard command, which shows what the route guard
// would do with each path
func NewGuardCmd(deps Deps) *cobra.Command {
	var token, routesFile string
	var anonymous bool

	cmd := &cobra.Command{
		Use:   "guard <path>...",
		Short: "Show how the route guard treats paths",
		Long: `Evaluate paths against the route table without starting the server.

The stored session token is used unless --token or --anonymous is given.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := loadTable(routesFile)
			if err != nil {
				return err
			}

			switch {
			case anonymous:
				token = ""
			case !cmd.Flags().Changed("token"):
				token = storedToken(deps)
			}

			g := guard.New(table)
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PATH\tCATEGORY\tDECISION\tLOCATION")
			for _, path := range args {
				decision := g.Decide(path, token)
				location := decision.Location()
				if location == "" {
					location = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", path, table.Classify(path), decision, location)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Session token to evaluate with")
	cmd.Flags().BoolVar(&anonymous, "anonymous", false, "Evaluate without any session token")
	cmd.Flags().StringVar(&routesFile, "routes", "", "YAML route table (defaults to the built-in table)")

	return cmd
}

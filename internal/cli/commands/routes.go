package commands

import (
	"github.com/spf13/cobra"
)

// NewRoutesCmd creates the routes command, which prints the effective route
// table as YAML. The output can be edited and fed back through ROUTES_FILE.
func NewRoutesCmd() *cobra.Command {
	var routesFile string

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Print the route table used by the guard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := loadTable(routesFile)
			if err != nil {
				return err
			}
			data, err := table.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVar(&routesFile, "routes", "", "YAML route table (defaults to the built-in table)")

	return cmd
}

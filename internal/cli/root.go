package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wanderly-dev/storefront/internal/cli/commands"
)

var version = "dev" // Will be set during build

// NewRootCmd builds the storefront CLI with every subcommand attached
func NewRootCmd(deps commands.Deps) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "storefront",
		Short: "Storefront - operator tools for the travel booking web app",
		Long: `Storefront CLI - inspect the route guard, manage a backend session and
check a running storefront server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "storefront version %s\n", version)
		},
	})

	rootCmd.AddCommand(commands.NewLoginCmd(deps))
	rootCmd.AddCommand(commands.NewLogoutCmd(deps))
	rootCmd.AddCommand(commands.NewGuardCmd(deps))
	rootCmd.AddCommand(commands.NewRoutesCmd())
	rootCmd.AddCommand(commands.NewTokenCmd(deps))
	rootCmd.AddCommand(commands.NewHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	if err := NewRootCmd(commands.DefaultDeps()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

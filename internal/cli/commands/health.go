package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wanderly-dev/storefront/internal/cli/client"
)

// NewHealthCmd creates the health command
func NewHealthCmd() *cobra.Command {
	var url string

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check that a storefront server is up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			health, err := client.New(url).Health(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (version %s)\n", health.Service, health.Status, health.Version)
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "http://localhost:8080", "Server base URL")

	return cmd
}

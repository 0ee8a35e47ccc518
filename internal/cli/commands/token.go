package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wanderly-dev/storefront/internal/auth"
	"github.com/wanderly-dev/storefront/internal/cli/session"
)

// NewTokenCmd creates the token command. It prints the role claim the guard
// reads from a session token; the signature is not checked.
func NewTokenCmd(deps Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token [token]",
		Short: "Show the role claim carried by a session token",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var token string
			if len(args) == 1 {
				token = args[0]
			} else {
				token = storedToken(deps)
				if token == "" {
					return session.ErrNotLoggedIn
				}
			}

			claims, err := auth.DecodeClaims(token)
			if err != nil {
				return fmt.Errorf("failed to decode token: %w", err)
			}

			role := claims.RoleClaim()
			if role == "" {
				role = "(none)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "role: %s\n", role)
			return nil
		},
	}

	return cmd
}

package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/wanderly-dev/storefront/internal/auth"
	"github.com/wanderly-dev/storefront/internal/backend"
	"github.com/wanderly-dev/storefront/internal/cli/session"
	"github.com/wanderly-dev/storefront/internal/config"
	"github.com/wanderly-dev/storefront/internal/forms"
	"github.com/wanderly-dev/storefront/internal/models"
)

// NewLoginCmd creates the login command
func NewLoginCmd(deps Deps) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the booking backend and keep the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd, deps, email, password)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set STOREFRONT_EMAIL, will prompt if not provided)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set STOREFRONT_PASSWORD, will prompt if not provided)")

	return cmd
}

func runLogin(cmd *cobra.Command, deps Deps, email, password string) error {
	// Check for environment variables (useful for CI/CD)
	if email == "" {
		email = os.Getenv("STOREFRONT_EMAIL")
	}
	if password == "" {
		password = os.Getenv("STOREFRONT_PASSWORD")
	}

	cfg, err := backendConfig(deps)
	if err != nil {
		return err
	}

	if email == "" {
		if email, err = deps.Prompt("Email", false); err != nil {
			return fmt.Errorf("failed to read email: %w", err)
		}
	}
	if password == "" {
		if password, err = deps.Prompt("Password", true); err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
	}

	payload := models.LoginPayload{Email: email, Password: password}
	if err := forms.NewValidator().Struct(payload); err != nil {
		return errors.New(forms.Message(err, "invalid credentials"))
	}

	client := backend.New(cfg, nil, zerolog.Nop())
	token, err := client.Login(cmd.Context(), payload)
	if err != nil {
		return fmt.Errorf("login failed: %s", backend.UserMessage(err, err.Error()))
	}

	if err := deps.Store.SaveToken(cfg.BaseURL, token); err != nil {
		return err
	}

	role := "(none)"
	if r := auth.RoleFromToken(token); r != "" {
		role = "(" + string(r) + ")"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Logged in to %s as %s %s\n", cfg.BaseURL, email, role)
	return nil
}

// NewLogoutCmd creates the logout command. The backend logout is best effort;
// the stored token is always removed.
func NewLogoutCmd(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := backendConfig(deps)
			if err != nil {
				return err
			}

			token, err := deps.Store.LoadToken(cfg.BaseURL)
			switch {
			case errors.Is(err, session.ErrNotLoggedIn):
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
				return nil
			case err != nil:
				return err
			}

			client := backend.New(cfg, nil, zerolog.Nop())
			if err := client.Logout(context.WithoutCancel(cmd.Context()), token); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: backend logout failed: %v\n", err)
			}

			if err := deps.Store.DeleteToken(cfg.BaseURL); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Logged out")
			return nil
		},
	}
}

func backendConfig(deps Deps) (config.BackendConfig, error) {
	cfg, err := deps.Config()
	if err != nil {
		return config.BackendConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	if !cfg.Backend.Configured() {
		return config.BackendConfig{}, errors.New("API_BASE_URL and API_KEY must be set")
	}
	return cfg.Backend, nil
}

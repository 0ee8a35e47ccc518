package commands

import (
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
	"golang.org/x/term"

	"github.com/wanderly-dev/storefront/internal/cli/session"
	"github.com/wanderly-dev/storefront/internal/config"
	"github.com/wanderly-dev/storefront/internal/guard"
)

// Deps are the collaborators shared by the commands. Tests swap them for
// in-memory versions.
type Deps struct {
	Store  session.TokenStore
	Config func() (*config.Config, error)
	Prompt func(label string, secret bool) (string, error)
}

// DefaultDeps reads configuration from the environment, keeps tokens in the
// OS keychain and prompts on the terminal
func DefaultDeps() Deps {
	return Deps{
		Store:  session.Default,
		Config: config.Load,
		Prompt: terminalPrompt,
	}
}

func terminalPrompt(label string, secret bool) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", fmt.Errorf("%s is required in non-interactive mode", label)
	}

	prompt := promptui.Prompt{Label: label}
	if secret {
		prompt.Mask = '*'
	}
	return prompt.Run()
}

// loadTable returns the built-in route table, or the one in path when set
func loadTable(path string) (guard.Table, error) {
	if path == "" {
		return guard.DefaultTable(), nil
	}
	table, err := guard.LoadTable(path)
	if err != nil {
		return guard.Table{}, fmt.Errorf("failed to load routes file: %w", err)
	}
	return table, nil
}

// storedToken returns the keychain token for the configured backend, or ""
func storedToken(deps Deps) string {
	cfg, err := deps.Config()
	if err != nil || cfg.Backend.BaseURL == "" {
		return ""
	}
	token, err := deps.Store.LoadToken(cfg.Backend.BaseURL)
	if err != nil {
		return ""
	}
	return token
}

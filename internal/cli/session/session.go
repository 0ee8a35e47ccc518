// Package session keeps the CLI's backend session token in the OS keychain,
// one entry per backend base URL.
package session

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const service = "storefront-cli"

// ErrNotLoggedIn is returned when no token is stored for a backend
var ErrNotLoggedIn = errors.New("not authenticated, run 'storefront login' first")

// TokenStore abstracts token storage so commands can be tested without a keychain
type TokenStore interface {
	SaveToken(baseURL, token string) error
	LoadToken(baseURL string) (string, error)
	DeleteToken(baseURL string) error
}

type keyringStore struct{}

// Default stores tokens in the OS keychain/credential manager
var Default TokenStore = keyringStore{}

func keyFor(baseURL string) string {
	return fmt.Sprintf("token-%s", baseURL)
}

func (keyringStore) SaveToken(baseURL, token string) error {
	if err := keyring.Set(service, keyFor(baseURL), token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

func (keyringStore) LoadToken(baseURL string) (string, error) {
	token, err := keyring.Get(service, keyFor(baseURL))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotLoggedIn
		}
		return "", fmt.Errorf("failed to load token: %w", err)
	}
	return token, nil
}

func (keyringStore) DeleteToken(baseURL string) error {
	if err := keyring.Delete(service, keyFor(baseURL)); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}

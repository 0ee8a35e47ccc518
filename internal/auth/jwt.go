package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wanderly-dev/storefront/internal/models"
)

var (
	ErrMalformedToken = errors.New("malformed token")
)

// segmentParser decodes base64url segments, tolerating both padded and raw input
var segmentParser = jwt.NewParser(jwt.WithPaddingAllowed())

// TokenClaims is the subset of the session token payload used for routing.
// The backend may put the role at the top level or under "user".
type TokenClaims struct {
	Role *models.Role `json:"role"`
	User *struct {
		Role *models.Role `json:"role"`
	} `json:"user"`
}

// RoleClaim returns the top-level role, falling back to user.role
func (c *TokenClaims) RoleClaim() models.Role {
	if c == nil {
		return ""
	}
	if c.Role != nil {
		return *c.Role
	}
	if c.User != nil && c.User.Role != nil {
		return *c.User.Role
	}
	return ""
}

// DecodeClaims reads the payload segment of token WITHOUT verifying its
// signature. The result is only fit for UX decisions such as redirects; the
// backend re-validates the token on every proxied call.
func DecodeClaims(token string) (*TokenClaims, error) {
	parts := strings.Split(token, ".")
	if len(parts) < 2 {
		return nil, ErrMalformedToken
	}

	payload, err := segmentParser.DecodeSegment(parts[1])
	if err != nil {
		return nil, fmt.Errorf("failed to decode payload segment: %w", err)
	}

	var claims TokenClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, fmt.Errorf("failed to parse payload: %w", err)
	}

	return &claims, nil
}

// RoleFromToken returns the role claim of token, or "" when it cannot be decoded
func RoleFromToken(token string) models.Role {
	claims, err := DecodeClaims(token)
	if err != nil {
		return ""
	}
	return claims.RoleClaim()
}

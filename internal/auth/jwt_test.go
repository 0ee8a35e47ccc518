package auth

import (
	"encoding/base64"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderly-dev/storefront/internal/models"
)

func rawToken(payload string) string {
	return "eyJhbGciOiJIUzI1NiJ9." + base64.RawURLEncoding.EncodeToString([]byte(payload)) + ".sig"
}

func TestRoleFromToken(t *testing.T) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"role": "admin"}).
		SignedString([]byte("backend-secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  models.Role
	}{
		{name: "signed backend token", token: signed, want: models.RoleAdmin},
		{name: "top-level role", token: rawToken(`{"role":"user"}`), want: models.RoleUser},
		{name: "nested user role", token: rawToken(`{"user":{"role":"admin"}}`), want: models.RoleAdmin},
		{name: "top-level wins over nested", token: rawToken(`{"role":"user","user":{"role":"admin"}}`), want: models.RoleUser},
		{name: "two segments are enough", token: "h." + base64.RawURLEncoding.EncodeToString([]byte(`{"role":"admin"}`)), want: models.RoleAdmin},
		{name: "no role", token: rawToken(`{"sub":"42"}`), want: ""},
		{name: "single segment", token: "opaque", want: ""},
		{name: "empty", token: "", want: ""},
		{name: "bad base64", token: "a.!!!.c", want: ""},
		{name: "not json", token: rawToken(`not-json`), want: ""},
		{name: "non-object payload", token: rawToken(`"admin"`), want: ""},
		{name: "non-string role", token: rawToken(`{"role":1}`), want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RoleFromToken(tt.token))
		})
	}
}

func TestDecodeClaimsPaddedPayload(t *testing.T) {
	token := "h." + base64.URLEncoding.EncodeToString([]byte(`{"role":"admin"}`)) + ".s"
	claims, err := DecodeClaims(token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, claims.RoleClaim())
}

func TestDecodeClaimsMalformed(t *testing.T) {
	_, err := DecodeClaims("only-one-part")
	assert.ErrorIs(t, err, ErrMalformedToken)
}

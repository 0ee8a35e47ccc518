package auth

import (
	"net/http"
	"time"

	"github.com/wanderly-dev/storefront/internal/models"
)

const (
	// CookieName is the name of the http-only session cookie holding the token
	CookieName = "token"

	// SessionMaxAge is how long the browser keeps the session cookie
	SessionMaxAge = 7 * 24 * time.Hour
)

// SessionData represents the session context resolved for a request
type SessionData struct {
	Token string      `json:"-"`
	Role  models.Role `json:"role"` // unverified, see DecodeClaims
}

// Authenticated reports whether a token is present
func (s *SessionData) Authenticated() bool {
	return s != nil && s.Token != ""
}

// IsAdmin reports whether the unverified role claim is exactly admin
func (s *SessionData) IsAdmin() bool {
	return s != nil && s.Role == models.RoleAdmin
}

// TokenFromRequest returns the session token cookie value, or ""
func TokenFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// SetSessionCookie writes the session cookie after a successful login
func SetSessionCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(SessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie (Max-Age=0 on the wire)
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

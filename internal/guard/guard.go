// Package guard decides, per page request, whether to render, send the
// visitor to the login page, or send them home.
//
// The role check decodes the session token without verifying it. It is a UX
// gate only: the backend re-validates the token on every proxied call.
package guard

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/wanderly-dev/storefront/internal/auth"
	"github.com/wanderly-dev/storefront/internal/models"
)

const (
	LoginPath = "/login"
	HomePath  = "/"
)

// Decision is the outcome of evaluating a request
type Decision int

const (
	Allow Decision = iota
	RedirectLogin
	RedirectHome
)

func (d Decision) String() string {
	switch d {
	case RedirectLogin:
		return "redirect_login"
	case RedirectHome:
		return "redirect_home"
	default:
		return "allow"
	}
}

// Location returns the redirect target, or "" for Allow
func (d Decision) Location() string {
	switch d {
	case RedirectLogin:
		return LoginPath
	case RedirectHome:
		return HomePath
	default:
		return ""
	}
}

// Observer receives every decision taken by the middleware
type Observer interface {
	ObserveGuardDecision(category Category, decision Decision)
}

// Guard evaluates requests against a route table. It holds no mutable state.
type Guard struct {
	table Table
}

// New creates a guard over table
func New(table Table) *Guard {
	return &Guard{table: table}
}

// Table returns the route table the guard evaluates against
func (g *Guard) Table() Table {
	return g.table
}

// Decide evaluates path for a request carrying token ("" when absent).
// Rules apply in order:
//  1. protected path without token -> login
//  2. admin path whose role claim is not exactly "admin" -> home
//  3. auth-only page with token -> home
//  4. allow
func (g *Guard) Decide(path, token string) Decision {
	m := g.table.match(path)

	if (m.session || m.admin) && token == "" {
		return RedirectLogin
	}

	if m.admin && auth.RoleFromToken(token) != models.RoleAdmin {
		return RedirectHome
	}

	if m.authOnly && token != "" {
		return RedirectHome
	}

	return Allow
}

// Middleware applies Decide to every request and stores the resolved session
// for downstream handlers. observer may be nil.
func (g *Guard) Middleware(log zerolog.Logger, observer Observer) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := auth.ResolveSession(c)
		path := c.Request.URL.Path

		decision := g.Decide(path, session.Token)
		if observer != nil {
			observer.ObserveGuardDecision(g.table.Classify(path), decision)
		}

		if decision != Allow {
			log.Debug().
				Str("path", path).
				Str("decision", decision.String()).
				Bool("has_token", session.Authenticated()).
				Msg("Route guard redirect")
			c.Redirect(http.StatusFound, decision.Location())
			c.Abort()
			return
		}

		auth.SetSession(c, session)
		c.Next()
	}
}

package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/wanderly-dev/storefront/internal/auth"
	"github.com/wanderly-dev/storefront/internal/backend"
	"github.com/wanderly-dev/storefront/internal/forms"
	"github.com/wanderly-dev/storefront/internal/guard"
	"github.com/wanderly-dev/storefront/internal/models"
	"github.com/wanderly-dev/storefront/internal/pages"
)

const (
	msgLoginFailed    = "Login failed"
	msgNoToken        = "Token was not returned by backend"
	msgRegisterFailed = "Registration failed"

	registerPath = "/register"
)

// fromForm reports whether the request was posted by an HTML form. Form
// posts get redirects, script calls get JSON.
func fromForm(c *gin.Context) bool {
	switch c.ContentType() {
	case binding.MIMEPOSTForm, binding.MIMEMultipartPOSTForm:
		return true
	}
	return false
}

// authFailed answers a failed auth call: a redirect back to page carrying
// message for form posts, a JSON {ok:false, message} otherwise
func authFailed(c *gin.Context, status int, message, page string) {
	if fromForm(c) {
		pages.Redirect(c, page, "error", message)
		return
	}
	c.JSON(status, gin.H{"ok": false, "message": message})
}

func authSucceeded(c *gin.Context, status int, target, notice string) {
	if fromForm(c) {
		pages.Redirect(c, target, "notice", notice)
		return
	}
	c.JSON(status, gin.H{"ok": true})
}

// login exchanges credentials for a session token and stores it in the
// http-only session cookie
func (s *Server) login(c *gin.Context) {
	var payload models.LoginPayload
	if err := forms.Bind(c, s.validator, &payload); err != nil {
		authFailed(c, http.StatusBadRequest, forms.Message(err, msgLoginFailed), guard.LoginPath)
		return
	}

	token, err := s.client.Login(c.Request.Context(), payload)
	switch {
	case errors.Is(err, backend.ErrNoToken):
		s.logger.Warn().Msg("Backend login succeeded without a token")
		authFailed(c, http.StatusBadRequest, msgNoToken, guard.LoginPath)
		return
	case err != nil:
		s.logger.Info().Err(err).Msg("Login failed")
		authFailed(c, http.StatusUnauthorized, msgLoginFailed, guard.LoginPath)
		return
	}

	auth.SetSessionCookie(c.Writer, token, s.config.Server.Production())
	authSucceeded(c, http.StatusOK, guard.HomePath, "")
}

// logout clears the session cookie. The backend logout is best effort and
// its failure never keeps the cookie alive.
func (s *Server) logout(c *gin.Context) {
	if token := auth.TokenFromRequest(c.Request); token != "" {
		ctx := context.WithoutCancel(c.Request.Context())
		if err := s.client.Logout(ctx, token); err != nil {
			s.logger.Debug().Err(err).Msg("Backend logout failed, clearing cookie anyway")
		}
	}

	auth.ClearSessionCookie(c.Writer, s.config.Server.Production())
	authSucceeded(c, http.StatusOK, guard.HomePath, "")
}

// register creates an account on the backend. It does not log the user in.
func (s *Server) register(c *gin.Context) {
	var payload models.RegisterPayload
	if err := forms.Bind(c, s.validator, &payload); err != nil {
		authFailed(c, http.StatusBadRequest, forms.Message(err, msgRegisterFailed), registerPath)
		return
	}
	if payload.Role == "" {
		payload.Role = models.RoleUser
	}

	if _, err := s.client.Register(c.Request.Context(), payload); err != nil {
		s.logger.Info().Err(err).Str("email", payload.Email).Msg("Registration failed")
		authFailed(c, pages.StatusFor(err), backend.UserMessage(err, msgRegisterFailed), registerPath)
		return
	}

	authSucceeded(c, http.StatusCreated, guard.LoginPath, "Account created, please log in")
}

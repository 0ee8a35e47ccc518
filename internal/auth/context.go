package auth

import (
	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

// ResolveSession builds the session for the current request from its cookie.
// The role is decoded best-effort and stays empty for undecodable tokens.
func ResolveSession(c *gin.Context) *SessionData {
	token := TokenFromRequest(c.Request)
	session := &SessionData{Token: token}
	if token != "" {
		session.Role = RoleFromToken(token)
	}
	return session
}

// SetSession stores the resolved session on the gin context
func SetSession(c *gin.Context, session *SessionData) {
	c.Set(sessionKey, session)
}

// GetSession returns the session stored by SetSession, resolving it from the
// cookie when no middleware stored one
func GetSession(c *gin.Context) *SessionData {
	if value, exists := c.Get(sessionKey); exists {
		if session, ok := value.(*SessionData); ok {
			return session
		}
	}
	session := ResolveSession(c)
	SetSession(c, session)
	return session
}

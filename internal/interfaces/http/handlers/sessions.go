// internal/interfaces/http/handlers/sessions.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/marcello-store/storefront-backend/internal/config"
	"github.com/marcello-store/storefront-backend/internal/interfaces/http/middleware"
	"github.com/marcello-store/storefront-backend/internal/pkg/auth"
	"github.com/marcello-store/storefront-backend/internal/session"
)

// SessionAccess resolves the per-request session container. Every request
// carries a guest session cookie; a bearer token, when present and valid,
// is bound to the session's credential slot so the sync layer sees the
// login state even across server restarts.
type SessionAccess struct {
	manager *session.Manager
	rings   *auth.Registry
	config  *config.Config
}

// NewSessionAccess creates the shared session resolver for handlers.
func NewSessionAccess(manager *session.Manager, rings *auth.Registry, cfg *config.Config) *SessionAccess {
	return &SessionAccess{
		manager: manager,
		rings:   rings,
		config:  cfg,
	}
}

// Resolve returns the live session for this request, creating the guest
// session cookie when absent.
func (a *SessionAccess) Resolve(c *gin.Context) *session.Session {
	id := a.sessionID(c)

	if token, ok := middleware.GetAccessTokenFromContext(c); ok {
		a.rings.For(id).SetToken(token)
	}

	return a.manager.Get(c.Request.Context(), id)
}

// Keyring returns the credential slot for this request's session.
func (a *SessionAccess) Keyring(c *gin.Context) *auth.Keyring {
	return a.rings.For(a.sessionID(c))
}

// sessionID gets the session ID from the cookie or creates a new one. The
// resolved id is cached on the request context so every lookup within one
// request agrees, even before the new cookie round-trips.
func (a *SessionAccess) sessionID(c *gin.Context) string {
	if cached, ok := c.Get("session_id"); ok {
		return cached.(string)
	}

	sessionID, err := c.Cookie(a.config.Session.CookieName)
	if err != nil || sessionID == "" {
		// Generate new session ID
		sessionID = uuid.New().String()

		maxAge := int(a.config.Session.GuestTTL.Seconds())
		c.SetCookie(a.config.Session.CookieName, sessionID, maxAge, "/", "", false, true)
	}

	c.Set("session_id", sessionID)
	return sessionID
}

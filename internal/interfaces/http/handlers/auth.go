// internal/interfaces/http/handlers/auth.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/marcello-store/storefront-backend/internal/domain/user"
	"github.com/marcello-store/storefront-backend/internal/interfaces/http/middleware"
)

// AuthHandler handles authentication endpoints and runs the session sync
// protocols around the login and logout transitions.
type AuthHandler struct {
	service  *user.Service
	sessions *SessionAccess
	logger   *logrus.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(service *user.Service, sessions *SessionAccess, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		service:  service,
		sessions: sessions,
		logger:   logger,
	}
}

// RefreshRequest represents a token refresh request
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Register creates a new account and merges the guest state into it
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	resp, err := h.service.Register(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	h.afterLogin(c, resp)

	c.JSON(http.StatusCreated, resp)
}

// Login authenticates a user and merges the guest state into the account
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	resp, err := h.service.Login(&req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": err.Error(),
		})
		return
	}

	h.afterLogin(c, resp)

	c.JSON(http.StatusOK, resp)
}

// Refresh exchanges a refresh token for a fresh token pair
// POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	resp, err := h.service.RefreshToken(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": err.Error(),
		})
		return
	}

	h.sessions.Keyring(c).SetToken(resp.AccessToken)

	c.JSON(http.StatusOK, resp)
}

// Logout drops the credential and purges the session's local state. The
// account's stored cart and favorites are left untouched.
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	sess := h.sessions.Resolve(c)
	sess.OnLogout(c.Request.Context())
	h.sessions.Keyring(c).ClearToken()

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}

// GetProfile returns the authenticated user's profile
// GET /api/v1/users/profile
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	u, err := h.service.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": u,
	})
}

// afterLogin binds the fresh credential to the session and runs the merge
// protocol. A merge failure is logged, never surfaced; the tokens are
// already issued.
func (h *AuthHandler) afterLogin(c *gin.Context, resp *user.AuthResponse) {
	h.sessions.Keyring(c).SetToken(resp.AccessToken)

	sess := h.sessions.Resolve(c)
	if err := sess.SyncOnLogin(c.Request.Context()); err != nil {
		h.logger.WithError(err).Warn("Login state merge failed")
	}
}

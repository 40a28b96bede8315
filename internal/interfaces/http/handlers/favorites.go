// internal/interfaces/http/handlers/favorites.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/marcello-store/storefront-backend/internal/domain/favorites"
	"github.com/marcello-store/storefront-backend/internal/interfaces/http/middleware"
	"github.com/marcello-store/storefront-backend/internal/session"
)

// FavoritesHandler serves the favorites state for the current session
type FavoritesHandler struct {
	sessions *SessionAccess
	remote   session.FavoritesStore
	logger   *logrus.Logger
}

// NewFavoritesHandler creates a new favorites handler
func NewFavoritesHandler(sessions *SessionAccess, remote session.FavoritesStore, logger *logrus.Logger) *FavoritesHandler {
	return &FavoritesHandler{
		sessions: sessions,
		remote:   remote,
		logger:   logger,
	}
}

// ToggleRequest represents a favorite toggle for one product
type ToggleRequest struct {
	Item favorites.Item `json:"item" binding:"required"`
}

// FavoritesSnapshotRequest represents a full favorites snapshot upload
type FavoritesSnapshotRequest struct {
	Favorites struct {
		Items []favorites.Item `json:"items"`
	} `json:"favorites" binding:"required"`
}

// GetFavorites returns the current favorites set
// GET /api/v1/favorites
func (h *FavoritesHandler) GetFavorites(c *gin.Context) {
	sess := h.sessions.Resolve(c)

	c.JSON(http.StatusOK, gin.H{
		"favorites": sess.Favorites(),
	})
}

// Toggle flips the favorite state of one product
// POST /api/v1/favorites/toggle
func (h *FavoritesHandler) Toggle(c *gin.Context) {
	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if req.Item.ProductID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Product id is required",
		})
		return
	}

	sess := h.sessions.Resolve(c)
	favorited := sess.ToggleFavorite(req.Item)

	c.JSON(http.StatusOK, gin.H{
		"favorited": favorited,
		"favorites": sess.Favorites(),
	})
}

// Contains reports whether a product is favorited
// GET /api/v1/favorites/contains/:id
func (h *FavoritesHandler) Contains(c *gin.Context) {
	productID := c.Param("id")
	if productID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Product id is required",
		})
		return
	}

	sess := h.sessions.Resolve(c)

	c.JSON(http.StatusOK, gin.H{
		"contains": sess.IsFavorite(productID),
	})
}

// ClearFavorites empties the favorites set. For an authenticated user the
// stored record is removed as well.
// DELETE /api/v1/favorites
func (h *FavoritesHandler) ClearFavorites(c *gin.Context) {
	sess := h.sessions.Resolve(c)
	sess.ClearFavorites()

	if userID, ok := middleware.GetUserIDFromContext(c); ok {
		owner := strconv.FormatUint(uint64(userID), 10)
		if err := h.remote.Clear(c.Request.Context(), owner); err != nil {
			h.logger.WithError(err).Error("Failed to delete stored favorites")
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to clear favorites",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}

// SaveSnapshot stores a full favorites snapshot for the authenticated user
// and adopts it as the live state. Requires authentication.
// POST /api/v1/favorites
func (h *FavoritesHandler) SaveSnapshot(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	var req FavoritesSnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	snapshot := favorites.ReplaceAll(req.Favorites.Items)
	owner := strconv.FormatUint(uint64(userID), 10)
	if err := h.remote.Save(c.Request.Context(), owner, snapshot); err != nil {
		h.logger.WithError(err).Error("Failed to store favorites snapshot")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to save favorites",
		})
		return
	}

	sess := h.sessions.Resolve(c)
	sess.AdoptFavorites(req.Favorites.Items)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}

// internal/interfaces/http/handlers/recent.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/marcello-store/storefront-backend/internal/domain/recent"
)

// RecentHandler serves the recently-viewed list for the current session
type RecentHandler struct {
	sessions *SessionAccess
}

// NewRecentHandler creates a new recently-viewed handler
func NewRecentHandler(sessions *SessionAccess) *RecentHandler {
	return &RecentHandler{sessions: sessions}
}

// RecordViewRequest represents a product page view
type RecordViewRequest struct {
	Product recent.Product `json:"product" binding:"required"`
}

// GetRecentlyViewed returns the recently-viewed products, newest first
// GET /api/v1/recently-viewed
func (h *RecentHandler) GetRecentlyViewed(c *gin.Context) {
	sess := h.sessions.Resolve(c)

	c.JSON(http.StatusOK, gin.H{
		"products": sess.RecentlyViewed(),
	})
}

// RecordView pushes a product onto the recently-viewed list
// POST /api/v1/recently-viewed
func (h *RecentHandler) RecordView(c *gin.Context) {
	var req RecordViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if req.Product.ProductID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Product id is required",
		})
		return
	}

	sess := h.sessions.Resolve(c)
	sess.RecordView(req.Product)

	c.JSON(http.StatusOK, gin.H{
		"products": sess.RecentlyViewed(),
	})
}

// ClearRecentlyViewed empties the recently-viewed list
// DELETE /api/v1/recently-viewed
func (h *RecentHandler) ClearRecentlyViewed(c *gin.Context) {
	sess := h.sessions.Resolve(c)
	sess.ClearRecentlyViewed(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}

// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/marcello-store/storefront-backend/internal/domain/cart"
	"github.com/marcello-store/storefront-backend/internal/interfaces/http/middleware"
	"github.com/marcello-store/storefront-backend/internal/session"
)

// CartHandler serves the cart state for the current session
type CartHandler struct {
	sessions *SessionAccess
	remote   session.CartStore
	logger   *logrus.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(sessions *SessionAccess, remote session.CartStore, logger *logrus.Logger) *CartHandler {
	return &CartHandler{
		sessions: sessions,
		remote:   remote,
		logger:   logger,
	}
}

// AddItemRequest represents an add-to-cart request
type AddItemRequest struct {
	Product  cart.ProductSummary `json:"product" binding:"required"`
	Size     string              `json:"size"`
	Color    cart.Color          `json:"color"`
	Quantity int                 `json:"quantity" binding:"required"`
}

// UpdateQuantityRequest represents a quantity change for one line item
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// SnapshotRequest represents a full cart snapshot upload
type SnapshotRequest struct {
	Cart struct {
		Items []cart.LineItem `json:"items"`
	} `json:"cart" binding:"required"`
}

// GetCart returns the current cart
// GET /api/v1/cart
func (h *CartHandler) GetCart(c *gin.Context) {
	sess := h.sessions.Resolve(c)

	c.JSON(http.StatusOK, gin.H{
		"cart": sess.Cart(),
	})
}

// AddItem adds a product variant to the cart
// POST /api/v1/cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if req.Product.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Product id is required",
		})
		return
	}

	sess := h.sessions.Resolve(c)

	if err := sess.AddLineItem(req.Product, req.Size, req.Color, req.Quantity); err != nil {
		if errors.Is(err, cart.ErrInvalidQuantity) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Quantity must be at least 1",
			})
			return
		}
		h.logger.WithError(err).Error("Failed to add cart item")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to add item to cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cart": sess.Cart(),
	})
}

// UpdateItem changes the quantity of one line item
// PUT /api/v1/cart/items/:key
func (h *CartHandler) UpdateItem(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Item key is required",
		})
		return
	}

	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	sess := h.sessions.Resolve(c)
	sess.SetQuantity(key, req.Quantity)

	c.JSON(http.StatusOK, gin.H{
		"cart": sess.Cart(),
	})
}

// RemoveItem deletes one line item from the cart
// DELETE /api/v1/cart/items/:key
func (h *CartHandler) RemoveItem(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Item key is required",
		})
		return
	}

	sess := h.sessions.Resolve(c)
	sess.RemoveLineItem(key)

	c.JSON(http.StatusOK, gin.H{
		"cart": sess.Cart(),
	})
}

// ClearCart empties the cart. For an authenticated user the stored record
// is removed as well.
// DELETE /api/v1/cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	sess := h.sessions.Resolve(c)
	sess.ClearCart()

	if userID, ok := middleware.GetUserIDFromContext(c); ok {
		owner := strconv.FormatUint(uint64(userID), 10)
		if err := h.remote.Clear(c.Request.Context(), owner); err != nil {
			h.logger.WithError(err).Error("Failed to delete stored cart")
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to clear cart",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}

// GetCartCount returns the total item count for badge rendering
// GET /api/v1/cart/count
func (h *CartHandler) GetCartCount(c *gin.Context) {
	sess := h.sessions.Resolve(c)

	c.JSON(http.StatusOK, gin.H{
		"count": sess.Cart().TotalItems,
	})
}

// SaveSnapshot stores a full cart snapshot for the authenticated user and
// adopts it as the live state. Requires authentication.
// POST /api/v1/cart
func (h *CartHandler) SaveSnapshot(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	var req SnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	snapshot := cart.ReplaceAll(req.Cart.Items)
	owner := strconv.FormatUint(uint64(userID), 10)
	if err := h.remote.Save(c.Request.Context(), owner, snapshot); err != nil {
		h.logger.WithError(err).Error("Failed to store cart snapshot")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to save cart",
		})
		return
	}

	sess := h.sessions.Resolve(c)
	sess.AdoptCart(req.Cart.Items)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}

// internal/domain/favorites/entity.go
package favorites

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/marcello-store/storefront-backend/internal/domain/cart"
)

// Item represents a favorited product. Favorites track whole products, not
// size/color combinations, so the identity is the product id alone.
type Item struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"image_url"`
	Reference string          `json:"reference"`
	Colors    []cart.Color    `json:"colors,omitempty"`
	Sizes     []string        `json:"sizes,omitempty"`
	AddedAt   time.Time       `json:"added_at"`
}

// Set is the favorites aggregate persisted for a session or user.
// TotalItems always equals len(Items).
type Set struct {
	Items      []Item `json:"items"`
	TotalItems int    `json:"total_items"`
}

// Empty returns an empty favorites set.
func Empty() Set {
	return Set{Items: []Item{}, TotalItems: 0}
}

// IsEmpty reports whether the set holds no items.
func (s Set) IsEmpty() bool {
	return len(s.Items) == 0
}

// Contains reports whether the product is in the set.
func (s Set) Contains(productID string) bool {
	for _, item := range s.Items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}

// internal/domain/cart/entity.go
package cart

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Color identifies a product color option.
type Color struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// ProductSummary is the catalog data the cart consumes when an item is
// added. The catalog itself is an external collaborator; the cart never
// looks past these fields.
type ProductSummary struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"image_url"`
	Reference string          `json:"reference"`
}

// LineItem represents one product/size/color combination in a cart.
type LineItem struct {
	Key       string          `json:"key"`
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	ImageURL  string          `json:"image_url"`
	Size      string          `json:"size"`
	Color     Color           `json:"color"`
	Quantity  int             `json:"quantity"`
	Reference string          `json:"reference"`
}

// ItemKey builds the composite identity of a line item. Two items are the
// same cart entry iff product, size and color name all match.
func ItemKey(productID, size, colorName string) string {
	return fmt.Sprintf("%s-%s-%s", productID, size, colorName)
}

// Cart is the aggregate snapshot persisted for a session or user.
// TotalItems and TotalPrice are always recomputed from Items after a
// structural change; incoming totals are never trusted.
type Cart struct {
	Items      []LineItem      `json:"items"`
	TotalItems int             `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// Empty returns an empty cart aggregate.
func Empty() Cart {
	return Cart{Items: []LineItem{}, TotalItems: 0, TotalPrice: decimal.Zero}
}

// IsEmpty reports whether the cart holds no line items.
func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Find returns the line item with the given key, if present.
func (c Cart) Find(key string) (LineItem, bool) {
	for _, item := range c.Items {
		if item.Key == key {
			return item, true
		}
	}
	return LineItem{}, false
}

// RoundedTotal returns the total price rounded to two decimal places.
// Rounding happens only here, at the presentation boundary; the aggregate
// keeps full precision internally.
func (c Cart) RoundedTotal() decimal.Decimal {
	return c.TotalPrice.Round(2)
}

// recompute derives the aggregate totals from the line items.
func recompute(items []LineItem) (int, decimal.Decimal) {
	totalItems := 0
	totalPrice := decimal.Zero
	for _, item := range items {
		totalItems += item.Quantity
		totalPrice = totalPrice.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return totalItems, totalPrice
}

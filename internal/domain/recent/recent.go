// internal/domain/recent/recent.go
package recent

import "github.com/shopspring/decimal"

// MaxEntries caps how many products the recently-viewed list keeps.
const MaxEntries = 8

// Product is the trimmed-down summary stored per view.
type Product struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"image_url"`
	Reference string          `json:"reference"`
}

// List holds recently viewed products, most recent first.
type List []Product

// Push returns a new list with the product at the front. A product already
// in the list moves to the front instead of duplicating, and the list is
// trimmed to MaxEntries.
func Push(state List, p Product) List {
	if p.ProductID == "" {
		return state
	}

	out := make(List, 0, len(state)+1)
	out = append(out, p)
	for _, existing := range state {
		if existing.ProductID != p.ProductID {
			out = append(out, existing)
		}
	}

	if len(out) > MaxEntries {
		out = out[:MaxEntries]
	}
	return out
}

// Clear returns an empty list.
func Clear() List {
	return List{}
}

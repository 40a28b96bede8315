// internal/domain/cart/reducer.go
package cart

import "errors"

// ErrInvalidQuantity is returned when an add request carries a quantity
// below 1.
var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// Add returns a new cart with the given product/size/color added. If an
// item with the same key already exists its quantity is incremented by qty;
// otherwise a new line item is appended. Totals are recomputed from the
// resulting item list.
func Add(state Cart, product ProductSummary, size string, color Color, qty int) (Cart, error) {
	if qty < 1 {
		return state, ErrInvalidQuantity
	}

	key := ItemKey(product.ID, size, color.Name)
	items := copyItems(state.Items)

	found := false
	for i := range items {
		if items[i].Key == key {
			items[i].Quantity += qty
			found = true
			break
		}
	}

	if !found {
		items = append(items, LineItem{
			Key:       key,
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			ImageURL:  product.ImageURL,
			Size:      size,
			Color:     color,
			Quantity:  qty,
			Reference: product.Reference,
		})
	}

	return withItems(items), nil
}

// Remove returns a new cart without the item matching key. Removing an
// absent key is a no-op, not an error.
func Remove(state Cart, key string) Cart {
	items := make([]LineItem, 0, len(state.Items))
	for _, item := range state.Items {
		if item.Key != key {
			items = append(items, item)
		}
	}
	return withItems(items)
}

// SetQuantity returns a new cart with the matching item's quantity set to
// qty. A quantity of zero or less leaves the cart unchanged; the item is
// never removed through this path. An absent key is also a no-op.
func SetQuantity(state Cart, key string, qty int) Cart {
	if qty <= 0 {
		return state
	}

	idx := -1
	for i := range state.Items {
		if state.Items[i].Key == key {
			idx = i
			break
		}
	}
	if idx == -1 {
		return state
	}

	items := copyItems(state.Items)
	items[idx].Quantity = qty
	return withItems(items)
}

// Clear returns an empty cart.
func Clear() Cart {
	return Empty()
}

// ReplaceAll builds a cart from a loaded item list. Used only by the
// snapshot loader paths; totals are recomputed, never taken from the
// incoming snapshot.
func ReplaceAll(items []LineItem) Cart {
	return withItems(copyItems(items))
}

func withItems(items []LineItem) Cart {
	totalItems, totalPrice := recompute(items)
	return Cart{Items: items, TotalItems: totalItems, TotalPrice: totalPrice}
}

func copyItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}

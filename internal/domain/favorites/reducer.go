// internal/domain/favorites/reducer.go
package favorites

// Add returns a new set with the item appended. Adding a product that is
// already present is a no-op; the existing entry wins.
func Add(state Set, item Item) Set {
	if state.Contains(item.ProductID) {
		return state
	}
	items := copyItems(state.Items)
	items = append(items, item)
	return withItems(items)
}

// Remove returns a new set without the given product. Removing an absent
// product is a no-op.
func Remove(state Set, productID string) Set {
	items := make([]Item, 0, len(state.Items))
	for _, item := range state.Items {
		if item.ProductID != productID {
			items = append(items, item)
		}
	}
	return withItems(items)
}

// Toggle adds the item if its product is absent and removes it if present.
func Toggle(state Set, item Item) Set {
	if state.Contains(item.ProductID) {
		return Remove(state, item.ProductID)
	}
	return Add(state, item)
}

// Clear returns an empty set.
func Clear() Set {
	return Empty()
}

// ReplaceAll builds a set from a loaded item list. The total is recomputed,
// never taken from the incoming snapshot.
func ReplaceAll(items []Item) Set {
	return withItems(copyItems(items))
}

// Union merges extra into base, deduplicating by product id. Entries
// already in base are kept as-is; entries unique to extra are appended in
// their original order. This is the login-time merge policy for favorites.
func Union(base, extra Set) Set {
	items := copyItems(base.Items)
	for _, item := range extra.Items {
		exists := false
		for _, existing := range items {
			if existing.ProductID == item.ProductID {
				exists = true
				break
			}
		}
		if !exists {
			items = append(items, item)
		}
	}
	return withItems(items)
}

func withItems(items []Item) Set {
	return Set{Items: items, TotalItems: len(items)}
}

func copyItems(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

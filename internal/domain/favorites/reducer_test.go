// internal/domain/favorites/reducer_test.go
package favorites

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fav(productID string) Item {
	return Item{
		ProductID: productID,
		Name:      "Product " + productID,
		Price:     decimal.NewFromFloat(29.99),
		Reference: "REF-" + productID,
		AddedAt:   time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
	}
}

func TestAdd(t *testing.T) {
	t.Run("appends a new item", func(t *testing.T) {
		state := Add(Empty(), fav("p1"))

		require.Len(t, state.Items, 1)
		assert.Equal(t, 1, state.TotalItems)
		assert.True(t, state.Contains("p1"))
	})

	t.Run("duplicate product keeps the existing entry", func(t *testing.T) {
		original := fav("p1")
		state := Add(Empty(), original)

		replacement := fav("p1")
		replacement.Name = "Renamed"
		state = Add(state, replacement)

		require.Len(t, state.Items, 1)
		assert.Equal(t, original.Name, state.Items[0].Name)
	})
}

func TestRemove(t *testing.T) {
	state := Add(Add(Empty(), fav("p1")), fav("p2"))

	t.Run("removes the matching product", func(t *testing.T) {
		next := Remove(state, "p1")

		assert.False(t, next.Contains("p1"))
		assert.True(t, next.Contains("p2"))
		assert.Equal(t, 1, next.TotalItems)
	})

	t.Run("absent product is a no-op", func(t *testing.T) {
		next := Remove(state, "p9")
		assert.Equal(t, state.Items, next.Items)
	})
}

func TestToggle(t *testing.T) {
	t.Run("adds when absent and removes when present", func(t *testing.T) {
		state := Toggle(Empty(), fav("p1"))
		assert.True(t, state.Contains("p1"))

		state = Toggle(state, fav("p1"))
		assert.False(t, state.Contains("p1"))
		assert.Equal(t, 0, state.TotalItems)
	})

	t.Run("double toggle restores the original membership", func(t *testing.T) {
		state := Add(Empty(), fav("p1"))
		next := Toggle(Toggle(state, fav("p2")), fav("p2"))

		assert.Equal(t, state.TotalItems, next.TotalItems)
		assert.True(t, next.Contains("p1"))
		assert.False(t, next.Contains("p2"))
	})
}

func TestReplaceAll(t *testing.T) {
	state := ReplaceAll([]Item{fav("p1"), fav("p2")})

	assert.Equal(t, 2, state.TotalItems)
	assert.True(t, state.Contains("p1"))
	assert.True(t, state.Contains("p2"))

	assert.True(t, ReplaceAll(nil).IsEmpty())
}

func TestUnion(t *testing.T) {
	t.Run("keeps base entries and appends extras not present", func(t *testing.T) {
		base := ReplaceAll([]Item{fav("p1"), fav("p2")})

		conflicting := fav("p2")
		conflicting.Name = "Guest copy"
		extra := ReplaceAll([]Item{conflicting, fav("p3")})

		merged := Union(base, extra)

		require.Equal(t, 3, merged.TotalItems)
		assert.Equal(t, "p1", merged.Items[0].ProductID)
		assert.Equal(t, "p2", merged.Items[1].ProductID)
		assert.Equal(t, "p3", merged.Items[2].ProductID)

		// On conflict the base entry wins
		assert.Equal(t, "Product p2", merged.Items[1].Name)
	})

	t.Run("empty base adopts extra as-is", func(t *testing.T) {
		extra := ReplaceAll([]Item{fav("p1")})
		merged := Union(Empty(), extra)

		assert.Equal(t, extra.Items, merged.Items)
	})

	t.Run("empty extra leaves base untouched", func(t *testing.T) {
		base := ReplaceAll([]Item{fav("p1")})
		merged := Union(base, Empty())

		assert.Equal(t, base.Items, merged.Items)
	})
}

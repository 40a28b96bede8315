// internal/domain/cart/reducer_test.go
package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tee(name string) ProductSummary {
	return ProductSummary{
		ID:        name,
		Name:      "Tee " + name,
		Price:     decimal.NewFromFloat(19.99),
		ImageURL:  "https://cdn.example.com/" + name + ".jpg",
		Reference: "REF-" + name,
	}
}

var (
	black = Color{Name: "Black", Hex: "#000000"}
	white = Color{Name: "White", Hex: "#ffffff"}
)

func TestAdd(t *testing.T) {
	t.Run("appends a new line item", func(t *testing.T) {
		state, err := Add(Empty(), tee("p1"), "M", black, 2)
		require.NoError(t, err)

		require.Len(t, state.Items, 1)
		item := state.Items[0]
		assert.Equal(t, "p1-M-Black", item.Key)
		assert.Equal(t, 2, item.Quantity)
		assert.Equal(t, 2, state.TotalItems)
		assert.True(t, state.TotalPrice.Equal(decimal.NewFromFloat(39.98)))
	})

	t.Run("increments quantity for the same product size and color", func(t *testing.T) {
		state, err := Add(Empty(), tee("p1"), "M", black, 1)
		require.NoError(t, err)
		state, err = Add(state, tee("p1"), "M", black, 2)
		require.NoError(t, err)

		require.Len(t, state.Items, 1)
		assert.Equal(t, 3, state.Items[0].Quantity)
		assert.Equal(t, 3, state.TotalItems)
	})

	t.Run("different size or color makes a distinct line item", func(t *testing.T) {
		state, err := Add(Empty(), tee("p1"), "M", black, 1)
		require.NoError(t, err)
		state, err = Add(state, tee("p1"), "L", black, 1)
		require.NoError(t, err)
		state, err = Add(state, tee("p1"), "M", white, 1)
		require.NoError(t, err)

		assert.Len(t, state.Items, 3)
		assert.Equal(t, 3, state.TotalItems)
	})

	t.Run("rejects quantity below one", func(t *testing.T) {
		tests := []struct {
			name string
			qty  int
		}{
			{"zero", 0},
			{"negative", -3},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				before, err := Add(Empty(), tee("p1"), "M", black, 1)
				require.NoError(t, err)

				after, err := Add(before, tee("p2"), "M", black, tt.qty)
				assert.ErrorIs(t, err, ErrInvalidQuantity)
				assert.Equal(t, before, after)
			})
		}
	})

	t.Run("does not mutate the previous state", func(t *testing.T) {
		first, err := Add(Empty(), tee("p1"), "M", black, 1)
		require.NoError(t, err)

		_, err = Add(first, tee("p1"), "M", black, 5)
		require.NoError(t, err)

		assert.Equal(t, 1, first.Items[0].Quantity)
	})
}

func TestRemove(t *testing.T) {
	state, err := Add(Empty(), tee("p1"), "M", black, 2)
	require.NoError(t, err)
	state, err = Add(state, tee("p2"), "L", white, 1)
	require.NoError(t, err)

	t.Run("removes the matching item and recomputes totals", func(t *testing.T) {
		next := Remove(state, "p1-M-Black")

		require.Len(t, next.Items, 1)
		assert.Equal(t, "p2-L-White", next.Items[0].Key)
		assert.Equal(t, 1, next.TotalItems)
		assert.True(t, next.TotalPrice.Equal(decimal.NewFromFloat(19.99)))
	})

	t.Run("absent key is a no-op", func(t *testing.T) {
		next := Remove(state, "nope-M-Black")
		assert.Equal(t, state.Items, next.Items)
		assert.Equal(t, state.TotalItems, next.TotalItems)
	})
}

func TestSetQuantity(t *testing.T) {
	state, err := Add(Empty(), tee("p1"), "M", black, 2)
	require.NoError(t, err)

	t.Run("updates quantity and totals", func(t *testing.T) {
		next := SetQuantity(state, "p1-M-Black", 5)

		item, ok := next.Find("p1-M-Black")
		require.True(t, ok)
		assert.Equal(t, 5, item.Quantity)
		assert.Equal(t, 5, next.TotalItems)
		assert.True(t, next.TotalPrice.Equal(decimal.NewFromFloat(99.95)))
	})

	t.Run("zero or negative quantity leaves the item unchanged", func(t *testing.T) {
		for _, qty := range []int{0, -1} {
			next := SetQuantity(state, "p1-M-Black", qty)

			item, ok := next.Find("p1-M-Black")
			require.True(t, ok)
			assert.Equal(t, 2, item.Quantity)
		}
	})

	t.Run("absent key is a no-op", func(t *testing.T) {
		next := SetQuantity(state, "missing-M-Black", 4)
		assert.Equal(t, state, next)
	})
}

func TestClear(t *testing.T) {
	state := Clear()

	assert.True(t, state.IsEmpty())
	assert.Equal(t, 0, state.TotalItems)
	assert.True(t, state.TotalPrice.IsZero())
}

func TestReplaceAll(t *testing.T) {
	t.Run("recomputes totals instead of trusting the snapshot", func(t *testing.T) {
		items := []LineItem{
			{Key: "p1-M-Black", ProductID: "p1", UnitPrice: decimal.NewFromInt(10), Quantity: 2},
			{Key: "p2-L-White", ProductID: "p2", UnitPrice: decimal.NewFromInt(5), Quantity: 3},
		}

		state := ReplaceAll(items)

		assert.Equal(t, 5, state.TotalItems)
		assert.True(t, state.TotalPrice.Equal(decimal.NewFromInt(35)))
	})

	t.Run("nil item list yields an empty cart", func(t *testing.T) {
		state := ReplaceAll(nil)
		assert.True(t, state.IsEmpty())
		assert.True(t, state.TotalPrice.IsZero())
	})
}

func TestRoundedTotal(t *testing.T) {
	// Full precision is kept internally; rounding happens only at the
	// presentation boundary.
	state, err := Add(Empty(), ProductSummary{ID: "p1", Price: decimal.NewFromFloat(10.333)}, "M", black, 3)
	require.NoError(t, err)

	assert.True(t, state.TotalPrice.Equal(decimal.NewFromFloat(30.999)))
	assert.True(t, state.RoundedTotal().Equal(decimal.NewFromFloat(31.00)))
}

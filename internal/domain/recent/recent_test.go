// internal/domain/recent/recent_test.go
package recent

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id string) Product {
	return Product{ProductID: id, Name: "Product " + id}
}

func TestPush(t *testing.T) {
	t.Run("newest entry goes to the front", func(t *testing.T) {
		list := Push(Push(List{}, product("p1")), product("p2"))

		require.Len(t, list, 2)
		assert.Equal(t, "p2", list[0].ProductID)
		assert.Equal(t, "p1", list[1].ProductID)
	})

	t.Run("revisiting a product moves it to the front without duplicating", func(t *testing.T) {
		list := Push(Push(Push(List{}, product("p1")), product("p2")), product("p1"))

		require.Len(t, list, 2)
		assert.Equal(t, "p1", list[0].ProductID)
		assert.Equal(t, "p2", list[1].ProductID)
	})

	t.Run("list is capped at MaxEntries", func(t *testing.T) {
		var list List
		for i := 0; i < MaxEntries+3; i++ {
			list = Push(list, product(fmt.Sprintf("p%d", i)))
		}

		require.Len(t, list, MaxEntries)
		assert.Equal(t, fmt.Sprintf("p%d", MaxEntries+2), list[0].ProductID)
	})

	t.Run("empty product id is skipped", func(t *testing.T) {
		list := Push(List{}, Product{Name: "no id"})
		assert.Empty(t, list)
	})
}

func TestClear(t *testing.T) {
	assert.Empty(t, Clear())
}

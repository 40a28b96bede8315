// internal/session/debounce_test.go
package session

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSchedule(t *testing.T) {
	t.Run("fires after the window", func(t *testing.T) {
		var fired atomic.Int32
		w := schedule(nil, 10*time.Millisecond, func() { fired.Add(1) })
		defer w.cancel()

		time.Sleep(50 * time.Millisecond)
		assert.Equal(t, int32(1), fired.Load())
	})

	t.Run("rescheduling stops the previous timer", func(t *testing.T) {
		var first, second atomic.Int32

		w := schedule(nil, 20*time.Millisecond, func() { first.Add(1) })
		w = schedule(w, 20*time.Millisecond, func() { second.Add(1) })
		defer w.cancel()

		time.Sleep(100 * time.Millisecond)
		assert.Equal(t, int32(0), first.Load())
		assert.Equal(t, int32(1), second.Load())
	})

	t.Run("cancel is safe on nil and empty handles", func(t *testing.T) {
		var w *pendingWrite
		w.cancel()
		(&pendingWrite{}).cancel()
	})

	t.Run("cancel stops an unfired write", func(t *testing.T) {
		var fired atomic.Int32
		w := schedule(nil, 20*time.Millisecond, func() { fired.Add(1) })
		w.cancel()

		time.Sleep(100 * time.Millisecond)
		assert.Equal(t, int32(0), fired.Load())
	})
}

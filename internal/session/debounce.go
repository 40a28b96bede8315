// internal/session/debounce.go
package session

import "time"

// pendingWrite is the single replaceable handle for a store's scheduled
// persist. Scheduling a new write stops the previous timer, so a later
// write supersedes an earlier one instead of racing with it. All handle
// manipulation happens under the session mutex.
type pendingWrite struct {
	timer *time.Timer
}

// schedule replaces prev with a new trailing-edge write firing after
// window.
func schedule(prev *pendingWrite, window time.Duration, fn func()) *pendingWrite {
	prev.cancel()
	return &pendingWrite{timer: time.AfterFunc(window, fn)}
}

// cancel stops the pending write, if any. Safe on a nil handle.
func (w *pendingWrite) cancel() {
	if w != nil && w.timer != nil {
		w.timer.Stop()
	}
}

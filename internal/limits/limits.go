// internal/limits/limits.go
package limits

import "sync"

// ExceedsLimit reports whether a byte count is over a configured
// ceiling. A ceiling of zero or less disables the check. It is used
// both against a declared Content-Length before the body is read and
// against the bytes actually read.
func ExceedsLimit(size, max int64) bool {
	return max > 0 && size > max
}

// DelayGate bounds how many in-flight requests may simultaneously be
// sleeping in an artificial response delay. Admission is a plain
// check-then-increment under one mutex; callers must release on every
// exit path from the delay window.
type DelayGate struct {
	mu     sync.Mutex
	active int
	max    int
}

func NewDelayGate(max int) *DelayGate {
	return &DelayGate{max: max}
}

// TryAcquire takes a delay slot, reporting false at capacity.
func (g *DelayGate) TryAcquire() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.active >= g.max {
		return false
	}
	g.active++
	return true
}

// Release returns a slot taken by TryAcquire.
func (g *DelayGate) Release() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.active > 0 {
		g.active--
	}
}

// Active returns the number of requests currently holding a slot.
func (g *DelayGate) Active() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.active
}

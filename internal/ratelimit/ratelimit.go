// internal/ratelimit/ratelimit.go
package ratelimit

import (
	"sync"
	"time"
)

// Result is the outcome of one rate-limit check. Remaining and Reset
// are reported on both allowed and rejected requests so callers can
// always attach quota headers.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     time.Time
}

// Limiter counts requests per client key in fixed windows.
type Limiter interface {
	Allow(key string) (Result, error)
	Close() error
}

type windowEntry struct {
	count int
	start time.Time
}

// FixedWindowLimiter is the in-process limiter: one counter per key in
// a mutex-guarded map, swept periodically by a background goroutine so
// idle keys do not accumulate.
type FixedWindowLimiter struct {
	mu      sync.Mutex
	entries map[string]*windowEntry
	limit   int
	window  time.Duration
	stopCh  chan struct{}
	nowFn   func() time.Time
}

func NewFixedWindowLimiter(limit int, window time.Duration) *FixedWindowLimiter {
	l := &FixedWindowLimiter{
		entries: make(map[string]*windowEntry),
		limit:   limit,
		window:  window,
		stopCh:  make(chan struct{}),
		nowFn:   time.Now,
	}
	go l.sweep()
	return l
}

func (l *FixedWindowLimiter) Allow(key string) (Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.nowFn()
	entry, ok := l.entries[key]
	if !ok || now.Sub(entry.start) >= l.window {
		entry = &windowEntry{count: 0, start: now}
		l.entries[key] = entry
	}
	entry.count++

	remaining := l.limit - entry.count
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:   entry.count <= l.limit,
		Limit:     l.limit,
		Remaining: remaining,
		Reset:     entry.start.Add(l.window),
	}, nil
}

func (l *FixedWindowLimiter) Close() error {
	close(l.stopCh)
	return nil
}

// sweep drops expired windows on a timer independent of traffic.
func (l *FixedWindowLimiter) sweep() {
	interval := l.window
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopCh:
			return
		case <-ticker.C:
			now := l.nowFn()
			l.mu.Lock()
			for key, entry := range l.entries {
				if now.Sub(entry.start) >= l.window {
					delete(l.entries, key)
				}
			}
			l.mu.Unlock()
		}
	}
}

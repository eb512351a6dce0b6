package ratelimit

import (
	"sync"
	"time"
)

// GlobalKey is the default key covering all upstream calls from one client.
const GlobalKey = "global"

// Status is a read-only snapshot of one window, for diagnostics only.
type Status struct {
	Used  int           `json:"used"`
	Quota int           `json:"quota"`
	Reset time.Duration `json:"reset_ms"`
}

type window struct {
	count   int
	resetAt time.Time
}

// Limiter is a fixed-window request counter per logical key. Windows are
// created lazily and reset in place once their reset instant passes.
type Limiter struct {
	mu      sync.Mutex
	quota   int
	length  time.Duration
	windows map[string]*window
	now     func() time.Time
}

func New(quota int, length time.Duration) *Limiter {
	return &Limiter{
		quota:   quota,
		length:  length,
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// TryAcquire consumes one slot for key if the current window has capacity.
// A false return is a rejection the caller must surface, not retry.
func (l *Limiter) TryAcquire(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	w := l.advance(key)
	if w.count >= l.quota {
		return false
	}
	w.count++
	return true
}

// Status reports the current window without consuming a slot.
func (l *Limiter) Status(key string) Status {
	l.mu.Lock()
	defer l.mu.Unlock()

	w := l.advance(key)
	return Status{
		Used:  w.count,
		Quota: l.quota,
		Reset: w.resetAt.Sub(l.now()),
	}
}

// advance returns the window for key, resetting it first when its reset
// instant has passed. Caller must hold l.mu.
func (l *Limiter) advance(key string) *window {
	now := l.now()

	w, ok := l.windows[key]
	if !ok {
		w = &window{resetAt: now.Add(l.length)}
		l.windows[key] = w
		return w
	}

	if !now.Before(w.resetAt) {
		w.count = 0
		w.resetAt = now.Add(l.length)
	}
	return w
}

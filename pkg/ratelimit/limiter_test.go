package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTryAcquireQuotaExhaustion(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := base

	l := New(3, time.Minute)
	l.now = func() time.Time { return clock }

	for i := 0; i < 3; i++ {
		assert.True(t, l.TryAcquire(GlobalKey), "call %d should be permitted", i+1)
	}
	assert.False(t, l.TryAcquire(GlobalKey), "4th call in window should be rejected")

	// Advance past the window, the counter resets.
	clock = base.Add(61 * time.Second)
	assert.True(t, l.TryAcquire(GlobalKey), "call after window reset should be permitted")
}

func TestWindowsAreIndependentPerKey(t *testing.T) {
	l := New(1, time.Minute)

	assert.True(t, l.TryAcquire("a"))
	assert.False(t, l.TryAcquire("a"))
	assert.True(t, l.TryAcquire("b"), "keys must not share windows")
}

func TestStatusReadOnly(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := base

	l := New(30, time.Minute)
	l.now = func() time.Time { return clock }

	l.TryAcquire(GlobalKey)
	l.TryAcquire(GlobalKey)

	st := l.Status(GlobalKey)
	assert.Equal(t, 2, st.Used)
	assert.Equal(t, 30, st.Quota)
	assert.Equal(t, time.Minute, st.Reset)

	// Status must not consume a slot.
	assert.Equal(t, 2, l.Status(GlobalKey).Used)

	clock = base.Add(30 * time.Second)
	assert.Equal(t, 30*time.Second, l.Status(GlobalKey).Reset)
}

func TestStatusAfterReset(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := base

	l := New(5, time.Minute)
	l.now = func() time.Time { return clock }

	for i := 0; i < 5; i++ {
		l.TryAcquire(GlobalKey)
	}

	clock = base.Add(2 * time.Minute)
	st := l.Status(GlobalKey)
	assert.Equal(t, 0, st.Used, "expired window reports zero used")
}

package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllow_RefillsOverTime(t *testing.T) {
	now := time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC)
	l := NewWithClock(func() time.Time { return now })

	assert.True(t, l.Allow("1.2.3.4", 2, 1))
	assert.True(t, l.Allow("1.2.3.4", 2, 1))
	assert.False(t, l.Allow("1.2.3.4", 2, 1))
	assert.True(t, l.Allow("5.6.7.8", 2, 1), "buckets are per key")

	now = now.Add(time.Second)
	assert.True(t, l.Allow("1.2.3.4", 2, 1))
	assert.False(t, l.Allow("1.2.3.4", 2, 1))
}

func TestWait_ReturnsWhenTokenAvailable(t *testing.T) {
	l := New()
	ctx := context.Background()

	assert.NoError(t, l.Wait(ctx, "provider", 1, 100))
	start := time.Now()
	assert.NoError(t, l.Wait(ctx, "provider", 1, 100))
	assert.Less(t, time.Since(start), time.Second)
}

func TestWait_HonoursContext(t *testing.T) {
	l := New()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.NoError(t, l.Wait(ctx, "provider", 1, 0.01))
	assert.ErrorIs(t, l.Wait(ctx, "provider", 1, 0.01), context.DeadlineExceeded)
}

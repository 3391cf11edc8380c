package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestMemory(clk *fakeClock, opts ...MemoryOption) *MemoryCache {
	opts = append([]MemoryOption{WithMemoryClock(clk.Now), WithMemoryCleanup(0)}, opts...)
	return NewMemoryCache(opts...)
}

func TestMemoryCache_GetSetExpire(t *testing.T) {
	ctx := context.Background()
	clk := &fakeClock{t: time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC)}
	mc := newTestMemory(clk)
	defer mc.Close()

	_, err := mc.Get(ctx, "chain:SPY")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, mc.Set(ctx, "chain:SPY", []byte("payload"), time.Minute))
	b, err := mc.Get(ctx, "chain:SPY")
	require.NoError(t, err)
	assert.Equal(t, "payload", string(b))

	clk.Advance(2 * time.Minute)
	_, err = mc.Get(ctx, "chain:SPY")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Equal(t, 0, mc.Len())
}

func TestMemoryCache_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	clk := &fakeClock{t: time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC)}
	mc := newTestMemory(clk, WithMemoryMaxSize(2))
	defer mc.Close()

	require.NoError(t, mc.Set(ctx, "a", []byte("1"), 0))
	clk.Advance(time.Second)
	require.NoError(t, mc.Set(ctx, "b", []byte("2"), 0))
	clk.Advance(time.Second)
	_, err := mc.Get(ctx, "a")
	require.NoError(t, err)
	clk.Advance(time.Second)
	require.NoError(t, mc.Set(ctx, "c", []byte("3"), 0))

	_, err = mc.Get(ctx, "b")
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = mc.Get(ctx, "a")
	assert.NoError(t, err)
	_, err = mc.Get(ctx, "c")
	assert.NoError(t, err)
}

func TestMemoryCache_Delete(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache(WithMemoryCleanup(0))
	defer mc.Close()

	require.NoError(t, mc.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, mc.Delete(ctx, "a", "missing"))
	_, err := mc.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestLayeredCache_PromotesFromL2(t *testing.T) {
	ctx := context.Background()
	l1 := NewMemoryCache(WithMemoryCleanup(0))
	l2 := NewMemoryCache(WithMemoryCleanup(0))
	lc := NewLayeredCache(l1, l2, 10*time.Second)
	defer lc.Close()

	require.NoError(t, l2.Set(ctx, "k", []byte("v"), time.Minute))
	b, err := lc.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(b))

	b, err = l1.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(b))
}

func TestLayeredCache_WriteThroughAndDelete(t *testing.T) {
	ctx := context.Background()
	l1 := NewMemoryCache(WithMemoryCleanup(0))
	l2 := NewMemoryCache(WithMemoryCleanup(0))
	lc := NewLayeredCache(l1, l2, 0)

	require.NoError(t, lc.Set(ctx, "k", []byte("v"), time.Minute))
	_, err := l1.Get(ctx, "k")
	assert.NoError(t, err)
	_, err = l2.Get(ctx, "k")
	assert.NoError(t, err)

	require.NoError(t, lc.Delete(ctx, "k"))
	_, err = lc.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "chain:SPY", Key("chain", "SPY"))
	assert.Equal(t, "x", Key("x"))
}

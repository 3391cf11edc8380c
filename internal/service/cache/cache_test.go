package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"FinSpread/internal/domain/models"
	pkgcache "FinSpread/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	body  []byte
	err   error
	calls int
}

func (f *fakeSource) FetchRaw(_ context.Context, _ string) ([]byte, error) {
	f.calls++
	return f.body, f.err
}

const okDoc = `{"symbol":"SPY","status":"SUCCESS","callExpDateMap":{},"putExpDateMap":{}}`

func TestChainCache_CachesSuccessfulFetch(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{body: []byte(okDoc)}
	store := pkgcache.NewMemoryCache(pkgcache.WithMemoryCleanup(0))
	c := NewChainCache(src, store, time.Minute, nil)

	for i := 0; i < 3; i++ {
		chain, err := c.FetchChain(ctx, "spy")
		require.NoError(t, err)
		assert.Equal(t, "SPY", chain.Symbol)
	}
	assert.Equal(t, 1, src.calls)

	_, err := store.Get(ctx, "chain:SPY")
	assert.NoError(t, err)
}

func TestChainCache_DoesNotCacheFailures(t *testing.T) {
	ctx := context.Background()
	store := pkgcache.NewMemoryCache(pkgcache.WithMemoryCleanup(0))

	failed := &fakeSource{body: []byte(`{"symbol":"ZZZZ","status":"FAILED"}`)}
	_, err := NewChainCache(failed, store, time.Minute, nil).FetchChain(ctx, "ZZZZ")
	assert.ErrorIs(t, err, models.ErrUnknownSymbol)
	assert.Equal(t, 0, store.Len())

	boom := &fakeSource{err: errors.New("boom")}
	_, err = NewChainCache(boom, store, time.Minute, nil).FetchChain(ctx, "SPY")
	assert.Error(t, err)
	assert.Equal(t, 0, store.Len())
}

func TestChainCache_ReplacesCorruptEntry(t *testing.T) {
	ctx := context.Background()
	store := pkgcache.NewMemoryCache(pkgcache.WithMemoryCleanup(0))
	require.NoError(t, store.Set(ctx, "chain:SPY", []byte("not json"), time.Minute))

	src := &fakeSource{body: []byte(okDoc)}
	_, err := NewChainCache(src, store, time.Minute, nil).FetchChain(ctx, "SPY")
	require.NoError(t, err)
	assert.Equal(t, 1, src.calls)

	b, err := store.Get(ctx, "chain:SPY")
	require.NoError(t, err)
	assert.JSONEq(t, okDoc, string(b))
}

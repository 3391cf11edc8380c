package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"FinSpread/internal/domain/models"
	"FinSpread/internal/domain/repository"
	pkgcache "FinSpread/pkg/cache"
	"FinSpread/pkg/logger"
)

// ChainCache is a cache-aside ChainProvider over a raw chain source. Only
// documents that decode to a usable chain are stored.
type ChainCache struct {
	src   repository.RawChainSource
	store pkgcache.Store
	ttl   time.Duration
	log   *logger.Logger
}

func NewChainCache(src repository.RawChainSource, store pkgcache.Store, ttl time.Duration, log *logger.Logger) *ChainCache {
	if log == nil {
		log = logger.Nop()
	}
	return &ChainCache{src: src, store: store, ttl: ttl, log: log}
}

func chainKey(symbol string) string {
	return pkgcache.Key("chain", strings.ToUpper(symbol))
}

func (c *ChainCache) FetchChain(ctx context.Context, symbol string) (*models.OptionChain, error) {
	key := chainKey(symbol)

	b, err := c.store.Get(ctx, key)
	switch {
	case err == nil:
		if chain, derr := models.DecodeChain(b); derr == nil {
			c.log.Debug("chain cache hit", logger.String("symbol", symbol))
			return chain, nil
		}
		_ = c.store.Delete(ctx, key)
	case !errors.Is(err, pkgcache.ErrCacheMiss):
		c.log.Warn("chain cache read failed", logger.String("symbol", symbol), logger.Error(err))
	}

	b, err = c.src.FetchRaw(ctx, symbol)
	if err != nil {
		return nil, err
	}
	chain, err := models.DecodeChain(b)
	if err != nil {
		return nil, err
	}
	if err := c.store.Set(ctx, key, b, c.ttl); err != nil {
		c.log.Warn("chain cache write failed", logger.String("symbol", symbol), logger.Error(err))
	}
	return chain, nil
}

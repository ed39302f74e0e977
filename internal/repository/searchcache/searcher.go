// Package searchcache caches web search responses in a key-value store,
// keeping repeated pipeline runs within provider rate limits.
package searchcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/shopscout-ai/shopscout/internal/db"
	"github.com/shopscout-ai/shopscout/internal/domain"
)

const cacheKeyPrefix = "shopscout:search_cache:"

// store is the consumer interface for the search cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedSearcher caches search responses in a key-value store.
type CachedSearcher struct {
	inner      domain.Searcher
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner domain.Searcher,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedSearcher {
	return &CachedSearcher{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Search returns cached hits or calls the inner searcher. Store failures
// degrade to a pass-through call, never to a search error.
func (c *CachedSearcher) Search(ctx context.Context, query string, count int) ([]domain.SearchHit, error) {
	key := c.cacheKey(query, count)

	if hits, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return hits, nil
	}

	c.incCache("miss")

	hits, err := c.inner.Search(ctx, query, count)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	c.putToCache(ctx, key, hits)
	return hits, nil
}

func (c *CachedSearcher) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedSearcher) cacheKey(query string, count int) string {
	h := sha256.Sum256([]byte(query + "|" + strconv.Itoa(count)))
	return cacheKeyPrefix + hex.EncodeToString(h[:])
}

func (c *CachedSearcher) getFromCache(ctx context.Context, key string) ([]domain.SearchHit, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached search response", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	var hits []domain.SearchHit
	if err := json.Unmarshal(data, &hits); err != nil {
		c.logger.Warn("Failed to parse cached search response", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	return hits, true
}

func (c *CachedSearcher) putToCache(ctx context.Context, key string, hits []domain.SearchHit) {
	data, err := json.Marshal(hits)
	if err != nil {
		c.logger.Warn("Failed to encode search response", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache search response", zap.String("key", key), zap.Error(err))
	}
}

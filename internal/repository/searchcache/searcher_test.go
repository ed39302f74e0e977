package searchcache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopscout-ai/shopscout/internal/db"
	"github.com/shopscout-ai/shopscout/internal/domain"
)

func TestSearch_CacheMiss(t *testing.T) {
	inner := &mockSearcher{hits: []domain.SearchHit{
		{Title: "Dell XPS 13", URL: "https://a", Description: "d", Source: "eBay"},
	}}
	cs, ms := newTestCachedSearcher(t, inner)
	ctx := context.Background()

	// GET → ErrKeyNotFound (cache miss)
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return nil, db.ErrKeyNotFound
	}

	// SET → OK (cache put)
	var setKey string
	var setTTL time.Duration
	ms.setFn = func(_ context.Context, key string, _ []byte, ttl time.Duration) error {
		setKey = key
		setTTL = ttl
		return nil
	}

	hits, err := cs.Search(ctx, "laptop", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 1 || hits[0].Title != "Dell XPS 13" {
		t.Fatalf("unexpected hits: %v", hits)
	}
	if inner.calls != 1 {
		t.Errorf("expected 1 inner call, got %d", inner.calls)
	}
	if !strings.HasPrefix(setKey, cacheKeyPrefix) {
		t.Errorf("cache key missing prefix: %q", setKey)
	}
	if setTTL != time.Hour {
		t.Errorf("expected 1h TTL, got %v", setTTL)
	}
}

func TestSearch_CacheHit(t *testing.T) {
	inner := &mockSearcher{hits: []domain.SearchHit{{Title: "fresh"}}}
	cs, ms := newTestCachedSearcher(t, inner)

	cached, _ := json.Marshal([]domain.SearchHit{
		{Title: "cached hit", URL: "https://c", Source: "Amazon"},
	})
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return cached, nil
	}

	hits, err := cs.Search(context.Background(), "laptop", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 1 || hits[0].Title != "cached hit" {
		t.Fatalf("expected cached hits, got %v", hits)
	}
	if inner.calls != 0 {
		t.Errorf("inner searcher must not be called on hit, got %d calls", inner.calls)
	}
}

func TestSearch_InnerError(t *testing.T) {
	inner := &mockSearcher{err: errors.New("provider down")}
	cs, ms := newTestCachedSearcher(t, inner)

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return nil, db.ErrKeyNotFound
	}

	if _, err := cs.Search(context.Background(), "laptop", 10); err == nil {
		t.Fatal("expected error from inner searcher")
	}
}

func TestSearch_StoreGetFailure_PassesThrough(t *testing.T) {
	inner := &mockSearcher{hits: []domain.SearchHit{{Title: "live"}}}
	cs, ms := newTestCachedSearcher(t, inner)

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return nil, errors.New("connection reset")
	}

	hits, err := cs.Search(context.Background(), "laptop", 10)
	if err != nil {
		t.Fatalf("store failure must degrade to pass-through, got %v", err)
	}
	if len(hits) != 1 || hits[0].Title != "live" {
		t.Fatalf("expected live hits, got %v", hits)
	}
}

func TestSearch_CorruptCacheEntry_PassesThrough(t *testing.T) {
	inner := &mockSearcher{hits: []domain.SearchHit{{Title: "live"}}}
	cs, ms := newTestCachedSearcher(t, inner)

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return []byte("not json"), nil
	}

	hits, err := cs.Search(context.Background(), "laptop", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 1 || hits[0].Title != "live" {
		t.Fatalf("expected live hits, got %v", hits)
	}
	if inner.calls != 1 {
		t.Errorf("expected 1 inner call, got %d", inner.calls)
	}
}

func TestSearch_KeyVariesByCount(t *testing.T) {
	inner := &mockSearcher{}
	cs, _ := newTestCachedSearcher(t, inner)

	k1 := cs.cacheKey("laptop", 10)
	k2 := cs.cacheKey("laptop", 5)
	if k1 == k2 {
		t.Error("cache key must include the requested count")
	}
}

func TestSearch_StoreSetFailure_StillReturnsHits(t *testing.T) {
	inner := &mockSearcher{hits: []domain.SearchHit{{Title: "live"}}}
	cs, ms := newTestCachedSearcher(t, inner)

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return nil, db.ErrKeyNotFound
	}
	ms.setFn = func(_ context.Context, _ string, _ []byte, _ time.Duration) error {
		return errors.New("write failed")
	}

	hits, err := cs.Search(context.Background(), "laptop", 10)
	if err != nil {
		t.Fatalf("cache put failure must not surface, got %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("expected hits despite cache put failure, got %v", hits)
	}
}

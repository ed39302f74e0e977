package search

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/shopscout-ai/shopscout/internal/domain"
)

type mockProvider struct {
	mu      sync.Mutex
	results map[string][]domain.SearchHit
	errs    map[string]error
	calls   []string
	counts  []int
}

func (m *mockProvider) Search(_ context.Context, query string, count int) ([]domain.SearchHit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, query)
	m.counts = append(m.counts, count)
	if err := m.errs[query]; err != nil {
		return nil, err
	}
	return m.results[query], nil
}

func hit(url string) domain.SearchHit {
	return domain.SearchHit{Title: "t", URL: url, Description: "d", Source: "s"}
}

func TestRun_ConcatenatesInQueryOrder(t *testing.T) {
	p := &mockProvider{results: map[string][]domain.SearchHit{
		"q1": {hit("https://a"), hit("https://b")},
		"q2": {hit("https://c")},
		"q3": {hit("https://d")},
	}}
	svc := New(p, 10, 2, zap.NewNop())

	hits := svc.Run(context.Background(), []string{"q1", "q2", "q3"})
	want := []string{"https://a", "https://b", "https://c", "https://d"}
	if len(hits) != len(want) {
		t.Fatalf("expected %d hits, got %d", len(want), len(hits))
	}
	for i, u := range want {
		if hits[i].URL != u {
			t.Errorf("hits[%d].URL = %q, want %q (order must follow query order)", i, hits[i].URL, u)
		}
	}
}

func TestRun_ProviderErrorCountsAsEmpty(t *testing.T) {
	p := &mockProvider{
		results: map[string][]domain.SearchHit{"ok": {hit("https://a")}},
		errs:    map[string]error{"bad": errors.New("throttled")},
	}
	svc := New(p, 10, 2, zap.NewNop())

	hits := svc.Run(context.Background(), []string{"bad", "ok"})
	if len(hits) != 1 || hits[0].URL != "https://a" {
		t.Fatalf("expected the failing query to be skipped, got %v", hits)
	}
}

func TestRun_AllEmptyIsNormal(t *testing.T) {
	p := &mockProvider{}
	svc := New(p, 10, 2, zap.NewNop())

	hits := svc.Run(context.Background(), []string{"q1", "q2"})
	if len(hits) != 0 {
		t.Fatalf("expected empty result, got %v", hits)
	}
}

func TestRun_PassesPerQueryCount(t *testing.T) {
	p := &mockProvider{}
	svc := New(p, 7, 1, zap.NewNop())

	svc.Run(context.Background(), []string{"q"})
	if len(p.counts) != 1 || p.counts[0] != 7 {
		t.Errorf("expected per-query count 7, got %v", p.counts)
	}
}

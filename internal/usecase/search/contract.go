package search

import (
	"context"

	"github.com/shopscout-ai/shopscout/internal/domain"
)

// Provider executes a single web-search query.
type Provider interface {
	Search(ctx context.Context, query string, count int) ([]domain.SearchHit, error)
}

package rank

import (
	"context"

	"github.com/shopscout-ai/shopscout/internal/domain"
)

// Ranker filters and orders extracted products by fit to the requirement.
// The result is sorted non-increasing by relevance score; ties keep input
// order.
type Ranker interface {
	Rank(ctx context.Context, products []domain.Product, req domain.Requirement) []domain.RankedProduct
}

// Completer generates text completions for assisted scoring.
type Completer interface {
	Complete(ctx context.Context, req domain.CompletionRequest) (string, error)
}

package query

import (
	"context"

	"github.com/shopscout-ai/shopscout/internal/domain"
)

// Completer generates text completions for query expansion.
type Completer interface {
	Complete(ctx context.Context, req domain.CompletionRequest) (string, error)
}

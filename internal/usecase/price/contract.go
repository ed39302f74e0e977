package price

import (
	"context"

	"github.com/shopscout-ai/shopscout/internal/domain"
)

// Completer generates text completions for price estimation.
type Completer interface {
	Complete(ctx context.Context, req domain.CompletionRequest) (string, error)
}

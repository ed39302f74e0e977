package extract

import (
	"context"

	"github.com/shopscout-ai/shopscout/internal/domain"
)

// Extractor turns a raw search hit into a normalized product record.
// ok=false means the hit carries no usable product and is dropped.
// Rule-based and assisted implementations honor the same output shape so
// downstream stages stay strategy-agnostic.
type Extractor interface {
	Extract(ctx context.Context, hit domain.SearchHit) (domain.Product, bool)
}

// Completer generates text completions for assisted extraction.
type Completer interface {
	Complete(ctx context.Context, req domain.CompletionRequest) (string, error)
}

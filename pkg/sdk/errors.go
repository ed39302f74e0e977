package shopscout

import "github.com/shopscout-ai/shopscout/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrSearchProviderError     = domain.ErrSearchProviderError
	ErrCompletionProviderError = domain.ErrCompletionProviderError
)

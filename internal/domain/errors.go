package domain

import "errors"

var (
	// ErrSearchProviderError signals a web-search provider failure.
	ErrSearchProviderError = errors.New("search provider error")
	// ErrCompletionProviderError signals a text-generation provider failure.
	ErrCompletionProviderError = errors.New("completion provider error")
)

package domain

import "context"

// SearchHit is a raw web-search result as returned by the search provider.
// Hits are ephemeral: they are not retained past extraction.
type SearchHit struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Source      string `json:"source"`
}

// Searcher is the web-search capability contract.
// Implementations handle their own pacing and retries; zero matches is an
// empty slice, not an error.
type Searcher interface {
	Search(ctx context.Context, query string, count int) ([]SearchHit, error)
}

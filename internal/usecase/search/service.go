// Package search fans a query set out to the web-search provider and
// concatenates the raw hits in query order.
package search

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/shopscout-ai/shopscout/internal/domain"
)

// Service aggregates search results across a set of queries.
type Service struct {
	provider    Provider
	perQuery    int
	concurrency int
	logger      *zap.Logger
}

// New creates a search aggregation service. perQuery is the result count
// requested per query; concurrency bounds parallel provider calls.
func New(provider Provider, perQuery, concurrency int, logger *zap.Logger) *Service {
	if perQuery <= 0 {
		perQuery = 10
	}
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Service{
		provider:    provider,
		perQuery:    perQuery,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Run executes every query against the provider and returns the hits
// concatenated in query order. Duplicates are permitted here; deduplication
// happens downstream. A provider failure for one query counts as zero hits
// for that query — an all-empty outcome is a normal result, not an error.
func (s *Service) Run(ctx context.Context, queries []string) []domain.SearchHit {
	perQuery := make([][]domain.SearchHit, len(queries))

	var g errgroup.Group
	sem := make(chan struct{}, s.concurrency)

	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()

			hits, err := s.provider.Search(ctx, q, s.perQuery)
			if err != nil {
				s.logger.Warn("search query failed",
					zap.String("query", q),
					zap.Error(err),
				)
				return nil
			}
			perQuery[i] = hits
			return nil
		})
	}
	_ = g.Wait()

	var all []domain.SearchHit
	for _, hits := range perQuery {
		all = append(all, hits...)
	}
	return all
}

// Package discover sequences the product discovery pipeline:
// query generation, search aggregation, extraction, ranking, and price
// estimation, truncated to the top result set.
package discover

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/shopscout-ai/shopscout/internal/domain"
)

// DefaultTopN is the size of the final result set.
const DefaultTopN = 5

// Service is the pipeline orchestrator and the subsystem's only entry point.
type Service struct {
	queries     QueryGenerator
	search      Aggregator
	extractor   Extractor
	ranker      Ranker
	prices      PriceEstimator
	topN        int
	concurrency int
	logger      *zap.Logger
}

// New creates the discovery pipeline. topN <= 0 selects the default;
// concurrency bounds parallel extraction calls.
func New(
	queries QueryGenerator,
	search Aggregator,
	extractor Extractor,
	ranker Ranker,
	prices PriceEstimator,
	topN, concurrency int,
	logger *zap.Logger,
) *Service {
	if topN <= 0 {
		topN = DefaultTopN
	}
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Service{
		queries:     queries,
		search:      search,
		extractor:   extractor,
		ranker:      ranker,
		prices:      prices,
		topN:        topN,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Discover runs the full pipeline for a requirement. An empty result is a
// valid terminal state: it means no listing survived search and filtering,
// not that the pipeline failed. The only error returned is context
// cancellation, in which case the partial result is discarded.
func (s *Service) Discover(ctx context.Context, req domain.Requirement) ([]domain.RankedProduct, error) {
	queries := s.queries.Generate(ctx, req)
	s.logger.Info("generated search queries",
		zap.String("product_type", req.ProductType),
		zap.Int("count", len(queries)),
	)

	hits := s.search.Run(ctx, queries)
	if len(hits) == 0 {
		s.logger.Info("search returned no hits", zap.String("product_type", req.ProductType))
		return []domain.RankedProduct{}, ctx.Err()
	}

	products := s.extractAll(ctx, hits)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ranked := s.ranker.Rank(ctx, products, req)
	if len(ranked) == 0 {
		s.logger.Info("no products passed filtering",
			zap.String("product_type", req.ProductType),
			zap.Int("extracted", len(products)),
		)
		return []domain.RankedProduct{}, ctx.Err()
	}

	ranked = s.prices.Estimate(ctx, ranked, req)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(ranked) > s.topN {
		ranked = ranked[:s.topN]
	}

	s.logger.Info("discovery finished",
		zap.String("product_type", req.ProductType),
		zap.Int("hits", len(hits)),
		zap.Int("extracted", len(products)),
		zap.Int("returned", len(ranked)),
	)
	return ranked, nil
}

// extractAll deduplicates hits by URL (first occurrence wins, before any
// extraction is attempted) and extracts the survivors concurrently,
// preserving hit order.
func (s *Service) extractAll(ctx context.Context, hits []domain.SearchHit) []domain.Product {
	seen := make(map[string]struct{}, len(hits))
	unique := hits[:0:0]
	for _, hit := range hits {
		if _, dup := seen[hit.URL]; dup {
			continue
		}
		seen[hit.URL] = struct{}{}
		unique = append(unique, hit)
	}

	extracted := make([]*domain.Product, len(unique))

	var g errgroup.Group
	sem := make(chan struct{}, s.concurrency)
	for i, hit := range unique {
		i, hit := i, hit
		g.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()

			if p, ok := s.extractor.Extract(ctx, hit); ok {
				extracted[i] = &p
			}
			return nil
		})
	}
	_ = g.Wait()

	products := make([]domain.Product, 0, len(unique))
	for _, p := range extracted {
		if p != nil {
			products = append(products, *p)
		}
	}
	return products
}

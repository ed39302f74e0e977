package discover

import (
	"context"

	"github.com/shopscout-ai/shopscout/internal/domain"
)

// QueryGenerator builds the search query set for a requirement.
type QueryGenerator interface {
	Generate(ctx context.Context, req domain.Requirement) []string
}

// Aggregator fans the queries out to the web-search capability.
type Aggregator interface {
	Run(ctx context.Context, queries []string) []domain.SearchHit
}

// Extractor turns a raw hit into a product record; ok=false drops the hit.
type Extractor interface {
	Extract(ctx context.Context, hit domain.SearchHit) (domain.Product, bool)
}

// Ranker filters and orders extracted products.
type Ranker interface {
	Rank(ctx context.Context, products []domain.Product, req domain.Requirement) []domain.RankedProduct
}

// PriceEstimator fills unknown prices in the ranked set.
type PriceEstimator interface {
	Estimate(ctx context.Context, products []domain.RankedProduct, req domain.Requirement) []domain.RankedProduct
}

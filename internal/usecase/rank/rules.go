// Package rank filters and orders extracted products, either through the
// deterministic classification heuristics or assisted by a text-generation
// scorer with a wholesale rule-based fallback.
package rank

import (
	"context"
	"sort"

	"github.com/shopscout-ai/shopscout/internal/domain"
	"github.com/shopscout-ai/shopscout/internal/domain/classify"
)

// DefaultMinScore is the retention threshold for rule-based ranking.
const DefaultMinScore = 0.3

// RuleRanker ranks products with the deterministic classification rules.
type RuleRanker struct {
	minScore float64
}

// NewRuleRanker creates a rule-based ranker. minScore <= 0 selects the default.
func NewRuleRanker(minScore float64) *RuleRanker {
	if minScore <= 0 {
		minScore = DefaultMinScore
	}
	return &RuleRanker{minScore: minScore}
}

// Rank classifies every product, drops the ones failing the retention
// criteria, and returns the rest sorted by score.
func (r *RuleRanker) Rank(_ context.Context, products []domain.Product, req domain.Requirement) []domain.RankedProduct {
	ranked := make([]domain.RankedProduct, 0, len(products))
	for _, p := range products {
		ev := classify.Evaluate(p, req)
		if !ev.Keep(r.minScore) {
			continue
		}
		ranked = append(ranked, domain.RankedProduct{
			Product:           p,
			RelevanceScore:    ev.Score,
			RankingReason:     ev.Reason(),
			IsSpecificProduct: ev.IsSpecificProduct,
			ProductRelevance:  ev.ProductRelevance,
			PriceMatch:        ev.PriceMatch,
			QualityTier:       ev.Tier,
		})
	}
	sortByScore(ranked)
	return ranked
}

// sortByScore orders descending by relevance score; the stable sort keeps
// input order for ties.
func sortByScore(ranked []domain.RankedProduct) {
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RelevanceScore > ranked[j].RelevanceScore
	})
}

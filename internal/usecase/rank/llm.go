package rank

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/shopscout-ai/shopscout/internal/domain"
)

const scoreSystemPrompt = `You are an expert product evaluator. Return only a relevance score between 0.0 and 1.0.`

// minAssistedScore is the retention floor for assisted scores.
const minAssistedScore = 0.01

// LLMRanker scores each product with a text-generation call. A provider
// failure anywhere aborts the assisted pass and reruns the rule-based
// ranker on the full input; partial assisted results are never merged.
type LLMRanker struct {
	completer Completer
	fallback  Ranker
	batchSize int
	logger    *zap.Logger
}

// NewLLMRanker creates an assisted ranker. batchSize bounds in-flight
// scoring requests; it has no effect on the result.
func NewLLMRanker(completer Completer, fallback Ranker, batchSize int, logger *zap.Logger) *LLMRanker {
	if batchSize <= 0 {
		batchSize = 5
	}
	return &LLMRanker{
		completer: completer,
		fallback:  fallback,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Rank scores every product in batches. Unparseable or out-of-range scores
// drop the product; a provider error falls back wholesale.
func (r *LLMRanker) Rank(ctx context.Context, products []domain.Product, req domain.Requirement) []domain.RankedProduct {
	if len(products) == 0 {
		return []domain.RankedProduct{}
	}

	scored, err := r.scoreAll(ctx, products, req)
	if err != nil {
		r.logger.Warn("assisted scoring failed, falling back to rule-based ranking", zap.Error(err))
		return r.fallback.Rank(ctx, products, req)
	}

	ranked := make([]domain.RankedProduct, 0, len(scored))
	for _, rp := range scored {
		if rp == nil || rp.RelevanceScore < minAssistedScore {
			continue
		}
		ranked = append(ranked, *rp)
	}
	sortByScore(ranked)
	return ranked
}

// scoreAll processes products in fixed-size batches, scoring the members of
// each batch concurrently. The returned slice is index-aligned with the
// input; nil entries are dropped products.
func (r *LLMRanker) scoreAll(ctx context.Context, products []domain.Product, req domain.Requirement) ([]*domain.RankedProduct, error) {
	scored := make([]*domain.RankedProduct, len(products))

	for start := 0; start < len(products); start += r.batchSize {
		end := start + r.batchSize
		if end > len(products) {
			end = len(products)
		}

		var g errgroup.Group
		for i := start; i < end; i++ {
			i := i
			g.Go(func() error {
				rp, err := r.scoreOne(ctx, products[i], req)
				if err != nil {
					return err
				}
				scored[i] = rp
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}
	return scored, nil
}

// scoreOne returns nil (drop) when the response is not a number in [0, 1].
func (r *LLMRanker) scoreOne(ctx context.Context, p domain.Product, req domain.Requirement) (*domain.RankedProduct, error) {
	resp, err := r.completer.Complete(ctx, domain.CompletionRequest{
		Prompt:       buildScorePrompt(p, req),
		SystemPrompt: scoreSystemPrompt,
	})
	if err != nil {
		return nil, fmt.Errorf("score %q: %w", p.URL, err)
	}

	score, err := strconv.ParseFloat(strings.TrimSpace(resp), 64)
	if err != nil || score < 0 || score > 1 {
		r.logger.Debug("invalid relevance score, dropping product",
			zap.String("url", p.URL),
			zap.String("response", resp),
		)
		return nil, nil
	}

	return &domain.RankedProduct{
		Product:        p,
		RelevanceScore: score,
		RankingReason:  fmt.Sprintf("assisted relevance score %.2f", score),
		QualityTier:    domain.TierForScore(score),
	}, nil
}

func buildScorePrompt(p domain.Product, req domain.Requirement) string {
	return fmt.Sprintf(`Evaluate this product based on the requirements and return only a relevance score (0.0 to 1.0).

Requirements:
- Product Type: %s
- Budget: %s
- Location: %s
- Special Requirements: %s

Product:
- Name: %s
- Price: %s
- URL: %s
- Description: %s

Evaluation Criteria:
1. Must be a specific product page (not category/list)
2. Must match product type and brand
3. Price should be within 20%% of budget
4. Location availability
5. Special requirements match

Return ONLY a number between 0.0 and 1.0 representing the relevance score.`,
		req.ProductType, req.Budget, req.Location, strings.Join(req.SpecialRequirements, ", "),
		p.Name, p.Price, p.URL, p.Description)
}

// Package price fills unknown prices in a ranked result set with assisted
// market estimates. The pass never removes items and never reorders them.
package price

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/shopscout-ai/shopscout/internal/domain"
	"github.com/shopscout-ai/shopscout/internal/domain/pattern"
)

const estimateSystemPrompt = `You are an expert in product pricing. Estimate the market price based on product specifications and current market rates.`

// Service estimates missing prices post-ranking.
type Service struct {
	completer   Completer
	concurrency int
	logger      *zap.Logger
}

// New creates a price estimation service. concurrency bounds parallel
// estimation calls.
func New(completer Completer, concurrency int, logger *zap.Logger) *Service {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Service{completer: completer, concurrency: concurrency, logger: logger}
}

// Estimate replaces every "Price not specified" entry with an assisted
// estimate, or with "Price not available" when estimation fails. Items with
// a known price pass through untouched.
func (s *Service) Estimate(ctx context.Context, products []domain.RankedProduct, req domain.Requirement) []domain.RankedProduct {
	var g errgroup.Group
	sem := make(chan struct{}, s.concurrency)

	for i := range products {
		if products[i].Price != domain.PriceNotSpecified {
			continue
		}
		i := i
		g.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()

			s.estimateOne(ctx, &products[i], req)
			return nil
		})
	}
	_ = g.Wait()

	return products
}

func (s *Service) estimateOne(ctx context.Context, p *domain.RankedProduct, req domain.Requirement) {
	resp, err := s.completer.Complete(ctx, domain.CompletionRequest{
		Prompt:       buildEstimatePrompt(p, req),
		SystemPrompt: estimateSystemPrompt,
	})
	if err != nil {
		s.logger.Debug("price estimation failed", zap.String("url", p.URL), zap.Error(err))
		p.Price = domain.PriceNotAvailable
		return
	}

	amount, ok := pattern.Amount(resp)
	if !ok {
		s.logger.Debug("price estimation returned no amount",
			zap.String("url", p.URL),
			zap.String("response", resp),
		)
		p.Price = domain.PriceNotAvailable
		return
	}

	p.Price = amount
	p.IsEstimatedPrice = true
}

func buildEstimatePrompt(p *domain.RankedProduct, req domain.Requirement) string {
	specs, err := json.Marshal(p.KeySpecs)
	if err != nil {
		specs = []byte("{}")
	}

	var b strings.Builder
	b.WriteString("Estimate the price for this product based on its specifications and market knowledge.\n\n")
	fmt.Fprintf(&b, "Product:\n- Name: %s\n- Description: %s\n- Key Specs: %s\n\n", p.Name, p.Description, specs)
	fmt.Fprintf(&b, "Requirements:\n- Product Type: %s\n- Budget: %s\n- Location: %s\n\n", req.ProductType, req.Budget, req.Location)
	b.WriteString(`Return ONLY the estimated price (e.g., "$999.99").`)
	return b.String()
}

package query

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/shopscout-ai/shopscout/internal/domain"
)

// DefaultFallbackSites is the marketplace site list for the deterministic
// fallback query when no list is configured.
var DefaultFallbackSites = []string{"ebay.com.au", "amazon.com.au", "gumtree.com.au"}

const systemPrompt = `You are an expert in generating precise e-commerce search queries.
Your goal is to create queries that will find specific products for purchase.`

// Service generates a diverse set of search queries for a requirement.
type Service struct {
	completer  Completer
	queryCount int
	sites      []string
	logger     *zap.Logger
}

// New creates a query generation service. queryCount is the number of
// assisted queries to request; fallbackSites may be nil for the default set.
func New(completer Completer, queryCount int, fallbackSites []string, logger *zap.Logger) *Service {
	if queryCount <= 0 {
		queryCount = 5
	}
	if len(fallbackSites) == 0 {
		fallbackSites = DefaultFallbackSites
	}
	return &Service{
		completer:  completer,
		queryCount: queryCount,
		sites:      fallbackSites,
		logger:     logger,
	}
}

// Generate produces an ordered, non-empty set of search queries.
// It never fails: any provider or parse failure silently substitutes the
// deterministic fallback query.
func (s *Service) Generate(ctx context.Context, req domain.Requirement) []string {
	resp, err := s.completer.Complete(ctx, domain.CompletionRequest{
		Prompt:       s.buildPrompt(req),
		SystemPrompt: systemPrompt,
		JSONObject:   true,
	})
	if err != nil {
		s.logger.Warn("query generation failed, using fallback query", zap.Error(err))
		return s.fallback(req)
	}

	var parsed struct {
		Queries []string `json:"queries"`
	}
	if err := json.Unmarshal([]byte(resp), &parsed); err != nil {
		s.logger.Warn("query generation returned malformed JSON, using fallback query", zap.Error(err))
		return s.fallback(req)
	}

	queries := make([]string, 0, len(parsed.Queries))
	for _, q := range parsed.Queries {
		if strings.TrimSpace(q) != "" {
			queries = append(queries, q)
		}
	}
	if len(queries) == 0 {
		return s.fallback(req)
	}
	return queries
}

// fallback builds the deterministic query: product type restricted to the
// configured marketplace sites.
func (s *Service) fallback(req domain.Requirement) []string {
	filters := make([]string, len(s.sites))
	for i, site := range s.sites {
		filters[i] = "site:" + site
	}
	productType := strings.ToLower(req.ProductType)
	return []string{productType + " " + strings.Join(filters, " OR ")}
}

func (s *Service) buildPrompt(req domain.Requirement) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d precise search queries for finding products on e-commerce websites.\n\n", s.queryCount)
	fmt.Fprintf(&b, "Requirements:\n")
	fmt.Fprintf(&b, "- Product Type: %s\n", strings.ToLower(req.ProductType))
	fmt.Fprintf(&b, "- Budget: %s\n", req.Budget)
	fmt.Fprintf(&b, "- Location: %s\n", req.Location)
	fmt.Fprintf(&b, "- Special Requirements: %s\n", strings.Join(req.SpecialRequirements, ", "))
	if req.Brand != "" {
		fmt.Fprintf(&b, "- Brand: %s\n", req.Brand)
	}
	b.WriteString(`
Guidelines:
1. Include specific product names, models, and brands
2. Use the site: operator to target specific marketplaces
3. Include the price range when a budget is specified
4. Add location-specific terms
5. Include special requirement keywords
6. Focus on finding actual product listings
7. Always use accurate and official marketplace domains
8. Tailor the marketplace domains to what is commonly used for the given product type

Return a JSON object with the following structure:
{"queries": ["query 1", "query 2", ...]}
`)
	return b.String()
}

package query

import (
	"context"
	"strings"

	"github.com/shopscout-ai/shopscout/internal/domain"
)

// RuleService generates search queries from deterministic templates,
// without calling a completion provider.
type RuleService struct {
	queryCount int
	sites      []string
}

// NewRules creates a template-based query generation service.
func NewRules(queryCount int, fallbackSites []string) *RuleService {
	if queryCount <= 0 {
		queryCount = 5
	}
	if len(fallbackSites) == 0 {
		fallbackSites = DefaultFallbackSites
	}
	return &RuleService{queryCount: queryCount, sites: fallbackSites}
}

// Generate produces an ordered, non-empty set of search queries. The
// marketplace-restricted query always comes first; the rest depend on which
// requirement fields are set.
func (s *RuleService) Generate(_ context.Context, req domain.Requirement) []string {
	productType := strings.ToLower(req.ProductType)

	filters := make([]string, len(s.sites))
	for i, site := range s.sites {
		filters[i] = "site:" + site
	}

	queries := []string{productType + " " + strings.Join(filters, " OR ")}
	if req.Brand != "" {
		queries = append(queries, strings.ToLower(req.Brand)+" "+productType+" buy online")
	}
	if req.Budget != "" {
		queries = append(queries, productType+" under "+req.Budget)
	}
	if req.Location != "" {
		queries = append(queries, "buy "+productType+" "+strings.ToLower(req.Location))
	}
	if len(req.SpecialRequirements) > 0 {
		queries = append(queries, productType+" "+strings.ToLower(strings.Join(req.SpecialRequirements, " ")))
	}

	if len(queries) > s.queryCount {
		queries = queries[:s.queryCount]
	}
	return queries
}

// Package classify holds the rule-based page classification and relevance
// scoring heuristics. Pure functions: no external calls, no shared state.
package classify

import (
	"regexp"
	"strings"

	"github.com/shopscout-ai/shopscout/internal/domain"
	"github.com/shopscout-ai/shopscout/internal/domain/pattern"
)

// Criterion weights. They sum to 1.0, so the score stays in [0, 1].
const (
	weightSpecificProduct = 0.3
	weightRelevance       = 0.3
	weightPriceMatch      = 0.2
	weightLocation        = 0.1
	weightRequirements    = 0.1
)

// priceTolerance is the allowed relative deviation from the budget.
const priceTolerance = 0.2

// productIndicators suggest a URL or name points at one concrete listing.
var productIndicators = []string{
	"product", "item", "sku", "id", "p-", "prod-", "model-", "variant-",
	"model", "variant", "version", "edition", "series", "generation",
}

// categoryIndicators suggest a category/listing page rather than a product.
var categoryIndicators = []string{
	"category", "collection", "list", "search", "results", "shop", "store", "browse",
	"all-", "products-", "items-", "laptops", "computers", "phones", "tablets",
}

// modelNumberRe spots model-number-looking tokens: 4+ uppercase alphanumerics.
var modelNumberRe = regexp.MustCompile(`[A-Z0-9]{4,}`)

// Evaluation is the outcome of classifying one product against a requirement.
type Evaluation struct {
	IsSpecificProduct bool
	ProductRelevance  bool
	PriceMatch        bool
	LocationMatch     bool
	RequirementsMatch bool

	Score float64
	Tier  domain.QualityTier
}

// Evaluate classifies a product against the requirement and computes its
// weighted relevance score.
func Evaluate(p domain.Product, req domain.Requirement) Evaluation {
	url := strings.ToLower(p.URL)
	name := strings.ToLower(p.Name)
	description := strings.ToLower(p.Description)

	ev := Evaluation{
		IsSpecificProduct: isSpecificProduct(p.Name, url, name, description),
		ProductRelevance:  isRelevant(req, name, description),
		PriceMatch:        priceMatches(p, req.Budget),
		LocationMatch:     locationMatches(req.Location, description),
		RequirementsMatch: requirementsMatch(req.SpecialRequirements, name, description),
	}

	if ev.IsSpecificProduct {
		ev.Score += weightSpecificProduct
	}
	if ev.ProductRelevance {
		ev.Score += weightRelevance
	}
	if ev.PriceMatch {
		ev.Score += weightPriceMatch
	}
	if ev.LocationMatch {
		ev.Score += weightLocation
	}
	if ev.RequirementsMatch {
		ev.Score += weightRequirements
	}
	ev.Tier = domain.TierForScore(ev.Score)

	return ev
}

// Keep reports whether the product survives the filter stage: it must be a
// relevant specific-product page scoring at least minScore.
func (e Evaluation) Keep(minScore float64) bool {
	return e.IsSpecificProduct && e.ProductRelevance && e.Score >= minScore
}

// Reason builds the human-readable ranking reason from the passed criteria.
func (e Evaluation) Reason() string {
	var reasons []string
	if e.IsSpecificProduct {
		reasons = append(reasons, "specific product page")
	}
	if e.ProductRelevance {
		reasons = append(reasons, "matches product requirements")
	}
	if e.PriceMatch {
		reasons = append(reasons, "price within budget range")
	}
	if e.LocationMatch {
		reasons = append(reasons, "available in specified location")
	}
	if e.RequirementsMatch {
		reasons = append(reasons, "meets special requirements")
	}
	reasons = append(reasons, "overall quality: "+string(e.Tier))
	return strings.Join(reasons, ", ")
}

// isSpecificProduct decides whether the record points at one concrete
// listing. A category indicator anywhere vetoes; otherwise at least one
// product-identifier signal must be present.
func isSpecificProduct(rawName, url, name, description string) bool {
	for _, ind := range categoryIndicators {
		if strings.Contains(url, ind) || strings.Contains(name, ind) || strings.Contains(description, ind) {
			return false
		}
	}

	hasProductID := false
	for _, ind := range productIndicators {
		if strings.Contains(url, ind) || strings.Contains(name, ind) {
			hasProductID = true
			break
		}
	}
	hasModelNumber := modelNumberRe.MatchString(rawName)
	hasSpecificDetails := len(strings.Fields(name)) >= 4 && strings.ContainsAny(name, "0123456789")

	return hasProductID || hasModelNumber || hasSpecificDetails
}

func isRelevant(req domain.Requirement, name, description string) bool {
	productType := strings.ToLower(req.ProductType)
	brand := strings.ToLower(req.Brand)

	typeMatch := strings.Contains(name, productType) || strings.Contains(description, productType)
	brandMatch := brand == "" || strings.Contains(name, brand) || strings.Contains(description, brand)

	return typeMatch && brandMatch
}

// priceMatches checks the product price against the budget with a
// priceTolerance relative deviation. Non-parsable sides never match.
func priceMatches(p domain.Product, budget string) bool {
	if budget == "" || !p.HasPrice() {
		return false
	}
	price, ok := pattern.Numeric(p.Price)
	if !ok {
		return false
	}
	budgetValue, ok := pattern.Numeric(budget)
	if !ok || budgetValue == 0 {
		return false
	}
	deviation := price - budgetValue
	if deviation < 0 {
		deviation = -deviation
	}
	return deviation/budgetValue <= priceTolerance
}

// locationMatches checks the description only; listing names rarely carry
// location and produced false positives when included.
func locationMatches(location, description string) bool {
	loc := strings.ToLower(location)
	return loc == "" || strings.Contains(description, loc)
}

func requirementsMatch(reqs []string, name, description string) bool {
	for _, r := range reqs {
		keyword := strings.ToLower(r)
		if !strings.Contains(name, keyword) && !strings.Contains(description, keyword) {
			return false
		}
	}
	return true
}

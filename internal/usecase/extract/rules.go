// Package extract turns raw search hits into normalized product records,
// either deterministically via text patterns or assisted by a
// text-generation call.
package extract

import (
	"context"
	"net/url"

	"github.com/shopscout-ai/shopscout/internal/domain"
	"github.com/shopscout-ai/shopscout/internal/domain/pattern"
)

// RuleExtractor extracts product fields with deterministic text patterns.
type RuleExtractor struct{}

// NewRuleExtractor creates a deterministic extractor.
func NewRuleExtractor() *RuleExtractor {
	return &RuleExtractor{}
}

// Extract builds a product record from the hit's title and description.
// Price is searched across description and title; specs and delivery time
// come from the description only.
func (e *RuleExtractor) Extract(_ context.Context, hit domain.SearchHit) (domain.Product, bool) {
	if !usable(hit) {
		return domain.Product{}, false
	}

	price, ok := pattern.Price(hit.Description + " " + hit.Title)
	if !ok {
		price = domain.PriceNotSpecified
	}
	delivery, ok := pattern.DeliveryTime(hit.Description)
	if !ok {
		delivery = domain.DeliveryNotSpecified
	}

	return domain.Product{
		Name:         hit.Title,
		Price:        price,
		URL:          hit.URL,
		Source:       hit.Source,
		Description:  hit.Description,
		KeySpecs:     pattern.Specs(hit.Description),
		DeliveryTime: delivery,
	}, true
}

// usable enforces the record invariant: a non-empty name and a
// syntactically valid absolute URL.
func usable(hit domain.SearchHit) bool {
	if hit.Title == "" || hit.URL == "" {
		return false
	}
	u, err := url.Parse(hit.URL)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// sentinelRecord is the raw passthrough used when assisted extraction
// fails: hit fields carried over, extracted fields set to sentinels.
func sentinelRecord(hit domain.SearchHit) domain.Product {
	return domain.Product{
		Name:         hit.Title,
		Price:        domain.PriceNotSpecified,
		URL:          hit.URL,
		Source:       hit.Source,
		Description:  hit.Description,
		KeySpecs:     map[string]string{},
		DeliveryTime: domain.DeliveryNotSpecified,
	}
}

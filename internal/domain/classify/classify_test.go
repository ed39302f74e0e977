package classify

import (
	"math"
	"strings"
	"testing"

	"github.com/shopscout-ai/shopscout/internal/domain"
)

func laptopRequirement() domain.Requirement {
	return domain.Requirement{
		ProductType: "laptop",
		Budget:      "$100",
	}
}

func TestEvaluate_SpecificProductPage(t *testing.T) {
	p := domain.Product{
		Name:        "Dell XPS 13 9310 Laptop",
		URL:         "https://example.com.au/dell-xps-13-9310",
		Description: "A compact ultrabook",
	}
	ev := Evaluate(p, laptopRequirement())
	if !ev.IsSpecificProduct {
		t.Error("expected specific-product classification for a model-numbered name")
	}
}

func TestEvaluate_CategoryURLVetoes(t *testing.T) {
	p := domain.Product{
		Name:        "Dell XPS 13 9310 Laptop",
		URL:         "https://example.com.au/laptops-category",
		Description: "A compact ultrabook",
	}
	ev := Evaluate(p, laptopRequirement())
	if ev.IsSpecificProduct {
		t.Error("category URL must veto regardless of the name")
	}
}

func TestEvaluate_PriceTolerance(t *testing.T) {
	p := domain.Product{
		Name:        "Dell XPS 13 9310 Laptop",
		URL:         "https://example.com.au/dell-xps-13-9310",
		Description: "laptop",
		Price:       "$119.99",
	}

	// 19.99% deviation from $100 is within tolerance.
	ev := Evaluate(p, domain.Requirement{ProductType: "laptop", Budget: "$100"})
	if !ev.PriceMatch {
		t.Error("$119.99 against $100 budget should match (19.99% deviation)")
	}

	// 33% deviation from $90 is not.
	ev = Evaluate(p, domain.Requirement{ProductType: "laptop", Budget: "$90"})
	if ev.PriceMatch {
		t.Error("$119.99 against $90 budget should not match (33% deviation)")
	}
}

func TestEvaluate_SentinelPriceNeverMatches(t *testing.T) {
	p := domain.Product{
		Name:        "Dell XPS 13 9310 Laptop",
		URL:         "https://example.com.au/dell-xps-13-9310",
		Description: "laptop",
		Price:       domain.PriceNotSpecified,
	}
	if ev := Evaluate(p, laptopRequirement()); ev.PriceMatch {
		t.Error("sentinel price must not count as a price match")
	}
}

func TestEvaluate_ScoreBounds(t *testing.T) {
	p := domain.Product{
		Name:        "Dell XPS 13 9310 Laptop",
		URL:         "https://example.com.au/dell-xps-13-9310",
		Description: "Dell laptop in Sydney with backlit keyboard",
		Price:       "$100.00",
	}
	req := domain.Requirement{
		ProductType:         "laptop",
		Budget:              "$100",
		Location:            "Sydney",
		SpecialRequirements: []string{"backlit keyboard"},
		Brand:               "Dell",
	}
	ev := Evaluate(p, req)
	if math.Abs(ev.Score-1.0) > 1e-9 {
		t.Errorf("all criteria passing should score 1.0, got %v", ev.Score)
	}
	if ev.Tier != domain.TierHigh {
		t.Errorf("score 1.0 should be tier high, got %s", ev.Tier)
	}
}

func TestEvaluate_TierThresholds(t *testing.T) {
	tests := []struct {
		score float64
		want  domain.QualityTier
	}{
		{0.7, domain.TierHigh},
		{0.69, domain.TierMedium},
		{0.4, domain.TierMedium},
		{0.39, domain.TierLow},
		{0.0, domain.TierLow},
	}
	for _, tt := range tests {
		if got := domain.TierForScore(tt.score); got != tt.want {
			t.Errorf("TierForScore(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestEvaluate_BrandMismatchKillsRelevance(t *testing.T) {
	p := domain.Product{
		Name:        "HP Spectre x360 14 Laptop",
		URL:         "https://example.com.au/hp-spectre-x360",
		Description: "Premium laptop",
	}
	req := domain.Requirement{ProductType: "laptop", Brand: "Dell"}
	if ev := Evaluate(p, req); ev.ProductRelevance {
		t.Error("brand mismatch should fail product relevance")
	}
}

func TestEvaluate_SpecialRequirements(t *testing.T) {
	p := domain.Product{
		Name:        "Dell XPS 13 9310 Laptop",
		URL:         "https://example.com.au/dell-xps-13-9310",
		Description: "16GB RAM, backlit keyboard",
	}
	req := domain.Requirement{
		ProductType:         "laptop",
		SpecialRequirements: []string{"16GB RAM", "backlit keyboard"},
	}
	if ev := Evaluate(p, req); !ev.RequirementsMatch {
		t.Error("all requirement keywords are present, expected a match")
	}

	req.SpecialRequirements = append(req.SpecialRequirements, "thunderbolt")
	if ev := Evaluate(p, req); ev.RequirementsMatch {
		t.Error("a missing requirement keyword should fail the match")
	}
}

func TestReason_ListsPassedCriteriaAndTier(t *testing.T) {
	p := domain.Product{
		Name:        "Dell XPS 13 9310 Laptop",
		URL:         "https://example.com.au/dell-xps-13-9310",
		Description: "laptop",
	}
	ev := Evaluate(p, domain.Requirement{ProductType: "laptop"})
	reason := ev.Reason()

	if !strings.Contains(reason, "specific product page") {
		t.Errorf("reason missing passed criterion: %q", reason)
	}
	if !strings.Contains(reason, "overall quality: "+string(ev.Tier)) {
		t.Errorf("reason missing quality tier: %q", reason)
	}
	if strings.Contains(reason, "price within budget range") {
		t.Errorf("reason lists a criterion that did not pass: %q", reason)
	}
}

func TestKeep(t *testing.T) {
	good := Evaluation{IsSpecificProduct: true, ProductRelevance: true, Score: 0.6}
	if !good.Keep(0.3) {
		t.Error("passing evaluation should be kept")
	}
	lowScore := Evaluation{IsSpecificProduct: true, ProductRelevance: true, Score: 0.2}
	if lowScore.Keep(0.3) {
		t.Error("below-threshold evaluation should be dropped")
	}
	notSpecific := Evaluation{ProductRelevance: true, Score: 0.9}
	if notSpecific.Keep(0.3) {
		t.Error("non-specific pages are dropped regardless of score")
	}
}

package extract

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/shopscout-ai/shopscout/internal/domain"
)

type mockCompleter struct {
	resp string
	err  error
}

func (m *mockCompleter) Complete(_ context.Context, _ domain.CompletionRequest) (string, error) {
	return m.resp, m.err
}

func listingHit() domain.SearchHit {
	return domain.SearchHit{
		Title:       "Dell XPS 13 9310 Laptop",
		URL:         "https://example.com.au/dell-xps-13-9310",
		Description: "Price: $1,299.00\nBrand: Dell\nCondition: New\nFree shipping Australia-wide",
		Source:      "example.com.au",
	}
}

func TestRuleExtract_Fields(t *testing.T) {
	e := NewRuleExtractor()

	p, ok := e.Extract(context.Background(), listingHit())
	if !ok {
		t.Fatal("expected extraction to succeed")
	}
	if p.Name != "Dell XPS 13 9310 Laptop" {
		t.Errorf("name = %q", p.Name)
	}
	if p.Price != "$1,299.00" {
		t.Errorf("price = %q, want $1,299.00", p.Price)
	}
	if p.KeySpecs["brand"] != "Dell" || p.KeySpecs["condition"] != "New" {
		t.Errorf("key specs = %v", p.KeySpecs)
	}
	if p.DeliveryTime != "free shipping" {
		t.Errorf("delivery time = %q", p.DeliveryTime)
	}
}

func TestRuleExtract_PriceFromTitle(t *testing.T) {
	e := NewRuleExtractor()
	hit := domain.SearchHit{
		Title:       "Bargain laptop $499.99",
		URL:         "https://example.com/bargain",
		Description: "no currency marker here",
	}
	p, ok := e.Extract(context.Background(), hit)
	if !ok || p.Price != "$499.99" {
		t.Errorf("price = %q, want $499.99 (title is part of the price search text)", p.Price)
	}
}

func TestRuleExtract_Sentinels(t *testing.T) {
	e := NewRuleExtractor()
	hit := domain.SearchHit{
		Title:       "Some product",
		URL:         "https://example.com/p",
		Description: "no structured details at all",
	}
	p, ok := e.Extract(context.Background(), hit)
	if !ok {
		t.Fatal("expected extraction to succeed")
	}
	if p.Price != domain.PriceNotSpecified {
		t.Errorf("price = %q, want sentinel", p.Price)
	}
	if p.DeliveryTime != domain.DeliveryNotSpecified {
		t.Errorf("delivery time = %q, want sentinel", p.DeliveryTime)
	}
}

func TestExtract_DropsUnusableHits(t *testing.T) {
	rule := NewRuleExtractor()
	llm := NewLLMExtractor(&mockCompleter{resp: "{}"}, zap.NewNop())

	bad := []domain.SearchHit{
		{Title: "", URL: "https://example.com/p"},
		{Title: "name", URL: ""},
		{Title: "name", URL: "not a url"},
		{Title: "name", URL: "/relative/path"},
	}
	for _, hit := range bad {
		if _, ok := rule.Extract(context.Background(), hit); ok {
			t.Errorf("rule extractor kept unusable hit %+v", hit)
		}
		if _, ok := llm.Extract(context.Background(), hit); ok {
			t.Errorf("assisted extractor kept unusable hit %+v", hit)
		}
	}
}

func TestLLMExtract_ParsesRecord(t *testing.T) {
	c := &mockCompleter{resp: `{
		"name": "Dell XPS 13",
		"price": "$1,299.00",
		"url": "https://rewritten.example.com",
		"source": "example.com.au",
		"description": "ultrabook",
		"key_specs": {"brand": "Dell"},
		"delivery_time": "ships in 3-5 days"
	}`}
	e := NewLLMExtractor(c, zap.NewNop())

	p, ok := e.Extract(context.Background(), listingHit())
	if !ok {
		t.Fatal("expected extraction to succeed")
	}
	if p.Name != "Dell XPS 13" || p.Price != "$1,299.00" {
		t.Errorf("unexpected record: %+v", p)
	}
	if p.URL != listingHit().URL {
		t.Errorf("url = %q, the validated hit URL must win over a rewritten one", p.URL)
	}
}

func TestLLMExtract_ProviderError_SentinelPassthrough(t *testing.T) {
	c := &mockCompleter{err: errors.New("provider down")}
	e := NewLLMExtractor(c, zap.NewNop())

	hit := listingHit()
	p, ok := e.Extract(context.Background(), hit)
	if !ok {
		t.Fatal("assisted failure must not drop the hit")
	}
	if p.Name != hit.Title || p.URL != hit.URL || p.Description != hit.Description {
		t.Errorf("passthrough should carry raw hit fields: %+v", p)
	}
	if p.Price != domain.PriceNotSpecified || p.DeliveryTime != domain.DeliveryNotSpecified {
		t.Error("passthrough must use sentinels, not rule-based extraction")
	}
	if len(p.KeySpecs) != 0 {
		t.Errorf("passthrough specs should be empty, got %v", p.KeySpecs)
	}
}

func TestLLMExtract_MalformedJSON_SentinelPassthrough(t *testing.T) {
	c := &mockCompleter{resp: "Sure! The product is a laptop."}
	e := NewLLMExtractor(c, zap.NewNop())

	p, ok := e.Extract(context.Background(), listingHit())
	if !ok || p.Price != domain.PriceNotSpecified {
		t.Errorf("malformed JSON should yield the sentinel passthrough, got %+v", p)
	}
}

func TestLLMExtract_BackfillsMissingFields(t *testing.T) {
	c := &mockCompleter{resp: `{"name": "", "price": ""}`}
	e := NewLLMExtractor(c, zap.NewNop())

	hit := listingHit()
	p, _ := e.Extract(context.Background(), hit)
	if p.Name != hit.Title {
		t.Errorf("empty name should backfill from the hit title, got %q", p.Name)
	}
	if p.Price != domain.PriceNotSpecified {
		t.Errorf("empty price should become the sentinel, got %q", p.Price)
	}
	if p.KeySpecs == nil {
		t.Error("key specs must never be nil")
	}
}

package extract

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/shopscout-ai/shopscout/internal/domain"
)

const extractSystemPrompt = `You are an expert in extracting product information from e-commerce listings.
Your goal is to accurately identify and extract product details, prices, specifications, and delivery information.
Only return information that is clearly present in the input text.`

// LLMExtractor extracts product fields with a structured text-generation
// call per hit. On any parse or provider failure it degrades to a sentinel
// passthrough of the raw hit — never to a full rule-based extraction.
type LLMExtractor struct {
	completer Completer
	logger    *zap.Logger
}

// NewLLMExtractor creates an assisted extractor.
func NewLLMExtractor(completer Completer, logger *zap.Logger) *LLMExtractor {
	return &LLMExtractor{completer: completer, logger: logger}
}

// record mirrors the JSON shape requested from the model.
type record struct {
	Name         string            `json:"name"`
	Price        string            `json:"price"`
	URL          string            `json:"url"`
	Source       string            `json:"source"`
	Description  string            `json:"description"`
	KeySpecs     map[string]string `json:"key_specs"`
	DeliveryTime string            `json:"delivery_time"`
}

// Extract asks the model for the five extracted fields using the same
// sentinel conventions as the rule-based strategy.
func (e *LLMExtractor) Extract(ctx context.Context, hit domain.SearchHit) (domain.Product, bool) {
	if !usable(hit) {
		return domain.Product{}, false
	}

	resp, err := e.completer.Complete(ctx, domain.CompletionRequest{
		Prompt:       buildExtractPrompt(hit),
		SystemPrompt: extractSystemPrompt,
		JSONObject:   true,
	})
	if err != nil {
		e.logger.Debug("assisted extraction failed, using sentinel passthrough",
			zap.String("url", hit.URL), zap.Error(err))
		return sentinelRecord(hit), true
	}

	var rec record
	if err := json.Unmarshal([]byte(resp), &rec); err != nil {
		e.logger.Debug("assisted extraction returned malformed JSON, using sentinel passthrough",
			zap.String("url", hit.URL), zap.Error(err))
		return sentinelRecord(hit), true
	}

	return e.normalize(rec, hit), true
}

// normalize backfills missing fields from the hit so the output invariants
// hold regardless of what the model returned.
func (e *LLMExtractor) normalize(rec record, hit domain.SearchHit) domain.Product {
	if rec.Name == "" {
		rec.Name = hit.Title
	}
	if rec.Price == "" {
		rec.Price = domain.PriceNotSpecified
	}
	if rec.Source == "" {
		rec.Source = hit.Source
	}
	if rec.Description == "" {
		rec.Description = hit.Description
	}
	if rec.KeySpecs == nil {
		rec.KeySpecs = map[string]string{}
	}
	if rec.DeliveryTime == "" {
		rec.DeliveryTime = domain.DeliveryNotSpecified
	}
	return domain.Product{
		Name:         rec.Name,
		Price:        rec.Price,
		URL:          hit.URL, // the hit URL is already validated; never trust a rewritten one
		Source:       rec.Source,
		Description:  rec.Description,
		KeySpecs:     rec.KeySpecs,
		DeliveryTime: rec.DeliveryTime,
	}
}

func buildExtractPrompt(hit domain.SearchHit) string {
	return fmt.Sprintf(`Extract product information from the following search result.

Title: %s
URL: %s
Description: %s
Source: %s

Extract the following information:
1. Product name (if this is a product listing)
2. Price (if available)
3. Key specifications (if available)
4. Delivery time/options (if available)

Return a JSON object with the following structure:
{
  "name": "product name",
  "price": "price (e.g., $999.99)",
  "url": "product URL",
  "source": "source website",
  "description": "product description",
  "key_specs": {"spec1": "value1"},
  "delivery_time": "delivery time information"
}

If any information is not available, use these defaults:
- "%s" for a missing price
- an empty object {} for missing specifications
- "%s" for a missing delivery time`,
		hit.Title, hit.URL, hit.Description, hit.Source,
		domain.PriceNotSpecified, domain.DeliveryNotSpecified)
}

package shopscout

import "github.com/shopscout-ai/shopscout/internal/domain"

// Requirement is the structured procurement need driving a discovery run.
type Requirement struct {
	ProductType         string
	Budget              string // free-form currency string, may be empty
	Location            string
	SpecialRequirements []string
	Urgency             string
	Brand               string
}

// Product is a discovered product, annotated with its relevance score and
// the classification flags behind it.
type Product struct {
	Name         string
	Price        string
	URL          string
	Source       string
	Description  string
	KeySpecs     map[string]string
	DeliveryTime string

	RelevanceScore    float64
	RankingReason     string
	IsSpecificProduct bool
	ProductRelevance  bool
	PriceMatch        bool
	QualityTier       string // "high", "medium", "low"
	IsEstimatedPrice  bool
}

func toDomainRequirement(req Requirement) domain.Requirement {
	return domain.Requirement{
		ProductType:         req.ProductType,
		Budget:              req.Budget,
		Location:            req.Location,
		SpecialRequirements: req.SpecialRequirements,
		Urgency:             req.Urgency,
		Brand:               req.Brand,
	}
}

func fromDomainRanked(rp domain.RankedProduct) Product {
	specs := rp.KeySpecs
	if specs == nil {
		specs = map[string]string{}
	}
	return Product{
		Name:              rp.Name,
		Price:             rp.Price,
		URL:               rp.URL,
		Source:            rp.Source,
		Description:       rp.Description,
		KeySpecs:          specs,
		DeliveryTime:      rp.DeliveryTime,
		RelevanceScore:    rp.RelevanceScore,
		RankingReason:     rp.RankingReason,
		IsSpecificProduct: rp.IsSpecificProduct,
		ProductRelevance:  rp.ProductRelevance,
		PriceMatch:        rp.PriceMatch,
		QualityTier:       string(rp.QualityTier),
		IsEstimatedPrice:  rp.IsEstimatedPrice,
	}
}

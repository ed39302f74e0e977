package domain

// QualityTier is the coarse quality bucket derived from the relevance score.
type QualityTier string

const (
	// TierHigh marks scores >= 0.7.
	TierHigh QualityTier = "high"
	// TierMedium marks scores in [0.4, 0.7).
	TierMedium QualityTier = "medium"
	// TierLow marks scores below 0.4.
	TierLow QualityTier = "low"
)

// TierForScore maps a relevance score onto a quality tier.
// QualityTier must always be a pure function of the score.
func TierForScore(score float64) QualityTier {
	switch {
	case score >= 0.7:
		return TierHigh
	case score >= 0.4:
		return TierMedium
	default:
		return TierLow
	}
}

// RankedProduct is a Product that passed the filter stage, annotated with
// its relevance score and the classification flags behind it. After ranking
// only the price estimator mutates it (Price + IsEstimatedPrice).
type RankedProduct struct {
	Product

	RelevanceScore    float64
	RankingReason     string
	IsSpecificProduct bool
	ProductRelevance  bool
	PriceMatch        bool
	QualityTier       QualityTier
	IsEstimatedPrice  bool
}

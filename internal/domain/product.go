package domain

// Sentinel field values standing in for "not determined".
const (
	PriceNotSpecified    = "Price not specified"
	PriceNotAvailable    = "Price not available"
	DeliveryNotSpecified = "Delivery time not specified"
)

// SpecKeys is the fixed vocabulary for Product.KeySpecs.
var SpecKeys = []string{
	"brand", "model", "color", "size",
	"weight", "dimensions", "warranty", "condition",
}

// Product is a normalized product record extracted from a search hit.
// Invariant: URL is non-empty and syntactically a URL, Name is never empty —
// hits that cannot satisfy this are dropped before a Product is built.
type Product struct {
	Name         string
	Price        string // "$<amount>" or a price sentinel
	URL          string
	Source       string
	Description  string
	KeySpecs     map[string]string
	DeliveryTime string
}

// HasPrice reports whether the price field carries a real amount
// rather than one of the sentinels.
func (p Product) HasPrice() bool {
	return p.Price != "" && p.Price != PriceNotSpecified && p.Price != PriceNotAvailable
}

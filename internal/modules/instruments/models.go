// Package instruments holds the instrument catalogs and the selector that
// converts a category allocation into concrete whole-unit purchases.
package instruments

import "github.com/aristath/advisor/internal/modules/allocation"

// Candidate is a static catalog entry. Catalog data is immutable during a
// request.
type Candidate struct {
	Name     string              `json:"name"`
	Symbol   string              `json:"symbol"`
	Sector   string              `json:"sector,omitempty"`
	Risk     string              `json:"risk,omitempty"`
	Tag      string              `json:"tag,omitempty"` // e.g. "Largecap", "Hybrid", "Index"
	Category allocation.Category `json:"-"`
}

// PricedRecommendation is a concrete whole-unit purchase in the response.
type PricedRecommendation struct {
	Name     string  `json:"name"`
	Symbol   string  `json:"symbol"`
	Sector   string  `json:"sector,omitempty"`
	Tag      string  `json:"tag,omitempty"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Amount   float64 `json:"amount"`
}

// PriceOutcome is the explicit result of one price lookup. Feed failures are
// data, not control flow: an unavailable price leaves its budget unspent
// instead of aborting the request.
type PriceOutcome struct {
	Symbol string
	Price  float64
	OK     bool
}

// Selection is the per-category selector output.
type Selection struct {
	Recommendations []PricedRecommendation
	Invested        float64
	Leftover        float64
	Unavailable     []string // symbols whose price lookup failed
}

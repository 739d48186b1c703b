package catalog

import (
	"math"

	"storefront/internal/domain"
)

const (
	rangeStep       = 100
	defaultRangeMax = 10000
)

// PriceRange is the fixed slider span derived for a navigation scope
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// DefaultPriceRange is used when a scope has no priced products
var DefaultPriceRange = PriceRange{Min: 0, Max: defaultRangeMax}

// DeriveRange computes the slider bounds from the unfiltered products,
// widened to whole hundreds. NaN prices are ignored.
func DeriveRange(products []domain.ProductSummary) PriceRange {
	lo, hi := math.Inf(1), math.Inf(-1)
	seen := false
	for _, p := range products {
		if math.IsNaN(p.Price) {
			continue
		}
		seen = true
		lo = math.Min(lo, p.Price)
		hi = math.Max(hi, p.Price)
	}
	if !seen {
		return DefaultPriceRange
	}

	rawMin := math.Floor(lo)
	rawMax := math.Ceil(hi)
	return PriceRange{
		Min: math.Max(0, math.Floor(rawMin/rangeStep)*rangeStep),
		Max: math.Ceil(rawMax/rangeStep) * rangeStep,
	}
}

package catalog

import (
	"math"
	"slices"

	"storefront/internal/domain"
)

// Sort returns a new slice ordered by listed price. Equal prices keep their
// input order and NaN prices go last in both directions.
func Sort(products []domain.ProductSummary, order SortOrder) []domain.ProductSummary {
	sorted := slices.Clone(products)
	if sorted == nil {
		sorted = []domain.ProductSummary{}
	}

	slices.SortStableFunc(sorted, func(a, b domain.ProductSummary) int {
		aNaN, bNaN := math.IsNaN(a.Price), math.IsNaN(b.Price)
		switch {
		case aNaN && bNaN:
			return 0
		case aNaN:
			return 1
		case bNaN:
			return -1
		}

		cmp := 0
		if a.Price < b.Price {
			cmp = -1
		} else if a.Price > b.Price {
			cmp = 1
		}
		if order == SortDesc {
			return -cmp
		}
		return cmp
	})
	return sorted
}

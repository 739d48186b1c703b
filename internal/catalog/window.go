package catalog

import (
	"storefront/internal/domain"
)

// Window returns the first min(visibleCount, len(products)) items
func Window(products []domain.ProductSummary, visibleCount int) []domain.ProductSummary {
	n := min(max(visibleCount, 0), len(products))
	if n == 0 {
		return []domain.ProductSummary{}
	}
	return products[:n:n]
}

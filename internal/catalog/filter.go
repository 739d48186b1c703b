// Package catalog implements the storefront listing engine: filtering,
// ordering, price range derivation and the "show more" window.
package catalog

import (
	"storefront/internal/domain"
)

// PageStep is both the initial visible count and the "show more" increment
const PageStep = 12

// SortOrder represents the sort direction over the listed price
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseSortOrder maps user input onto a sort order, defaulting to ascending
func ParseSortOrder(s string) SortOrder {
	if SortOrder(s) == SortDesc {
		return SortDesc
	}
	return SortAsc
}

// FilterState holds the current sort, color and price selections of a view.
// Nil bounds are unbounded on that side; an empty color set matches all.
type FilterState struct {
	SortOrder      SortOrder `json:"sort_order"`
	SelectedColors []string  `json:"selected_colors"`
	MinPrice       *float64  `json:"min_price"`
	MaxPrice       *float64  `json:"max_price"`
	VisibleCount   int       `json:"visible_count"`
}

// NewFilterState returns the state a freshly mounted view starts with
func NewFilterState() FilterState {
	return FilterState{
		SortOrder:      SortAsc,
		SelectedColors: []string{},
		VisibleCount:   PageStep,
	}
}

// Filter returns the products matching state, preserving input order.
// Price bounds compare the listed price, never the discounted one.
func Filter(products []domain.ProductSummary, state FilterState) []domain.ProductSummary {
	var colors map[string]struct{}
	if len(state.SelectedColors) > 0 {
		colors = make(map[string]struct{}, len(state.SelectedColors))
		for _, c := range state.SelectedColors {
			colors[c] = struct{}{}
		}
	}

	result := make([]domain.ProductSummary, 0, len(products))
	for _, p := range products {
		if colors != nil {
			if p.Color == nil {
				continue
			}
			if _, ok := colors[*p.Color]; !ok {
				continue
			}
		}
		if state.MinPrice != nil && !(p.Price >= *state.MinPrice) {
			continue
		}
		if state.MaxPrice != nil && !(p.Price <= *state.MaxPrice) {
			continue
		}
		result = append(result, p)
	}
	return result
}

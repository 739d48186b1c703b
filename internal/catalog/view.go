package catalog

import (
	"math"
	"slices"

	"storefront/internal/domain"
)

// ViewState is the lifecycle state of a catalog view
type ViewState string

const (
	StateLoading ViewState = "loading"
	StateReady   ViewState = "ready"
)

// View is the state of one mounted catalog listing. It owns its FilterState
// exclusively and is not safe for concurrent use.
type View struct {
	state    ViewState
	err      error
	products []domain.ProductSummary
	colors   []string
	rng      PriceRange
	display  PriceRange
	filter   FilterState
}

// NewView returns a view waiting for its products
func NewView() *View {
	return &View{
		state:   StateLoading,
		rng:     DefaultPriceRange,
		display: DefaultPriceRange,
		filter:  NewFilterState(),
	}
}

// Load installs the unfiltered products and color catalog of a scope.
// The price range is derived here and nowhere else.
func (v *View) Load(products []domain.ProductSummary, colors []string) {
	v.products = slices.Clone(products)
	v.colors = slices.Clone(colors)
	v.rng = DeriveRange(v.products)
	v.display = v.rng
	v.filter = NewFilterState()
	v.err = nil
	v.state = StateReady
}

// Fail records a fetch failure. The view becomes ready with no products.
func (v *View) Fail(err error) {
	v.Load(nil, nil)
	v.err = err
}

// State returns the lifecycle state
func (v *View) State() ViewState { return v.state }

// Err returns the fetch error recorded by Fail
func (v *View) Err() error { return v.err }

// Range returns the derived slider bounds
func (v *View) Range() PriceRange { return v.rng }

// DisplayBounds returns the slider handle positions
func (v *View) DisplayBounds() PriceRange { return v.display }

// Colors returns the selectable color labels
func (v *View) Colors() []string { return v.colors }

// Filter returns a copy of the current filter state
func (v *View) Filter() FilterState {
	f := v.filter
	f.SelectedColors = slices.Clone(v.filter.SelectedColors)
	return f
}

// SetSort changes the sort order
func (v *View) SetSort(order SortOrder) {
	if order != SortDesc {
		order = SortAsc
	}
	if v.filter.SortOrder == order {
		return
	}
	v.filter.SortOrder = order
	v.resetWindow()
}

// ToggleColor adds label to the selection or removes it when present
func (v *View) ToggleColor(label string) {
	if i := slices.Index(v.filter.SelectedColors, label); i >= 0 {
		v.filter.SelectedColors = slices.Delete(v.filter.SelectedColors, i, i+1)
	} else {
		v.filter.SelectedColors = append(v.filter.SelectedColors, label)
	}
	v.resetWindow()
}

// SetColors replaces the color selection, dropping duplicates
func (v *View) SetColors(labels []string) {
	selected := make([]string, 0, len(labels))
	for _, l := range labels {
		if !slices.Contains(selected, l) {
			selected = append(selected, l)
		}
	}
	v.filter.SelectedColors = selected
	v.resetWindow()
}

// DragMin moves the lower slider handle. The handle stays at least one unit
// below the upper one; reaching the floor clears the lower bound.
func (v *View) DragMin(value float64) {
	if math.IsNaN(value) {
		return
	}
	newMin := math.Min(roundHalfUp(value), v.display.Max-1)
	v.display.Min = newMin
	if newMin <= v.rng.Min {
		v.filter.MinPrice = nil
	} else {
		v.filter.MinPrice = &newMin
	}
	v.syncDisplay()
	v.resetWindow()
}

// DragMax moves the upper slider handle. The handle stays at least one unit
// above the lower one; reaching the ceiling clears the upper bound.
func (v *View) DragMax(value float64) {
	if math.IsNaN(value) {
		return
	}
	newMax := math.Max(roundHalfUp(value), v.display.Min+1)
	v.display.Max = newMax
	if newMax >= v.rng.Max {
		v.filter.MaxPrice = nil
	} else {
		v.filter.MaxPrice = &newMax
	}
	v.syncDisplay()
	v.resetWindow()
}

// ResetPrice clears both bounds and returns the handles to the range
func (v *View) ResetPrice() {
	v.filter.MinPrice = nil
	v.filter.MaxPrice = nil
	v.display = v.rng
	v.resetWindow()
}

// ShowMore grows the visible window by one page
func (v *View) ShowMore() {
	v.filter.VisibleCount += PageStep
}

// Results returns every product matching the filter, ordered
func (v *View) Results() []domain.ProductSummary {
	return Sort(Filter(v.products, v.filter), v.filter.SortOrder)
}

// Visible returns the rendered prefix of Results
func (v *View) Visible() []domain.ProductSummary {
	return Window(v.Results(), v.filter.VisibleCount)
}

// HasMore reports whether ShowMore would reveal more products
func (v *View) HasMore() bool {
	return v.filter.VisibleCount < len(v.Results())
}

// Page is a rendered snapshot of the view
type Page struct {
	Products   []domain.ProductSummary `json:"products"`
	Total      int                     `json:"total"`
	HasMore    bool                    `json:"has_more"`
	PriceRange PriceRange              `json:"price_range"`
	Display    PriceRange              `json:"display_range"`
	Colors     []string                `json:"colors"`
	Filter     FilterState             `json:"filter"`
}

// Snapshot computes the results once and packages them for rendering
func (v *View) Snapshot() Page {
	results := v.Results()
	colors := v.colors
	if colors == nil {
		colors = []string{}
	}
	return Page{
		Products:   Window(results, v.filter.VisibleCount),
		Total:      len(results),
		HasMore:    v.filter.VisibleCount < len(results),
		PriceRange: v.rng,
		Display:    v.display,
		Colors:     colors,
		Filter:     v.Filter(),
	}
}

// syncDisplay puts each handle on its stored bound, or on the range edge
// when that bound is cleared
func (v *View) syncDisplay() {
	v.display = v.rng
	if v.filter.MinPrice != nil {
		v.display.Min = *v.filter.MinPrice
	}
	if v.filter.MaxPrice != nil {
		v.display.Max = *v.filter.MaxPrice
	}
}

func (v *View) resetWindow() {
	v.filter.VisibleCount = PageStep
}

// roundHalfUp rounds .5 toward positive infinity
func roundHalfUp(f float64) float64 {
	return math.Floor(f + 0.5)
}

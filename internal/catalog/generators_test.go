package catalog

import (
	"reflect"

	"storefront/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
)

var testColors = []string{"mint", "berry", "citrus", "natural"}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

// genProduct produces summaries with coarse prices so ties are common
func genProduct() gopter.Gen {
	return gopter.CombineGens(
		gen.Int64Range(1, 1_000_000),
		gen.IntRange(0, 300),
		gen.IntRange(-1, len(testColors)-1),
	).Map(func(vals []interface{}) domain.ProductSummary {
		p := domain.ProductSummary{
			ID:    vals[0].(int64),
			Name:  "product",
			Price: float64(vals[1].(int)) * 5,
		}
		if idx := vals[2].(int); idx >= 0 {
			p.Color = strPtr(testColors[idx])
		}
		return p
	})
}

func genProducts() gopter.Gen {
	return gen.SliceOf(genProduct())
}

// genFilterState produces states with optional bounds and color selections
func genFilterState() gopter.Gen {
	return gopter.CombineGens(
		gen.Bool(),
		gen.SliceOf(gen.OneConstOf("mint", "berry", "citrus", "natural", "unknown"), reflect.TypeOf("")),
		gen.IntRange(-1, 1500),
		gen.IntRange(-1, 1500),
	).Map(func(vals []interface{}) FilterState {
		state := NewFilterState()
		if vals[0].(bool) {
			state.SortOrder = SortDesc
		}
		state.SelectedColors = append(state.SelectedColors, vals[1].([]string)...)
		if lo := vals[2].(int); lo >= 0 {
			state.MinPrice = floatPtr(float64(lo))
		}
		if hi := vals[3].(int); hi >= 0 {
			state.MaxPrice = floatPtr(float64(hi))
		}
		return state
	})
}

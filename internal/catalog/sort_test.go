package catalog

import (
	"math"
	"testing"

	"storefront/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestProperty_SortIsOrderedAndStable(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("sorted output is monotonic and keeps ties in input order", prop.ForAll(
		func(products []domain.ProductSummary, desc bool) bool {
			order := SortAsc
			if desc {
				order = SortDesc
			}
			// Tag each product with its input position.
			tagged := make([]domain.ProductSummary, len(products))
			for i, p := range products {
				p.ID = int64(i)
				tagged[i] = p
			}

			sorted := Sort(tagged, order)
			if len(sorted) != len(tagged) {
				return false
			}
			for i := 1; i < len(sorted); i++ {
				prev, cur := sorted[i-1], sorted[i]
				if order == SortAsc && prev.Price > cur.Price {
					return false
				}
				if order == SortDesc && prev.Price < cur.Price {
					return false
				}
				if prev.Price == cur.Price && prev.ID > cur.ID {
					return false
				}
			}
			return true
		},
		genProducts(),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_SortDoesNotMutateInput(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("input slice is left untouched", prop.ForAll(
		func(products []domain.ProductSummary) bool {
			before := ids(products)
			_ = Sort(products, SortDesc)
			return assert.ObjectsAreEqual(before, ids(products))
		},
		genProducts(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestSort_TiesKeepInputOrder(t *testing.T) {
	products := []domain.ProductSummary{
		{ID: 1, Price: 100, Color: strPtr("red")},
		{ID: 2, Price: 50, Color: strPtr("blue")},
		{ID: 3, Price: 100, Color: strPtr("blue")},
	}

	assert.Equal(t, []int64{2, 1, 3}, ids(Sort(products, SortAsc)))
	assert.Equal(t, []int64{1, 3, 2}, ids(Sort(products, SortDesc)))
}

func TestSort_UsesListedPrice(t *testing.T) {
	discount := 90
	products := []domain.ProductSummary{
		{ID: 1, Price: 300, DiscountPercentage: &discount},
		{ID: 2, Price: 200},
	}

	assert.Equal(t, []int64{2, 1}, ids(Sort(products, SortAsc)))
}

func TestSort_NaNGoesLast(t *testing.T) {
	products := []domain.ProductSummary{
		{ID: 1, Price: math.NaN()},
		{ID: 2, Price: 20},
		{ID: 3, Price: 10},
	}

	assert.Equal(t, []int64{3, 2, 1}, ids(Sort(products, SortAsc)))
	assert.Equal(t, []int64{2, 3, 1}, ids(Sort(products, SortDesc)))
}

func TestSort_EmptyInput(t *testing.T) {
	result := Sort(nil, SortAsc)

	assert.NotNil(t, result)
	assert.Empty(t, result)
}

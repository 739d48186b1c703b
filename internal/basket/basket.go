// Package basket is the shopping basket reducer. Every operation returns a
// new Basket and leaves the receiver untouched.
package basket

import (
	"github.com/shopspring/decimal"
)

// Line is one product variant in the basket
type Line struct {
	ProductID          int64   `json:"product_id" validate:"required,gt=0"`
	Name               string  `json:"name"`
	Size               string  `json:"size" validate:"max=50"`
	Color              *string `json:"color"`
	Quantity           int     `json:"quantity" validate:"required,gt=0,lte=999"`
	Price              float64 `json:"price"`
	DiscountPercentage *int    `json:"discount_percentage,omitempty"`
}

// Key identifies the variant a line holds
type Key struct {
	ProductID int64
	Size      string
	Color     string
}

func (l Line) Key() Key {
	k := Key{ProductID: l.ProductID, Size: l.Size}
	if l.Color != nil {
		k.Color = *l.Color
	}
	return k
}

// UnitPrice is the listed price reduced by the line's discount
func (l Line) UnitPrice() decimal.Decimal {
	price := decimal.NewFromFloat(l.Price)
	if l.DiscountPercentage == nil || *l.DiscountPercentage == 0 {
		return price
	}
	factor := decimal.NewFromInt(int64(100 - *l.DiscountPercentage)).Div(decimal.NewFromInt(100))
	return price.Mul(factor)
}

// Subtotal is UnitPrice times quantity
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Basket is an ordered list of distinct variants
type Basket struct {
	Lines []Line `json:"lines"`
}

func (b Basket) index(k Key) int {
	for i, l := range b.Lines {
		if l.Key() == k {
			return i
		}
	}
	return -1
}

func (b Basket) clone() Basket {
	lines := make([]Line, len(b.Lines))
	copy(lines, b.Lines)
	return Basket{Lines: lines}
}

// Add merges line into the basket; an existing variant gains its quantity
// and takes the newer price. Non-positive quantities are ignored.
func (b Basket) Add(line Line) Basket {
	if line.Quantity <= 0 {
		return b.clone()
	}
	next := b.clone()
	if i := next.index(line.Key()); i >= 0 {
		line.Quantity += next.Lines[i].Quantity
		next.Lines[i] = line
		return next
	}
	next.Lines = append(next.Lines, line)
	return next
}

// Remove drops the variant identified by k
func (b Basket) Remove(k Key) Basket {
	next := Basket{Lines: make([]Line, 0, len(b.Lines))}
	for _, l := range b.Lines {
		if l.Key() != k {
			next.Lines = append(next.Lines, l)
		}
	}
	return next
}

// SetQuantity overwrites the variant's quantity; zero or less removes it
func (b Basket) SetQuantity(k Key, quantity int) Basket {
	if quantity <= 0 {
		return b.Remove(k)
	}
	next := b.clone()
	if i := next.index(k); i >= 0 {
		next.Lines[i].Quantity = quantity
	}
	return next
}

// Clear empties the basket
func (b Basket) Clear() Basket {
	return Basket{Lines: []Line{}}
}

// Count is the number of units across all lines
func (b Basket) Count() int {
	n := 0
	for _, l := range b.Lines {
		n += l.Quantity
	}
	return n
}

// Total sums every line subtotal, rounded to cents
func (b Basket) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range b.Lines {
		total = total.Add(l.Subtotal())
	}
	return total.Round(2)
}

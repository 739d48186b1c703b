package domain

import (
	"strings"
	"time"
)

// MediaType distinguishes photos from videos in a product gallery
type MediaType string

const (
	MediaPhoto MediaType = "photo"
	MediaVideo MediaType = "video"
)

// MediaRef points at a stored media file
type MediaRef struct {
	URL  string    `json:"url"`
	Type MediaType `json:"type"`
}

// ProductMedia is one entry of a product gallery
type ProductMedia struct {
	ID   int64     `json:"id" db:"id"`
	URL  string    `json:"url" db:"url"`
	Type MediaType `json:"type" db:"type"`
}

// ProductColor is a selectable color variant shown on the product page
type ProductColor struct {
	ID    int64   `json:"id" db:"id"`
	Label string  `json:"label" db:"label"`
	Hex   *string `json:"hex" db:"hex"`
}

// Product represents a product in the catalog
type Product struct {
	ID                 int64          `json:"id" db:"id"`
	Name               string         `json:"name" db:"name"`
	Description        *string        `json:"description" db:"description"`
	Price              float64        `json:"price" db:"price"`
	OldPrice           *float64       `json:"old_price" db:"old_price"`
	DiscountPercentage *int           `json:"discount_percentage" db:"discount_percentage"`
	Priority           int            `json:"priority" db:"priority"`
	TopSale            bool           `json:"top_sale" db:"top_sale"`
	LimitedEdition     bool           `json:"limited_edition" db:"limited_edition"`
	Color              *string        `json:"color" db:"color"`
	CategoryID         int64          `json:"category_id" db:"category_id"`
	SubcategoryID      *int64         `json:"subcategory_id" db:"subcategory_id"`
	CBDContentMg       float64        `json:"cbd_content_mg" db:"cbd_content_mg"`
	THCContentMg       *float64       `json:"thc_content_mg" db:"thc_content_mg"`
	Potency            *string        `json:"potency" db:"potency"`
	Stock              int            `json:"stock" db:"stock"`
	Media              []ProductMedia `json:"media"`
	Colors             []ProductColor `json:"colors"`
	CreatedAt          time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at" db:"updated_at"`
}

// ProductSummary is the denormalized listing record consumed by catalog views
type ProductSummary struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	Price              float64   `json:"price"`
	DiscountPercentage *int      `json:"discount_percentage,omitempty"`
	Color              *string   `json:"color,omitempty"`
	FirstMedia         *MediaRef `json:"first_media,omitempty"`
}

// EffectivePrice is the listed price reduced by the active discount
func (s ProductSummary) EffectivePrice() float64 {
	return effectivePrice(s.Price, s.DiscountPercentage)
}

func effectivePrice(price float64, discount *int) float64 {
	if discount == nil {
		return price
	}
	return price * (1 - float64(*discount)/100)
}

// ProductScope selects the subset of products a listing is built from.
// SubcategoryName takes precedence over CategoryName.
type ProductScope struct {
	CategoryName    string `json:"category,omitempty"`
	SubcategoryName string `json:"subcategory,omitempty"`
	TopSale         bool   `json:"top_sale,omitempty"`
	LimitedEdition  bool   `json:"limited_edition,omitempty"`
}

// Key identifies the scope in caches
func (s ProductScope) Key() string {
	key := "all"
	switch {
	case s.SubcategoryName != "":
		key = "sub:" + strings.ToLower(strings.TrimSpace(s.SubcategoryName))
	case s.CategoryName != "":
		key = "cat:" + strings.ToLower(strings.TrimSpace(s.CategoryName))
	}
	if s.TopSale {
		key += ":top"
	}
	if s.LimitedEdition {
		key += ":limited"
	}
	return key
}

// RelatedProduct is a lightweight "you might like" entry
type RelatedProduct struct {
	ID         int64         `json:"id"`
	Name       string        `json:"name"`
	FirstColor *ProductColor `json:"first_color"`
}

// Category represents a top-level product category
type Category struct {
	ID            int64         `json:"id" db:"id"`
	Name          string        `json:"name" db:"name"`
	Priority      int           `json:"priority" db:"priority"`
	Subcategories []Subcategory `json:"subcategories"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
}

// Subcategory belongs to exactly one category
type Subcategory struct {
	ID               int64     `json:"id" db:"id"`
	Name             string    `json:"name" db:"name"`
	ParentCategoryID int64     `json:"parent_category_id" db:"parent_category_id"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// Color is an entry of the selectable color/flavor catalog
type Color struct {
	ID    int64  `json:"id" db:"id"`
	Color string `json:"color" db:"color"`
}

package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"go.uber.org/zap"
)

var (
	ErrSubcategoryMismatch = errors.New("subcategory does not belong to the category")
)

var videoExtensions = map[string]struct{}{
	".mp4":  {},
	".webm": {},
	".ogg":  {},
	".mov":  {},
	".avi":  {},
	".mkv":  {},
	".flv":  {},
	".wmv":  {},
}

// MediaInput is an already uploaded gallery file
type MediaInput struct {
	URL      string `json:"url" validate:"required,url"`
	MimeType string `json:"mime_type"`
}

// ColorInput is a product color variant
type ColorInput struct {
	Label string  `json:"label" validate:"required,max=100"`
	Hex   *string `json:"hex" validate:"omitempty,hexcolor"`
}

// ProductInput is the admin payload for creating or replacing a product
type ProductInput struct {
	Name               string       `json:"name" validate:"required,max=255"`
	Description        *string      `json:"description"`
	Price              float64      `json:"price" validate:"gte=0"`
	OldPrice           *float64     `json:"old_price" validate:"omitempty,gte=0"`
	DiscountPercentage *int         `json:"discount_percentage" validate:"omitempty,gte=0,lte=100"`
	Priority           int          `json:"priority"`
	TopSale            bool         `json:"top_sale"`
	LimitedEdition     bool         `json:"limited_edition"`
	Color              *string      `json:"color" validate:"omitempty,max=100"`
	CategoryID         int64        `json:"category_id" validate:"required,gt=0"`
	SubcategoryID      *int64       `json:"subcategory_id" validate:"omitempty,gt=0"`
	CBDContentMg       float64      `json:"cbd_content_mg" validate:"gte=0"`
	THCContentMg       *float64     `json:"thc_content_mg" validate:"omitempty,gte=0"`
	Potency            *string      `json:"potency" validate:"omitempty,max=100"`
	Stock              int          `json:"stock" validate:"gte=0"`
	Media              []MediaInput `json:"media" validate:"dive"`
	Colors             []ColorInput `json:"colors" validate:"dive"`
}

// ProductService defines the interface for product business logic
type ProductService interface {
	Create(ctx context.Context, input ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id int64, input ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	Related(ctx context.Context, name string) ([]domain.RelatedProduct, error)
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	catalog      CatalogService
	logger       *zap.Logger
}

// NewProductService creates a new instance of ProductService
func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	catalog CatalogService,
	logger *zap.Logger,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		catalog:      catalog,
		logger:       logger,
	}
}

// DetectMediaType classifies a gallery file from its MIME type, falling
// back to the URL extension
func DetectMediaType(url, mimeType string) domain.MediaType {
	if strings.HasPrefix(strings.ToLower(mimeType), "video/") {
		return domain.MediaVideo
	}
	clean := url
	if i := strings.IndexAny(clean, "?#"); i >= 0 {
		clean = clean[:i]
	}
	if _, ok := videoExtensions[strings.ToLower(path.Ext(clean))]; ok {
		return domain.MediaVideo
	}
	return domain.MediaPhoto
}

func (s *productService) Create(ctx context.Context, input ProductInput) (*domain.Product, error) {
	if err := s.checkCategory(ctx, input); err != nil {
		return nil, err
	}

	product := input.toProduct()
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info("Product created", zap.Int64("product_id", product.ID), zap.String("name", product.Name))
	s.catalog.Invalidate(ctx)
	return product, nil
}

func (s *productService) Update(ctx context.Context, id int64, input ProductInput) (*domain.Product, error) {
	if err := s.checkCategory(ctx, input); err != nil {
		return nil, err
	}

	product := input.toProduct()
	product.ID = id
	if err := s.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.logger.Info("Product updated", zap.Int64("product_id", id))
	s.catalog.Invalidate(ctx)
	return s.productRepo.FindByID(ctx, id)
}

func (s *productService) Delete(ctx context.Context, id int64) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Product deleted", zap.Int64("product_id", id))
	s.catalog.Invalidate(ctx)
	return nil
}

func (s *productService) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

func (s *productService) Related(ctx context.Context, name string) ([]domain.RelatedProduct, error) {
	if strings.TrimSpace(name) == "" {
		return []domain.RelatedProduct{}, nil
	}
	return s.productRepo.Related(ctx, name)
}

// checkCategory verifies the category exists and owns the subcategory
func (s *productService) checkCategory(ctx context.Context, input ProductInput) error {
	if _, err := s.categoryRepo.FindByID(ctx, input.CategoryID); err != nil {
		return err
	}
	if input.SubcategoryID == nil {
		return nil
	}
	sub, err := s.categoryRepo.FindSubcategory(ctx, *input.SubcategoryID)
	if err != nil {
		return err
	}
	if sub.ParentCategoryID != input.CategoryID {
		return ErrSubcategoryMismatch
	}
	return nil
}

func (in ProductInput) toProduct() *domain.Product {
	p := &domain.Product{
		Name:               strings.TrimSpace(in.Name),
		Description:        in.Description,
		Price:              in.Price,
		OldPrice:           in.OldPrice,
		DiscountPercentage: in.DiscountPercentage,
		Priority:           in.Priority,
		TopSale:            in.TopSale,
		LimitedEdition:     in.LimitedEdition,
		Color:              in.Color,
		CategoryID:         in.CategoryID,
		SubcategoryID:      in.SubcategoryID,
		CBDContentMg:       in.CBDContentMg,
		THCContentMg:       in.THCContentMg,
		Potency:            in.Potency,
		Stock:              in.Stock,
		Media:              make([]domain.ProductMedia, 0, len(in.Media)),
		Colors:             make([]domain.ProductColor, 0, len(in.Colors)),
	}
	for _, m := range in.Media {
		p.Media = append(p.Media, domain.ProductMedia{URL: m.URL, Type: DetectMediaType(m.URL, m.MimeType)})
	}
	for _, c := range in.Colors {
		p.Colors = append(p.Colors, domain.ProductColor{Label: strings.TrimSpace(c.Label), Hex: c.Hex})
	}
	return p
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/cache"
	"storefront/internal/catalog"
	"storefront/internal/domain"
	"storefront/internal/metrics"
	"storefront/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const catalogCachePrefix = "catalog:"

// CatalogQuery is a storefront listing request replayed onto a fresh view
type CatalogQuery struct {
	Sort     catalog.SortOrder
	Colors   []string
	MinPrice *float64
	MaxPrice *float64
	// Pages is how many windows of catalog.PageStep the client has revealed
	Pages int
}

// ScopeData is the raw input of a catalog view for one scope
type ScopeData struct {
	Products []domain.ProductSummary `json:"products"`
	Colors   []string                `json:"colors"`
}

// CatalogService defines the interface for storefront listings
type CatalogService interface {
	LoadScope(ctx context.Context, scope domain.ProductScope) (*ScopeData, error)
	BuildPage(ctx context.Context, scope domain.ProductScope, query CatalogQuery) (catalog.Page, error)
	Invalidate(ctx context.Context)
}

type catalogService struct {
	productRepo repository.ProductRepository
	colorRepo   repository.ColorRepository
	cache       cache.Store
	ttl         time.Duration
	metrics     *metrics.CatalogMetrics
	logger      *zap.Logger
}

// NewCatalogService creates a new instance of CatalogService. A nil store
// disables caching.
func NewCatalogService(
	productRepo repository.ProductRepository,
	colorRepo repository.ColorRepository,
	store cache.Store,
	ttl time.Duration,
	catalogMetrics *metrics.CatalogMetrics,
	logger *zap.Logger,
) CatalogService {
	return &catalogService{
		productRepo: productRepo,
		colorRepo:   colorRepo,
		cache:       store,
		ttl:         ttl,
		metrics:     catalogMetrics,
		logger:      logger,
	}
}

// LoadScope fetches the product list and the color vocabulary concurrently.
// The reads are independent: a color failure leaves Colors empty and keeps
// the products, and only a product failure fails the scope. A degraded
// result is not cached.
func (s *catalogService) LoadScope(ctx context.Context, scope domain.ProductScope) (*ScopeData, error) {
	key := catalogCachePrefix + scope.Key()

	if s.cache != nil {
		var cached ScopeData
		err := s.cache.Get(ctx, key, &cached)
		switch {
		case err == nil:
			s.metrics.CacheHit()
			return &cached, nil
		case !errors.Is(err, cache.ErrMiss):
			s.logger.Warn("Catalog cache read failed", zap.String("key", key), zap.Error(err))
		}
		s.metrics.CacheMiss()
	}

	start := time.Now()
	data := &ScopeData{Colors: []string{}}
	var productErr, colorErr error

	var g errgroup.Group
	g.Go(func() error {
		products, err := s.productRepo.ListSummaries(ctx, scope)
		if err != nil {
			productErr = fmt.Errorf("failed to load products: %w", err)
			return nil
		}
		data.Products = products
		return nil
	})
	g.Go(func() error {
		colors, err := s.colorRepo.ListLabels(ctx)
		if err != nil {
			colorErr = fmt.Errorf("failed to load colors: %w", err)
			return nil
		}
		if colors != nil {
			data.Colors = colors
		}
		return nil
	})
	_ = g.Wait()

	s.metrics.ObserveLoad(time.Since(start), productErr)
	if productErr != nil {
		return nil, productErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if colorErr != nil {
		s.logger.Warn("Catalog colors unavailable, serving products without color filters",
			zap.String("scope", scope.Key()), zap.Error(colorErr))
		return data, nil
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
			s.logger.Warn("Catalog cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	return data, nil
}

// BuildPage loads the scope into a new view and replays the query on it in
// the order a shopper would: sort, colors, price bounds, then "show more".
// On a fetch failure the returned page is the empty failed view.
func (s *catalogService) BuildPage(ctx context.Context, scope domain.ProductScope, query CatalogQuery) (catalog.Page, error) {
	view := catalog.NewView()

	data, err := s.LoadScope(ctx, scope)
	if err != nil {
		view.Fail(err)
		return view.Snapshot(), err
	}

	view.Load(data.Products, data.Colors)
	view.SetSort(query.Sort)
	if len(query.Colors) > 0 {
		view.SetColors(query.Colors)
	}
	if query.MinPrice != nil {
		view.DragMin(*query.MinPrice)
	}
	if query.MaxPrice != nil {
		view.DragMax(*query.MaxPrice)
	}
	for i := 1; i < query.Pages; i++ {
		if !view.HasMore() {
			break
		}
		view.ShowMore()
	}

	return view.Snapshot(), nil
}

// Invalidate drops every cached scope after a catalog write
func (s *catalogService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePrefix(ctx, catalogCachePrefix); err != nil {
		s.logger.Warn("Catalog cache invalidation failed", zap.Error(err))
	}
}

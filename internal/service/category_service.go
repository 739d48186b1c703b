package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/cache"
	"storefront/internal/domain"
	"storefront/internal/repository"

	"go.uber.org/zap"
)

const categoryTreeKey = "categories:tree"

// CategoryService defines the interface for category and color business logic
type CategoryService interface {
	List(ctx context.Context) ([]*domain.Category, error)
	Get(ctx context.Context, id int64) (*domain.Category, error)
	Create(ctx context.Context, name string, priority int) (*domain.Category, error)
	Update(ctx context.Context, id int64, name string, priority int) (*domain.Category, error)
	Delete(ctx context.Context, id int64) error

	CreateSubcategory(ctx context.Context, categoryID int64, name string) (*domain.Subcategory, error)
	UpdateSubcategory(ctx context.Context, id int64, categoryID int64, name string) (*domain.Subcategory, error)
	DeleteSubcategory(ctx context.Context, id int64) error

	ListColors(ctx context.Context) ([]domain.Color, error)
	CreateColor(ctx context.Context, label string) (*domain.Color, error)
	DeleteColor(ctx context.Context, id int64) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	colorRepo    repository.ColorRepository
	catalog      CatalogService
	cache        cache.Store
	ttl          time.Duration
	logger       *zap.Logger
}

// NewCategoryService creates a new instance of CategoryService
func NewCategoryService(
	categoryRepo repository.CategoryRepository,
	colorRepo repository.ColorRepository,
	catalog CatalogService,
	store cache.Store,
	ttl time.Duration,
	logger *zap.Logger,
) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		colorRepo:    colorRepo,
		catalog:      catalog,
		cache:        store,
		ttl:          ttl,
		logger:       logger,
	}
}

// List returns the navigation tree, served from cache when warm
func (s *categoryService) List(ctx context.Context) ([]*domain.Category, error) {
	if s.cache != nil {
		var cached []*domain.Category
		err := s.cache.Get(ctx, categoryTreeKey, &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			s.logger.Warn("Category cache read failed", zap.Error(err))
		}
	}

	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, categoryTreeKey, categories, s.ttl); err != nil {
			s.logger.Warn("Category cache write failed", zap.Error(err))
		}
	}
	return categories, nil
}

func (s *categoryService) Get(ctx context.Context, id int64) (*domain.Category, error) {
	return s.categoryRepo.FindByID(ctx, id)
}

func (s *categoryService) Create(ctx context.Context, name string, priority int) (*domain.Category, error) {
	category := &domain.Category{Name: strings.TrimSpace(name), Priority: priority}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return category, nil
}

func (s *categoryService) Update(ctx context.Context, id int64, name string, priority int) (*domain.Category, error) {
	category := &domain.Category{ID: id, Name: strings.TrimSpace(name), Priority: priority}
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return s.categoryRepo.FindByID(ctx, id)
}

func (s *categoryService) Delete(ctx context.Context, id int64) error {
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Category deleted", zap.Int64("category_id", id))
	s.invalidate(ctx)
	return nil
}

func (s *categoryService) CreateSubcategory(ctx context.Context, categoryID int64, name string) (*domain.Subcategory, error) {
	if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
		return nil, err
	}
	sub := &domain.Subcategory{Name: strings.TrimSpace(name), ParentCategoryID: categoryID}
	if err := s.categoryRepo.CreateSubcategory(ctx, sub); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return sub, nil
}

func (s *categoryService) UpdateSubcategory(ctx context.Context, id int64, categoryID int64, name string) (*domain.Subcategory, error) {
	if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
		return nil, err
	}
	sub := &domain.Subcategory{ID: id, Name: strings.TrimSpace(name), ParentCategoryID: categoryID}
	if err := s.categoryRepo.UpdateSubcategory(ctx, sub); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return s.categoryRepo.FindSubcategory(ctx, id)
}

func (s *categoryService) DeleteSubcategory(ctx context.Context, id int64) error {
	if err := s.categoryRepo.DeleteSubcategory(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *categoryService) ListColors(ctx context.Context) ([]domain.Color, error) {
	return s.colorRepo.List(ctx)
}

func (s *categoryService) CreateColor(ctx context.Context, label string) (*domain.Color, error) {
	color := &domain.Color{Color: strings.TrimSpace(label)}
	if err := s.colorRepo.Create(ctx, color); err != nil {
		return nil, err
	}
	s.catalog.Invalidate(ctx)
	return color, nil
}

func (s *categoryService) DeleteColor(ctx context.Context, id int64) error {
	if err := s.colorRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.catalog.Invalidate(ctx)
	return nil
}

// invalidate drops the cached tree and every catalog scope, since scopes
// are keyed by category names
func (s *categoryService) invalidate(ctx context.Context) {
	if s.cache != nil {
		if err := s.cache.DeletePrefix(ctx, categoryTreeKey); err != nil {
			s.logger.Warn("Category cache invalidation failed", zap.Error(err))
		}
	}
	s.catalog.Invalidate(ctx)
}

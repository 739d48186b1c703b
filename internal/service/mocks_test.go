package service

import (
	"context"
	"sync"
	"sync/atomic"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

// Mock repositories for testing

type mockProductRepository struct {
	mu        sync.Mutex
	products  map[int64]*domain.Product
	summaries []domain.ProductSummary
	nextID    int64
	listCalls atomic.Int32
	listErr   error
	scopes    []domain.ProductScope
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{products: make(map[int64]*domain.Product)}
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	product.ID = m.nextID
	stored := *product
	m.products[product.ID] = &stored
	return nil
}

func (m *mockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[product.ID]; !ok {
		return repository.ErrProductNotFound
	}
	stored := *product
	m.products[product.ID] = &stored
	return nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *mockProductRepository) ListSummaries(ctx context.Context, scope domain.ProductScope) ([]domain.ProductSummary, error) {
	m.listCalls.Add(1)
	m.mu.Lock()
	m.scopes = append(m.scopes, scope)
	m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]domain.ProductSummary, len(m.summaries))
	copy(out, m.summaries)
	return out, nil
}

func (m *mockProductRepository) Related(ctx context.Context, name string) ([]domain.RelatedProduct, error) {
	return []domain.RelatedProduct{{ID: 1, Name: name}}, nil
}

type mockColorRepository struct {
	mu      sync.Mutex
	colors  []domain.Color
	listErr error
	nextID  int64
}

func (m *mockColorRepository) Create(ctx context.Context, color *domain.Color) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.colors {
		if c.Color == color.Color {
			return repository.ErrColorAlreadyExists
		}
	}
	m.nextID++
	color.ID = m.nextID
	m.colors = append(m.colors, *color)
	return nil
}

func (m *mockColorRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, c := range m.colors {
		if c.ID == id {
			m.colors = append(m.colors[:i], m.colors[i+1:]...)
			return nil
		}
	}
	return repository.ErrColorNotFound
}

func (m *mockColorRepository) List(ctx context.Context) ([]domain.Color, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]domain.Color, len(m.colors))
	copy(out, m.colors)
	return out, nil
}

func (m *mockColorRepository) ListLabels(ctx context.Context) ([]string, error) {
	colors, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	labels := []string{}
	for _, c := range colors {
		labels = append(labels, c.Color)
	}
	return labels, nil
}

type mockCategoryRepository struct {
	categories map[int64]*domain.Category
	subs       map[int64]*domain.Subcategory
	nextID     int64
	listCalls  int
}

func newMockCategoryRepository() *mockCategoryRepository {
	return &mockCategoryRepository{
		categories: make(map[int64]*domain.Category),
		subs:       make(map[int64]*domain.Subcategory),
	}
}

func (m *mockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	for _, c := range m.categories {
		if c.Name == category.Name {
			return repository.ErrCategoryAlreadyExists
		}
	}
	m.nextID++
	category.ID = m.nextID
	category.Subcategories = []domain.Subcategory{}
	m.categories[category.ID] = category
	return nil
}

func (m *mockCategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	existing, ok := m.categories[category.ID]
	if !ok {
		return repository.ErrCategoryNotFound
	}
	existing.Name = category.Name
	existing.Priority = category.Priority
	return nil
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.categories[id]; !ok {
		return repository.ErrCategoryNotFound
	}
	delete(m.categories, id)
	return nil
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	m.listCalls++
	out := []*domain.Category{}
	for _, c := range m.categories {
		out = append(out, c)
	}
	return out, nil
}

func (m *mockCategoryRepository) FindByID(ctx context.Context, id int64) (*domain.Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	return c, nil
}

func (m *mockCategoryRepository) CreateSubcategory(ctx context.Context, sub *domain.Subcategory) error {
	m.nextID++
	sub.ID = m.nextID
	m.subs[sub.ID] = sub
	return nil
}

func (m *mockCategoryRepository) UpdateSubcategory(ctx context.Context, sub *domain.Subcategory) error {
	if _, ok := m.subs[sub.ID]; !ok {
		return repository.ErrSubcategoryNotFound
	}
	m.subs[sub.ID] = sub
	return nil
}

func (m *mockCategoryRepository) DeleteSubcategory(ctx context.Context, id int64) error {
	if _, ok := m.subs[id]; !ok {
		return repository.ErrSubcategoryNotFound
	}
	delete(m.subs, id)
	return nil
}

func (m *mockCategoryRepository) FindSubcategory(ctx context.Context, id int64) (*domain.Subcategory, error) {
	s, ok := m.subs[id]
	if !ok {
		return nil, repository.ErrSubcategoryNotFound
	}
	return s, nil
}

func (m *mockCategoryRepository) ListSubcategories(ctx context.Context, categoryID int64) ([]domain.Subcategory, error) {
	out := []domain.Subcategory{}
	for _, s := range m.subs {
		if s.ParentCategoryID == categoryID {
			out = append(out, *s)
		}
	}
	return out, nil
}

type mockOrderRepository struct {
	orders map[int64]*domain.Order
	nextID int64
}

func newMockOrderRepository() *mockOrderRepository {
	return &mockOrderRepository{orders: make(map[int64]*domain.Order)}
}

func (m *mockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	m.nextID++
	order.ID = m.nextID
	m.orders[order.ID] = order
	return nil
}

func (m *mockOrderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	return o, nil
}

func (m *mockOrderRepository) List(ctx context.Context) ([]*domain.Order, error) {
	out := []*domain.Order{}
	for _, o := range m.orders {
		out = append(out, o)
	}
	return out, nil
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	o, ok := m.orders[id]
	if !ok {
		return repository.ErrOrderNotFound
	}
	o.Status = status
	return nil
}

func (m *mockOrderRepository) UpdateStatusByInvoice(ctx context.Context, invoiceID string, status domain.OrderStatus) (*domain.Order, error) {
	for _, o := range m.orders {
		if o.InvoiceID != nil && *o.InvoiceID == invoiceID {
			o.Status = status
			return o, nil
		}
	}
	return nil, repository.ErrOrderNotFound
}

func (m *mockOrderRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.orders[id]; !ok {
		return repository.ErrOrderNotFound
	}
	delete(m.orders, id)
	return nil
}

// countingCatalog records invalidations
type countingCatalog struct {
	CatalogService
	invalidations int
}

func (c *countingCatalog) Invalidate(ctx context.Context) {
	c.invalidations++
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func floatPtr(f float64) *float64 {
	return &f
}

package transport

import (
	"context"

	"storefront/internal/catalog"
	"storefront/internal/domain"
	"storefront/internal/service"
)

// Each fake embeds the service interface; methods a test does not stub
// panic on the nil embedded value.

type fakeCatalogService struct {
	service.CatalogService
	buildPage func(ctx context.Context, scope domain.ProductScope, query service.CatalogQuery) (catalog.Page, error)
}

func (f *fakeCatalogService) BuildPage(ctx context.Context, scope domain.ProductScope, query service.CatalogQuery) (catalog.Page, error) {
	return f.buildPage(ctx, scope, query)
}

type fakeProductService struct {
	service.ProductService
	getByID func(ctx context.Context, id int64) (*domain.Product, error)
	related func(ctx context.Context, name string) ([]domain.RelatedProduct, error)
	create  func(ctx context.Context, input service.ProductInput) (*domain.Product, error)
	update  func(ctx context.Context, id int64, input service.ProductInput) (*domain.Product, error)
	delete  func(ctx context.Context, id int64) error
}

func (f *fakeProductService) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	return f.getByID(ctx, id)
}

func (f *fakeProductService) Related(ctx context.Context, name string) ([]domain.RelatedProduct, error) {
	return f.related(ctx, name)
}

func (f *fakeProductService) Create(ctx context.Context, input service.ProductInput) (*domain.Product, error) {
	return f.create(ctx, input)
}

func (f *fakeProductService) Update(ctx context.Context, id int64, input service.ProductInput) (*domain.Product, error) {
	return f.update(ctx, id, input)
}

func (f *fakeProductService) Delete(ctx context.Context, id int64) error {
	return f.delete(ctx, id)
}

type fakeCategoryService struct {
	service.CategoryService
	list        func(ctx context.Context) ([]*domain.Category, error)
	create      func(ctx context.Context, name string, priority int) (*domain.Category, error)
	deleteColor func(ctx context.Context, id int64) error
}

func (f *fakeCategoryService) List(ctx context.Context) ([]*domain.Category, error) {
	return f.list(ctx)
}

func (f *fakeCategoryService) Create(ctx context.Context, name string, priority int) (*domain.Category, error) {
	return f.create(ctx, name, priority)
}

func (f *fakeCategoryService) DeleteColor(ctx context.Context, id int64) error {
	return f.deleteColor(ctx, id)
}

type fakeOrderService struct {
	service.OrderService
	checkout      func(ctx context.Context, req service.CheckoutRequest) (*domain.Order, error)
	updateStatus  func(ctx context.Context, id int64, status domain.OrderStatus) error
	updatePayment func(ctx context.Context, invoiceID string, status domain.OrderStatus) (*domain.Order, error)
}

func (f *fakeOrderService) Checkout(ctx context.Context, req service.CheckoutRequest) (*domain.Order, error) {
	return f.checkout(ctx, req)
}

func (f *fakeOrderService) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	return f.updateStatus(ctx, id, status)
}

func (f *fakeOrderService) UpdatePaymentStatus(ctx context.Context, invoiceID string, status domain.OrderStatus) (*domain.Order, error) {
	return f.updatePayment(ctx, invoiceID, status)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/basket"
	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidOrderStatus = errors.New("invalid order status")
	ErrEmptyBasket        = errors.New("basket is empty")
	ErrProductUnavailable = errors.New("product is no longer available")
)

// CheckoutRequest is the customer hand-off of a basket
type CheckoutRequest struct {
	CustomerName   string        `json:"customer_name" validate:"required,max=255"`
	PhoneNumber    string        `json:"phone_number" validate:"required,min=7,max=32"`
	Email          *string       `json:"email" validate:"omitempty,email"`
	DeliveryMethod string        `json:"delivery_method" validate:"required,max=50"`
	City           string        `json:"city" validate:"required,max=100"`
	PostOffice     string        `json:"post_office" validate:"required,max=255"`
	Comment        *string       `json:"comment" validate:"omitempty,max=1000"`
	PaymentType    string        `json:"payment_type" validate:"required,max=50"`
	Items          []basket.Line `json:"items" validate:"required,min=1,dive"`
}

// OrderService defines the interface for checkout and order administration
type OrderService interface {
	Checkout(ctx context.Context, req CheckoutRequest) (*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
	Get(ctx context.Context, id int64) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error
	UpdatePaymentStatus(ctx context.Context, invoiceID string, status domain.OrderStatus) (*domain.Order, error)
	Delete(ctx context.Context, id int64) error
}

type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	logger      *zap.Logger
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	logger *zap.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// Checkout re-prices every basket line from the product store and records
// an unpaid order under a fresh invoice id
func (s *orderService) Checkout(ctx context.Context, req CheckoutRequest) (*domain.Order, error) {
	priced, err := s.priceBasket(ctx, req.Items)
	if err != nil {
		return nil, err
	}
	if priced.Count() == 0 {
		return nil, ErrEmptyBasket
	}

	items := make([]domain.OrderItem, 0, len(priced.Lines))
	for _, l := range priced.Lines {
		items = append(items, domain.OrderItem{
			ProductID: l.ProductID,
			Name:      l.Name,
			Size:      l.Size,
			Quantity:  l.Quantity,
			Price:     l.UnitPrice().Round(2).InexactFloat64(),
			Color:     l.Color,
		})
	}

	invoiceID := uuid.NewString()
	order := &domain.Order{
		CustomerName:   strings.TrimSpace(req.CustomerName),
		PhoneNumber:    strings.TrimSpace(req.PhoneNumber),
		Email:          req.Email,
		DeliveryMethod: req.DeliveryMethod,
		City:           strings.TrimSpace(req.City),
		PostOffice:     strings.TrimSpace(req.PostOffice),
		Comment:        req.Comment,
		PaymentType:    req.PaymentType,
		InvoiceID:      &invoiceID,
		Status:         domain.OrderStatusUnpaid,
		Total:          priced.Total().InexactFloat64(),
		Items:          items,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Info("Order placed",
		zap.Int64("order_id", order.ID),
		zap.String("invoice_id", invoiceID),
		zap.Int("units", priced.Count()),
		zap.Float64("total", order.Total),
	)
	return order, nil
}

// priceBasket rebuilds the basket with names, prices and discounts from
// the product store
func (s *orderService) priceBasket(ctx context.Context, lines []basket.Line) (basket.Basket, error) {
	products := make(map[int64]*domain.Product)
	b := basket.Basket{}

	for _, line := range lines {
		product, ok := products[line.ProductID]
		if !ok {
			var err error
			product, err = s.productRepo.FindByID(ctx, line.ProductID)
			if err != nil {
				if errors.Is(err, repository.ErrProductNotFound) {
					return basket.Basket{}, fmt.Errorf("%w: %d", ErrProductUnavailable, line.ProductID)
				}
				return basket.Basket{}, fmt.Errorf("failed to price basket: %w", err)
			}
			products[line.ProductID] = product
		}

		b = b.Add(basket.Line{
			ProductID:          product.ID,
			Name:               product.Name,
			Size:               line.Size,
			Color:              line.Color,
			Quantity:           line.Quantity,
			Price:              product.Price,
			DiscountPercentage: product.DiscountPercentage,
		})
	}
	return b, nil
}

func (s *orderService) List(ctx context.Context) ([]*domain.Order, error) {
	return s.orderRepo.List(ctx)
}

func (s *orderService) Get(ctx context.Context, id int64) (*domain.Order, error) {
	return s.orderRepo.FindByID(ctx, id)
}

func (s *orderService) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	if !status.Valid() {
		return ErrInvalidOrderStatus
	}
	if err := s.orderRepo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	s.logger.Info("Order status updated", zap.Int64("order_id", id), zap.String("status", string(status)))
	return nil
}

// UpdatePaymentStatus applies a payment provider callback
func (s *orderService) UpdatePaymentStatus(ctx context.Context, invoiceID string, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidOrderStatus
	}
	order, err := s.orderRepo.UpdateStatusByInvoice(ctx, invoiceID, status)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Payment status updated",
		zap.String("invoice_id", invoiceID),
		zap.String("status", string(status)),
	)
	return order, nil
}

func (s *orderService) Delete(ctx context.Context, id int64) error {
	return s.orderRepo.Delete(ctx, id)
}

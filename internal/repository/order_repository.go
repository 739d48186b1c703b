package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"storefront/internal/domain"
)

var (
	ErrOrderNotFound = errors.New("order not found")
)

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error
	UpdateStatusByInvoice(ctx context.Context, invoiceID string, status domain.OrderStatus) (*domain.Order, error)
	Delete(ctx context.Context, id int64) error
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `id, customer_name, phone_number, email, delivery_method, city, post_office,
	comment, payment_type, invoice_id, status, total, items, created_at, updated_at`

func scanOrder(row scanner, o *domain.Order) error {
	var items []byte
	err := row.Scan(
		&o.ID,
		&o.CustomerName,
		&o.PhoneNumber,
		&o.Email,
		&o.DeliveryMethod,
		&o.City,
		&o.PostOffice,
		&o.Comment,
		&o.PaymentType,
		&o.InvoiceID,
		&o.Status,
		&o.Total,
		&items,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return err
	}

	o.Items = []domain.OrderItem{}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return fmt.Errorf("failed to decode order items: %w", err)
		}
	}
	return nil
}

// Create inserts an order together with its priced lines
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to encode order items: %w", err)
	}

	query := `
		INSERT INTO orders (customer_name, phone_number, email, delivery_method, city, post_office,
			comment, payment_type, invoice_id, status, total, items)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12::jsonb)
		RETURNING id, created_at, updated_at
	`

	err = r.db.QueryRowContext(
		ctx,
		query,
		order.CustomerName,
		order.PhoneNumber,
		order.Email,
		order.DeliveryMethod,
		order.City,
		order.PostOffice,
		order.Comment,
		order.PaymentType,
		order.InvoiceID,
		order.Status,
		order.Total,
		string(items),
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// FindByID retrieves an order by ID
func (r *orderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	order := &domain.Order{}
	err := scanOrder(r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id), order)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order by ID: %w", err)
	}
	return order, nil
}

// List retrieves every order, newest first
func (r *orderRepository) List(ctx context.Context) ([]*domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []*domain.Order{}
	for rows.Next() {
		order := &domain.Order{}
		if err := scanOrder(rows, order); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus moves an order to a new lifecycle state
func (r *orderRepository) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE orders SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	return expectOneRow(result, ErrOrderNotFound)
}

// UpdateStatusByInvoice applies a payment provider callback to the order
// holding invoiceID and returns the updated order
func (r *orderRepository) UpdateStatusByInvoice(ctx context.Context, invoiceID string, status domain.OrderStatus) (*domain.Order, error) {
	query := `UPDATE orders SET status = $2 WHERE invoice_id = $1 RETURNING ` + orderColumns

	order := &domain.Order{}
	if err := scanOrder(r.db.QueryRowContext(ctx, query, invoiceID, status), order); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to update payment status: %w", err)
	}
	return order, nil
}

// Delete removes an order
func (r *orderRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	return expectOneRow(result, ErrOrderNotFound)
}

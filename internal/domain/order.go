package domain

import (
	"time"
)

// OrderStatus is the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusUnpaid     OrderStatus = "unpaid"
	OrderStatusPaid       OrderStatus = "paid"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCanceled   OrderStatus = "canceled"
)

// Valid reports whether s is a known status
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusUnpaid, OrderStatusPaid, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCanceled:
		return true
	}
	return false
}

// OrderItem is a priced line of an order
type OrderItem struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Size      string  `json:"size"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Color     *string `json:"color"`
}

// Order represents a checkout hand-off
type Order struct {
	ID             int64       `json:"id" db:"id"`
	CustomerName   string      `json:"customer_name" db:"customer_name"`
	PhoneNumber    string      `json:"phone_number" db:"phone_number"`
	Email          *string     `json:"email" db:"email"`
	DeliveryMethod string      `json:"delivery_method" db:"delivery_method"`
	City           string      `json:"city" db:"city"`
	PostOffice     string      `json:"post_office" db:"post_office"`
	Comment        *string     `json:"comment" db:"comment"`
	PaymentType    string      `json:"payment_type" db:"payment_type"`
	InvoiceID      *string     `json:"invoice_id" db:"invoice_id"`
	Status         OrderStatus `json:"status" db:"status"`
	Total          float64     `json:"total" db:"total"`
	Items          []OrderItem `json:"items" db:"items"`
	CreatedAt      time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at" db:"updated_at"`
}

package transport

import (
	"errors"
	"net/http"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// StatusRequest represents an order or payment status change
type StatusRequest struct {
	Status domain.OrderStatus `json:"status" validate:"required,oneof=unpaid paid processing shipped delivered canceled"`
}

// OrderHandler handles checkout and order administration
type OrderHandler struct {
	orderService service.OrderService
	logger       *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// RegisterRoutes registers the public checkout and the admin group.
// The payment callback is authenticated like the admin routes.
func (h *OrderHandler) RegisterRoutes(r chi.Router, adminMiddleware ...func(http.Handler) http.Handler) {
	r.Post("/api/orders/checkout", h.Checkout)

	r.Group(func(r chi.Router) {
		r.Use(adminMiddleware...)
		r.Get("/api/admin/orders", h.List)
		r.Get("/api/admin/orders/{id}", h.Get)
		r.Patch("/api/admin/orders/{id}/status", h.UpdateStatus)
		r.Delete("/api/admin/orders/{id}", h.Delete)
		r.Patch("/api/admin/payments/{invoiceID}", h.UpdatePaymentStatus)
	})
}

// Checkout turns a basket into an unpaid order
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req service.CheckoutRequest
	if !decodeBody(w, r, &req, h.logger) {
		return
	}

	order, err := h.orderService.Checkout(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyBasket):
			middleware.RespondWithError(w, http.StatusBadRequest, "basket is empty")
		case errors.Is(err, service.ErrProductUnavailable):
			middleware.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			h.logger.Error("Checkout failed", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to place order")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, order)
}

// List returns every order, newest first
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderService.List(r.Context())
	if err != nil {
		h.respondOrderError(w, err, "failed to list orders")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

// Get returns one order
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	order, err := h.orderService.Get(r.Context(), id)
	if err != nil {
		h.respondOrderError(w, err, "failed to get order")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, order)
}

// UpdateStatus moves an order through its lifecycle
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	var req StatusRequest
	if !decodeBody(w, r, &req, h.logger) {
		return
	}

	if err := h.orderService.UpdateStatus(r.Context(), id, req.Status); err != nil {
		h.respondOrderError(w, err, "failed to update order status")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"id":     id,
		"status": req.Status,
	})
}

// UpdatePaymentStatus applies a payment result to the order holding the invoice
func (h *OrderHandler) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	invoiceID := chi.URLParam(r, "invoiceID")
	if invoiceID == "" {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid invoice ID")
		return
	}

	var req StatusRequest
	if !decodeBody(w, r, &req, h.logger) {
		return
	}

	order, err := h.orderService.UpdatePaymentStatus(r.Context(), invoiceID, req.Status)
	if err != nil {
		h.respondOrderError(w, err, "failed to update payment status")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, order)
}

// Delete removes an order
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	if err := h.orderService.Delete(r.Context(), id); err != nil {
		h.respondOrderError(w, err, "failed to delete order")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *OrderHandler) respondOrderError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, repository.ErrOrderNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "order not found")
	case errors.Is(err, service.ErrInvalidOrderStatus):
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order status")
	default:
		h.logger.Error("Order request failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}

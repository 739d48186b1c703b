package transport

import (
	"errors"
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ProductHandler handles HTTP requests for product pages and product admin
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes registers public product routes and the admin group
func (h *ProductHandler) RegisterRoutes(r chi.Router, adminMiddleware ...func(http.Handler) http.Handler) {
	r.Get("/api/products/related", h.Related)
	r.Get("/api/products/{id}", h.Get)

	r.Group(func(r chi.Router) {
		r.Use(adminMiddleware...)
		r.Post("/api/admin/products", h.Create)
		r.Put("/api/admin/products/{id}", h.Update)
		r.Delete("/api/admin/products/{id}", h.Delete)
	})
}

// Get returns the full product record
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	product, err := h.productService.GetByID(r.Context(), id)
	if err != nil {
		h.respondProductError(w, err, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Related returns "you might like" suggestions for a product name
func (h *ProductHandler) Related(w http.ResponseWriter, r *http.Request) {
	related, err := h.productService.Related(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		h.logger.Error("Failed to list related products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list related products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, related)
}

// Create handles product creation
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.ProductInput
	if !decodeBody(w, r, &req, h.logger) {
		return
	}

	product, err := h.productService.Create(r.Context(), req)
	if err != nil {
		h.respondProductError(w, err, "failed to create product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// Update replaces a product including its media and colors
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	var req service.ProductInput
	if !decodeBody(w, r, &req, h.logger) {
		return
	}

	product, err := h.productService.Update(r.Context(), id, req)
	if err != nil {
		h.respondProductError(w, err, "failed to update product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Delete removes a product
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	if err := h.productService.Delete(r.Context(), id); err != nil {
		h.respondProductError(w, err, "failed to delete product")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ProductHandler) respondProductError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, repository.ErrProductNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
	case errors.Is(err, repository.ErrCategoryNotFound):
		middleware.RespondWithError(w, http.StatusBadRequest, "category not found")
	case errors.Is(err, repository.ErrSubcategoryNotFound):
		middleware.RespondWithError(w, http.StatusBadRequest, "subcategory not found")
	case errors.Is(err, service.ErrSubcategoryMismatch):
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("Product request failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}

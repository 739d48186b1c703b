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

// CategoryRequest represents the category create/update payload
type CategoryRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Priority int    `json:"priority"`
}

// SubcategoryRequest represents the subcategory create/update payload
type SubcategoryRequest struct {
	Name       string `json:"name" validate:"required,max=100"`
	CategoryID int64  `json:"category_id" validate:"required,gt=0"`
}

// ColorRequest represents a new color catalog entry
type ColorRequest struct {
	Color string `json:"color" validate:"required,max=100"`
}

// CategoryHandler handles the navigation tree and the color catalog
type CategoryHandler struct {
	categoryService service.CategoryService
	logger          *zap.Logger
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService service.CategoryService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		logger:          logger,
	}
}

// RegisterRoutes registers public reads and the admin group
func (h *CategoryHandler) RegisterRoutes(r chi.Router, adminMiddleware ...func(http.Handler) http.Handler) {
	r.Get("/api/categories", h.List)
	r.Get("/api/categories/{id}", h.Get)
	r.Get("/api/colors", h.ListColors)

	r.Group(func(r chi.Router) {
		r.Use(adminMiddleware...)

		r.Post("/api/admin/categories", h.Create)
		r.Put("/api/admin/categories/{id}", h.Update)
		r.Delete("/api/admin/categories/{id}", h.Delete)

		r.Post("/api/admin/subcategories", h.CreateSubcategory)
		r.Put("/api/admin/subcategories/{id}", h.UpdateSubcategory)
		r.Delete("/api/admin/subcategories/{id}", h.DeleteSubcategory)

		r.Post("/api/admin/colors", h.CreateColor)
		r.Delete("/api/admin/colors/{id}", h.DeleteColor)
	})
}

// List returns categories with their subcategories
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.List(r.Context())
	if err != nil {
		h.respondCategoryError(w, err, "failed to list categories")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

// Get returns one category with its subcategories
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid category ID")
		return
	}

	category, err := h.categoryService.Get(r.Context(), id)
	if err != nil {
		h.respondCategoryError(w, err, "failed to get category")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, category)
}

// Create handles category creation
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if !decodeBody(w, r, &req, h.logger) {
		return
	}

	category, err := h.categoryService.Create(r.Context(), req.Name, req.Priority)
	if err != nil {
		h.respondCategoryError(w, err, "failed to create category")
		return
	}
	middleware.RespondWithJSON(w, http.StatusCreated, category)
}

// Update renames or re-prioritizes a category
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid category ID")
		return
	}

	var req CategoryRequest
	if !decodeBody(w, r, &req, h.logger) {
		return
	}

	category, err := h.categoryService.Update(r.Context(), id, req.Name, req.Priority)
	if err != nil {
		h.respondCategoryError(w, err, "failed to update category")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, category)
}

// Delete removes a category
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid category ID")
		return
	}

	if err := h.categoryService.Delete(r.Context(), id); err != nil {
		h.respondCategoryError(w, err, "failed to delete category")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateSubcategory adds a subcategory under an existing category
func (h *CategoryHandler) CreateSubcategory(w http.ResponseWriter, r *http.Request) {
	var req SubcategoryRequest
	if !decodeBody(w, r, &req, h.logger) {
		return
	}

	sub, err := h.categoryService.CreateSubcategory(r.Context(), req.CategoryID, req.Name)
	if err != nil {
		h.respondCategoryError(w, err, "failed to create subcategory")
		return
	}
	middleware.RespondWithJSON(w, http.StatusCreated, sub)
}

// UpdateSubcategory renames or moves a subcategory
func (h *CategoryHandler) UpdateSubcategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid subcategory ID")
		return
	}

	var req SubcategoryRequest
	if !decodeBody(w, r, &req, h.logger) {
		return
	}

	sub, err := h.categoryService.UpdateSubcategory(r.Context(), id, req.CategoryID, req.Name)
	if err != nil {
		h.respondCategoryError(w, err, "failed to update subcategory")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, sub)
}

// DeleteSubcategory removes a subcategory
func (h *CategoryHandler) DeleteSubcategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid subcategory ID")
		return
	}

	if err := h.categoryService.DeleteSubcategory(r.Context(), id); err != nil {
		h.respondCategoryError(w, err, "failed to delete subcategory")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListColors returns the color catalog
func (h *CategoryHandler) ListColors(w http.ResponseWriter, r *http.Request) {
	colors, err := h.categoryService.ListColors(r.Context())
	if err != nil {
		h.respondCategoryError(w, err, "failed to list colors")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, colors)
}

// CreateColor adds a color catalog entry
func (h *CategoryHandler) CreateColor(w http.ResponseWriter, r *http.Request) {
	var req ColorRequest
	if !decodeBody(w, r, &req, h.logger) {
		return
	}

	color, err := h.categoryService.CreateColor(r.Context(), req.Color)
	if err != nil {
		h.respondCategoryError(w, err, "failed to create color")
		return
	}
	middleware.RespondWithJSON(w, http.StatusCreated, color)
}

// DeleteColor removes a color catalog entry
func (h *CategoryHandler) DeleteColor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid color ID")
		return
	}

	if err := h.categoryService.DeleteColor(r.Context(), id); err != nil {
		h.respondCategoryError(w, err, "failed to delete color")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CategoryHandler) respondCategoryError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, repository.ErrCategoryNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "category not found")
	case errors.Is(err, repository.ErrSubcategoryNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "subcategory not found")
	case errors.Is(err, repository.ErrColorNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "color not found")
	case errors.Is(err, repository.ErrCategoryAlreadyExists):
		middleware.RespondWithError(w, http.StatusConflict, "category with this name already exists")
	case errors.Is(err, repository.ErrColorAlreadyExists):
		middleware.RespondWithError(w, http.StatusConflict, "color already exists")
	default:
		h.logger.Error("Category request failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}

package transport

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"storefront/internal/catalog"
	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxPages caps how many windows a single listing request may reveal
const maxPages = 50

// CatalogHandler serves the storefront listings
type CatalogHandler struct {
	catalogService service.CatalogService
	logger         *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// RegisterRoutes registers the public catalog routes
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/catalog", h.List)
}

// List builds one listing page.
//
//	GET /api/catalog?category=&subcategory=&top_sale=&limited_edition=
//	               &sort=asc|desc&color=a&color=b&min_price=&max_price=&page=
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	scope, err := parseScope(q)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	query, err := parseCatalogQuery(q)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := h.catalogService.BuildPage(r.Context(), scope, query)
	if err != nil {
		h.logger.Error("Catalog listing failed",
			zap.String("scope", scope.Key()),
			zap.Error(err),
		)
		middleware.RespondWithErrorDetails(w, http.StatusServiceUnavailable, "catalog is temporarily unavailable",
			map[string]interface{}{"page": page})
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, page)
}

type queryError string

func (e queryError) Error() string { return string(e) }

func parseScope(q url.Values) (domain.ProductScope, error) {
	scope := domain.ProductScope{
		CategoryName:    strings.TrimSpace(q.Get("category")),
		SubcategoryName: strings.TrimSpace(q.Get("subcategory")),
	}

	var err error
	if scope.TopSale, err = parseFlag(q, "top_sale"); err != nil {
		return scope, err
	}
	if scope.LimitedEdition, err = parseFlag(q, "limited_edition"); err != nil {
		return scope, err
	}
	return scope, nil
}

func parseCatalogQuery(q url.Values) (service.CatalogQuery, error) {
	query := service.CatalogQuery{
		Sort:  catalog.ParseSortOrder(q.Get("sort")),
		Pages: 1,
	}

	for _, raw := range q["color"] {
		for _, label := range strings.Split(raw, ",") {
			if label = strings.TrimSpace(label); label != "" {
				query.Colors = append(query.Colors, label)
			}
		}
	}

	var err error
	if query.MinPrice, err = parsePrice(q, "min_price"); err != nil {
		return query, err
	}
	if query.MaxPrice, err = parsePrice(q, "max_price"); err != nil {
		return query, err
	}

	if raw := q.Get("page"); raw != "" {
		pages, err := strconv.Atoi(raw)
		if err != nil || pages < 1 {
			return query, queryError("page must be a positive integer")
		}
		query.Pages = min(pages, maxPages)
	}
	return query, nil
}

func parseFlag(q url.Values, name string) (bool, error) {
	raw := q.Get(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, queryError(name + " must be a boolean")
	}
	return v, nil
}

func parsePrice(q url.Values, name string) (*float64, error) {
	raw := q.Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, queryError(name + " must be a number")
	}
	return &v, nil
}

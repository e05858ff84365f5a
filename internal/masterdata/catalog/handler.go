package catalog

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/saral-hq/saral/internal/platform/httpx"
	"github.com/saral-hq/saral/internal/rbac"
	"github.com/saral-hq/saral/internal/shared"
)

// Handler exposes catalog endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
}

// NewHandler constructs the Handler.
func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac}
}

// MountRoutes registers catalog routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/product-categories", func(r chi.Router) {
		r.Use(h.rbac.Require("product"))
		r.Get("/", h.listCategories)
		r.Post("/", h.createCategory)
		r.Delete("/{id}", h.deleteCategory)
	})
	r.Route("/products", func(r chi.Router) {
		r.Use(h.rbac.Require("product"))
		r.Get("/", h.listProducts)
		r.Post("/", h.createProduct)
		r.Get("/{id}", h.getProduct)
		r.Patch("/{id}", h.updateProduct)
		r.Delete("/{id}", h.deleteProduct)
	})
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.Categories(r.Context())
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"results": out})
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name" validate:"required"`
		Description string `json:"description"`
	}
	if err := httpx.DecodeValid(r, &req); err != nil {
		httpx.FieldProblem(w, http.StatusBadRequest, "Validation Failed", httpx.ValidationFields(err))
		return
	}
	c, err := h.service.AddCategory(r.Context(), Category{Name: req.Name, Description: req.Description})
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, c)
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid category id")
		return
	}
	if err := h.service.RemoveCategory(r.Context(), id); err != nil {
		h.respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type productRequest struct {
	SKU         string          `json:"sku" validate:"required"`
	Name        string          `json:"name" validate:"required"`
	CategoryID  int64           `json:"categoryId" validate:"required"`
	Unit        string          `json:"unit"`
	MarkedPrice decimal.Decimal `json:"markedPrice"`
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	categoryID, _ := strconv.ParseInt(q.Get("categoryId"), 10, 64)
	f := shared.ListFilters{Page: page, Limit: limit, Search: q.Get("search")}
	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Page < 1 {
		f.Page = 1
	}
	out, total, err := h.service.Products(r.Context(), f, categoryID)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"results":    out,
		"pagination": shared.NewPagination(f.Page, f.Limit, total),
	})
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid product id")
		return
	}
	p, err := h.service.Product(r.Context(), id)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := httpx.DecodeValid(r, &req); err != nil {
		httpx.FieldProblem(w, http.StatusBadRequest, "Validation Failed", httpx.ValidationFields(err))
		return
	}
	p, err := h.service.AddProduct(r.Context(), Product{
		SKU:         req.SKU,
		Name:        req.Name,
		CategoryID:  req.CategoryID,
		Unit:        req.Unit,
		MarkedPrice: req.MarkedPrice,
	})
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid product id")
		return
	}
	var upd UpdateProduct
	if err := httpx.DecodeJSON(r, &upd); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	p, err := h.service.EditProduct(r.Context(), id, upd)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid product id")
		return
	}
	if err := h.service.RemoveProduct(r.Context(), id); err != nil {
		h.respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrDuplicate):
		httpx.Problem(w, http.StatusConflict, "Duplicate", err.Error())
	case errors.Is(err, ErrInvalid):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		h.logger.Error("catalog request failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

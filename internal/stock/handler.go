package stock

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/saral-hq/saral/internal/platform/httpx"
	"github.com/saral-hq/saral/internal/rbac"
	"github.com/saral-hq/saral/internal/shared"
)

// Handler exposes read-only stock counter endpoints.
type Handler struct {
	logger *slog.Logger
	repo   *Repository
	rbac   rbac.Middleware
}

// NewHandler constructs the Handler.
func NewHandler(logger *slog.Logger, repo *Repository, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, repo: repo, rbac: rbac}
}

// MountRoutes registers stock routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.Require("stock"))
		r.Get("/products", h.listProductStock)
		r.Get("/products/{itemID}", h.getProductStock)
		r.Get("/lines/{lineID}", h.getLineStock)
	})
}

func (h *Handler) listProductStock(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 50
	}
	if page < 1 {
		page = 1
	}
	counters, total, err := h.repo.ListProductStock(r.Context(), limit, (page-1)*limit)
	if err != nil {
		h.logger.Error("list product stock", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"results":    counters,
		"pagination": shared.NewPagination(page, limit, total),
	})
}

func (h *Handler) getProductStock(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.ParseInt(chi.URLParam(r, "itemID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid item id")
		return
	}
	counter, err := h.repo.GetProductStock(r.Context(), itemID)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, counter)
}

func (h *Handler) getLineStock(w http.ResponseWriter, r *http.Request) {
	lineID, err := strconv.ParseInt(chi.URLParam(r, "lineID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid line id")
		return
	}
	counter, err := h.repo.GetLineStock(r.Context(), lineID)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, counter)
}

func (h *Handler) respondErr(w http.ResponseWriter, err error) {
	if err == ErrNotFound {
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
		return
	}
	h.logger.Error("stock lookup", slog.Any("error", err))
	httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
}

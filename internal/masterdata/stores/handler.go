package stores

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/saral-hq/saral/internal/platform/httpx"
	"github.com/saral-hq/saral/internal/rbac"
)

// RepositoryPort describes repository operations used by Handler.
type RepositoryPort interface {
	List(ctx context.Context) ([]Store, error)
	Get(ctx context.Context, id int64) (Store, error)
	Create(ctx context.Context, s Store) (Store, error)
	Delete(ctx context.Context, id int64) error
}

// Handler exposes store endpoints. Stores are simple enough that the handler
// talks to the repository directly.
type Handler struct {
	logger *slog.Logger
	repo   RepositoryPort
	rbac   rbac.Middleware
}

// NewHandler constructs the Handler.
func NewHandler(logger *slog.Logger, repo RepositoryPort, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, repo: repo, rbac: rbac}
}

// MountRoutes registers store routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/stores", func(r chi.Router) {
		r.Use(h.rbac.Require("store"))
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/{id}", h.get)
		r.Delete("/{id}", h.delete)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	out, err := h.repo.List(r.Context())
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"results": out})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid store id")
		return
	}
	s, err := h.repo.Get(r.Context(), id)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, s)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code    string `json:"code" validate:"required"`
		Name    string `json:"name" validate:"required"`
		Address string `json:"address"`
		Phone   string `json:"phone"`
	}
	if err := httpx.DecodeValid(r, &req); err != nil {
		httpx.FieldProblem(w, http.StatusBadRequest, "Validation Failed", httpx.ValidationFields(err))
		return
	}
	s, err := h.repo.Create(r.Context(), Store{
		Code:     strings.ToUpper(strings.TrimSpace(req.Code)),
		Name:     strings.TrimSpace(req.Name),
		Address:  req.Address,
		Phone:    req.Phone,
		IsActive: true,
	})
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, s)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid store id")
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
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
	default:
		h.logger.Error("store request failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

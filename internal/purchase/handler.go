package purchase

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/saral-hq/saral/internal/platform/httpx"
	"github.com/saral-hq/saral/internal/rbac"
	"github.com/saral-hq/saral/internal/shared"
	"github.com/saral-hq/saral/internal/stock"
)

// Handler exposes purchase and purchase-return endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
}

// NewHandler constructs the Handler.
func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac}
}

// MountRoutes registers purchase routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/purchases", func(r chi.Router) {
		r.Use(h.rbac.Require("purchase"))
		r.Get("/", h.list(DocTypePurchase))
		r.Post("/", h.createPurchase)
		r.Get("/{id}", h.get)
	})
	r.Route("/purchase-returns", func(r chi.Router) {
		r.Use(h.rbac.Require("purchase"))
		r.Get("/", h.list(DocTypeReturn))
		r.Post("/", h.createReturn)
		r.Get("/{id}", h.get)
	})
}

func (h *Handler) createPurchase(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.decode(w, r)
	if !ok {
		return
	}
	created, err := h.service.CreatePurchase(r.Context(), doc)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) createReturn(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.decode(w, r)
	if !ok {
		return
	}
	created, err := h.service.CreateReturn(r.Context(), doc)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (Document, bool) {
	var req createDocumentRequest
	if err := httpx.DecodeValid(r, &req); err != nil {
		if fields := httpx.ValidationFields(err); fields != nil {
			httpx.FieldProblem(w, http.StatusBadRequest, "Validation Failed", fields)
		} else {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		}
		return Document{}, false
	}
	return req.toDomain(shared.ActorFromContext(r.Context())), true
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid document id")
		return
	}
	doc, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, doc)
}

func (h *Handler) list(docType DocType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page, _ := strconv.Atoi(q.Get("page"))
		limit, _ := strconv.Atoi(q.Get("limit"))
		supplierID, _ := strconv.ParseInt(q.Get("supplierId"), 10, 64)
		f := ListFilters{
			ListFilters: shared.ListFilters{Page: page, Limit: limit, Search: q.Get("search")},
			DocType:     docType,
			SupplierID:  supplierID,
		}
		if f.Limit <= 0 {
			f.Limit = 20
		}
		if f.Page < 1 {
			f.Page = 1
		}
		docs, total, err := h.service.List(r.Context(), f)
		if err != nil {
			h.respondErr(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]any{
			"results":    docs,
			"pagination": shared.NewPagination(f.Page, f.Limit, total),
		})
	}
}

func (h *Handler) respondErr(w http.ResponseWriter, err error) {
	var fe httpx.FieldErrorer
	switch {
	case errors.As(err, &fe):
		httpx.FieldProblem(w, http.StatusBadRequest, "Validation Failed", fe.FieldErrors())
	case errors.Is(err, stock.ErrOverReturn):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, ErrLineMismatch):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, stock.ErrLedgerUpdate):
		h.logger.Error("ledger update failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Ledger Update Failed", "the document was not saved; stock counters could not be updated")
	default:
		h.logger.Error("purchase request failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

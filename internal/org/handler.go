package org

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/saral-hq/saral/internal/platform/httpx"
	"github.com/saral-hq/saral/internal/rbac"
)

// Handler exposes organization configuration endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
}

// NewHandler constructs the Handler.
func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac}
}

// MountRoutes registers organization routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/organization", func(r chi.Router) {
		r.Use(h.rbac.Require("organization"))
		r.Get("/", h.getOrganization)
		r.Put("/", h.saveOrganization)
		r.Get("/social-links", h.listSocialLinks)
		r.Post("/social-links", h.addSocialLink)
		r.Delete("/social-links/{id}", h.removeSocialLink)
		r.Get("/fiscal-periods", h.listFiscalPeriods)
		r.Post("/fiscal-periods", h.addFiscalPeriod)
		r.Get("/payment-methods", h.listPaymentMethods)
		r.Post("/payment-methods", h.addPaymentMethod)
		r.Get("/charge-types", h.listChargeTypes)
		r.Post("/charge-types", h.addChargeType)
	})
}

func (h *Handler) getOrganization(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.Organization(r.Context())
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, o)
}

func (h *Handler) saveOrganization(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name" validate:"required"`
		DisplayName string `json:"displayName"`
		Tagline     string `json:"tagline"`
		WebsiteURL  string `json:"websiteUrl" validate:"omitempty,url"`
		Address     string `json:"address"`
		Email       string `json:"email" validate:"required,email"`
	}
	if err := httpx.DecodeValid(r, &req); err != nil {
		httpx.FieldProblem(w, http.StatusBadRequest, "Validation Failed", httpx.ValidationFields(err))
		return
	}
	o, err := h.service.SaveOrganization(r.Context(), Organization{
		Name:        req.Name,
		DisplayName: req.DisplayName,
		Tagline:     req.Tagline,
		WebsiteURL:  req.WebsiteURL,
		Address:     req.Address,
		Email:       req.Email,
	})
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, o)
}

func (h *Handler) listSocialLinks(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.Organization(r.Context())
	if err != nil {
		h.respondErr(w, err)
		return
	}
	links, err := h.service.SocialLinks(r.Context(), o.ID)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"results": links})
}

func (h *Handler) addSocialLink(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Platform string `json:"platform" validate:"required"`
		Link     string `json:"link" validate:"required,url"`
	}
	if err := httpx.DecodeValid(r, &req); err != nil {
		httpx.FieldProblem(w, http.StatusBadRequest, "Validation Failed", httpx.ValidationFields(err))
		return
	}
	o, err := h.service.Organization(r.Context())
	if err != nil {
		h.respondErr(w, err)
		return
	}
	link, err := h.service.AddSocialLink(r.Context(), SocialLink{
		OrganizationID: o.ID,
		Platform:       req.Platform,
		Link:           req.Link,
	})
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, link)
}

func (h *Handler) removeSocialLink(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid link id")
		return
	}
	if err := h.service.RemoveSocialLink(r.Context(), id); err != nil {
		h.respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listFiscalPeriods(w http.ResponseWriter, r *http.Request) {
	periods, err := h.service.FiscalPeriods(r.Context())
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"results": periods})
}

func (h *Handler) addFiscalPeriod(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code      string    `json:"code" validate:"required"`
		StartDate time.Time `json:"startDate" validate:"required"`
		EndDate   time.Time `json:"endDate" validate:"required"`
	}
	if err := httpx.DecodeValid(r, &req); err != nil {
		httpx.FieldProblem(w, http.StatusBadRequest, "Validation Failed", httpx.ValidationFields(err))
		return
	}
	p, err := h.service.AddFiscalPeriod(r.Context(), FiscalPeriod{
		Code:      req.Code,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		IsActive:  true,
	})
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

func (h *Handler) listPaymentMethods(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	methods, err := h.service.PaymentMethods(r.Context(), activeOnly)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"results": methods})
}

func (h *Handler) addPaymentMethod(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name" validate:"required"`
	}
	if err := httpx.DecodeValid(r, &req); err != nil {
		httpx.FieldProblem(w, http.StatusBadRequest, "Validation Failed", httpx.ValidationFields(err))
		return
	}
	m, err := h.service.AddPaymentMethod(r.Context(), PaymentMethod{Name: req.Name, IsActive: true})
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, m)
}

func (h *Handler) listChargeTypes(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	types, err := h.service.ChargeTypes(r.Context(), activeOnly)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"results": types})
}

func (h *Handler) addChargeType(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name" validate:"required"`
	}
	if err := httpx.DecodeValid(r, &req); err != nil {
		httpx.FieldProblem(w, http.StatusBadRequest, "Validation Failed", httpx.ValidationFields(err))
		return
	}
	t, err := h.service.AddChargeType(r.Context(), ChargeType{Name: req.Name, IsActive: true})
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, t)
}

func (h *Handler) respondErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrNoFiscalPeriod):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrInvalid):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		h.logger.Error("organization request failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

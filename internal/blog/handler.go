package blog

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/saral-hq/saral/internal/platform/httpx"
	"github.com/saral-hq/saral/internal/rbac"
	"github.com/saral-hq/saral/internal/shared"
)

// Handler exposes blog endpoints: an authenticated admin surface and a
// public read surface.
type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
}

// NewHandler constructs the Handler.
func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac}
}

// MountRoutes registers the admin blog routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/blog/posts", func(r chi.Router) {
		r.Use(h.rbac.Require("post"))
		r.Get("/", h.listPosts)
		r.Post("/", h.createPost)
		r.Get("/{id}", h.getPost)
		r.Patch("/{id}", h.updatePost)
		r.Delete("/{id}", h.deletePost)
		r.Get("/{id}/comments", h.listAllComments)
	})
	r.Route("/blog/categories", func(r chi.Router) {
		r.Use(h.rbac.Require("post"))
		r.Get("/", h.listCategories)
		r.Post("/", h.createCategory)
	})
	r.With(h.rbac.Require("post")).Post("/blog/comments/{id}/approve", h.approveComment)
}

// MountPublicRoutes registers the unauthenticated read surface.
func (h *Handler) MountPublicRoutes(r chi.Router) {
	r.Get("/blog/posts", h.listPublished)
	r.Get("/blog/posts/{slug}", h.getBySlug)
	r.Get("/blog/posts/{slug}/comments", h.listApprovedComments)
	r.Post("/blog/posts/{slug}/comments", h.addComment)
}

type postRequest struct {
	Title      string   `json:"title" validate:"required"`
	Excerpt    string   `json:"excerpt"`
	Body       string   `json:"body" validate:"required"`
	CategoryID int64    `json:"categoryId" validate:"required"`
	Status     string   `json:"status" validate:"omitempty,oneof=DRAFT PUBLISHED"`
	Tags       []string `json:"tags"`
}

func (h *Handler) listPosts(w http.ResponseWriter, r *http.Request) {
	h.respondList(w, r, false)
}

func (h *Handler) listPublished(w http.ResponseWriter, r *http.Request) {
	h.respondList(w, r, true)
}

func (h *Handler) respondList(w http.ResponseWriter, r *http.Request, publishedOnly bool) {
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

	var (
		posts []Post
		total int
		err   error
	)
	if publishedOnly {
		posts, total, err = h.service.PublishedPosts(r.Context(), f, categoryID)
	} else {
		posts, total, err = h.service.Posts(r.Context(), f, categoryID)
	}
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"results":    posts,
		"pagination": shared.NewPagination(f.Page, f.Limit, total),
	})
}

func (h *Handler) getPost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid post id")
		return
	}
	p, err := h.service.Post(r.Context(), id)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) getBySlug(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.PostBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) createPost(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := httpx.DecodeValid(r, &req); err != nil {
		httpx.FieldProblem(w, http.StatusBadRequest, "Validation Failed", httpx.ValidationFields(err))
		return
	}
	p, err := h.service.CreatePost(r.Context(), Post{
		Title:      req.Title,
		Excerpt:    req.Excerpt,
		Body:       req.Body,
		CategoryID: req.CategoryID,
		Status:     req.Status,
		Tags:       req.Tags,
		AuthorID:   shared.ActorFromContext(r.Context()),
	})
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

func (h *Handler) updatePost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid post id")
		return
	}
	var upd UpdatePost
	if err := httpx.DecodeJSON(r, &upd); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	p, err := h.service.UpdatePost(r.Context(), id, upd)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) deletePost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid post id")
		return
	}
	if err := h.service.DeletePost(r.Context(), id); err != nil {
		h.respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
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
		Name string `json:"name" validate:"required"`
	}
	if err := httpx.DecodeValid(r, &req); err != nil {
		httpx.FieldProblem(w, http.StatusBadRequest, "Validation Failed", httpx.ValidationFields(err))
		return
	}
	c, err := h.service.AddCategory(r.Context(), req.Name)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, c)
}

func (h *Handler) listAllComments(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid post id")
		return
	}
	out, err := h.service.Comments(r.Context(), id, false)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"results": out})
}

func (h *Handler) listApprovedComments(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.PostBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.respondErr(w, err)
		return
	}
	out, err := h.service.Comments(r.Context(), p.ID, true)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"results": out})
}

func (h *Handler) addComment(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.PostBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.respondErr(w, err)
		return
	}
	var req struct {
		AuthorName string `json:"authorName" validate:"required"`
		Email      string `json:"email" validate:"omitempty,email"`
		Body       string `json:"body" validate:"required"`
	}
	if err := httpx.DecodeValid(r, &req); err != nil {
		httpx.FieldProblem(w, http.StatusBadRequest, "Validation Failed", httpx.ValidationFields(err))
		return
	}
	c, err := h.service.AddComment(r.Context(), Comment{
		PostID:     p.ID,
		AuthorName: req.AuthorName,
		Email:      req.Email,
		Body:       req.Body,
	})
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, c)
}

func (h *Handler) approveComment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid comment id")
		return
	}
	if err := h.service.ApproveComment(r.Context(), id); err != nil {
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
		h.logger.Error("blog request failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

package blog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/saral-hq/saral/internal/shared"
)

// RepositoryPort describes repository operations used by Service.
type RepositoryPort interface {
	GetPost(ctx context.Context, id int64) (Post, error)
	GetPostBySlug(ctx context.Context, slug string) (Post, error)
	ListPosts(ctx context.Context, f shared.ListFilters, categoryID int64, publishedOnly bool) ([]Post, int, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	CreatePost(ctx context.Context, p Post) (Post, error)
	UpdatePost(ctx context.Context, id int64, upd UpdatePost, slug *string, publish *bool) (Post, error)
	DeletePost(ctx context.Context, id int64) error
	ListCategories(ctx context.Context) ([]Category, error)
	CreateCategory(ctx context.Context, c Category) (Category, error)
	ListComments(ctx context.Context, postID int64, approvedOnly bool) ([]Comment, error)
	CreateComment(ctx context.Context, c Comment) (Comment, error)
	ApproveComment(ctx context.Context, id int64) error
}

// Service exposes blog operations.
type Service struct {
	repo RepositoryPort
	now  func() time.Time
}

// NewService constructs the Service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Post loads one post by id.
func (s *Service) Post(ctx context.Context, id int64) (Post, error) {
	return s.repo.GetPost(ctx, id)
}

// PostBySlug loads one published post by slug for the public surface.
func (s *Service) PostBySlug(ctx context.Context, slug string) (Post, error) {
	p, err := s.repo.GetPostBySlug(ctx, slug)
	if err != nil {
		return Post{}, err
	}
	if p.Status != StatusPublished {
		return Post{}, ErrNotFound
	}
	return p, nil
}

// Posts lists posts for the admin surface.
func (s *Service) Posts(ctx context.Context, f shared.ListFilters, categoryID int64) ([]Post, int, error) {
	return s.repo.ListPosts(ctx, f, categoryID, false)
}

// PublishedPosts lists published posts for the public surface.
func (s *Service) PublishedPosts(ctx context.Context, f shared.ListFilters, categoryID int64) ([]Post, int, error) {
	return s.repo.ListPosts(ctx, f, categoryID, true)
}

// CreatePost validates, slugifies the title and inserts a draft or published
// post.
func (s *Service) CreatePost(ctx context.Context, p Post) (Post, error) {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return Post{}, fmt.Errorf("%w: title required", ErrInvalid)
	}
	if p.Body == "" {
		return Post{}, fmt.Errorf("%w: body required", ErrInvalid)
	}
	if p.Status == "" {
		p.Status = StatusDraft
	}
	if p.Status != StatusDraft && p.Status != StatusPublished {
		return Post{}, fmt.Errorf("%w: status must be DRAFT or PUBLISHED", ErrInvalid)
	}
	if p.Status == StatusPublished {
		now := s.now()
		p.PublishedAt = &now
	}

	slug, err := s.uniqueSlug(ctx, p.Title)
	if err != nil {
		return Post{}, err
	}
	p.Slug = slug
	return s.repo.CreatePost(ctx, p)
}

// uniqueSlug appends a numeric suffix until the slug is free.
func (s *Service) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := Slugify(title)
	if base == "" {
		return "", fmt.Errorf("%w: title yields an empty slug", ErrInvalid)
	}
	slug := base
	for i := 2; ; i++ {
		exists, err := s.repo.SlugExists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

// UpdatePost applies a partial update. A title change re-slugifies; a status
// change to PUBLISHED stamps the publication time.
func (s *Service) UpdatePost(ctx context.Context, id int64, upd UpdatePost) (Post, error) {
	var slug *string
	if upd.Title != nil {
		if strings.TrimSpace(*upd.Title) == "" {
			return Post{}, fmt.Errorf("%w: title required", ErrInvalid)
		}
		newSlug, err := s.uniqueSlug(ctx, *upd.Title)
		if err != nil {
			return Post{}, err
		}
		slug = &newSlug
	}
	var publish *bool
	if upd.Status != nil {
		if *upd.Status != StatusDraft && *upd.Status != StatusPublished {
			return Post{}, fmt.Errorf("%w: status must be DRAFT or PUBLISHED", ErrInvalid)
		}
		isPublish := *upd.Status == StatusPublished
		publish = &isPublish
	}
	return s.repo.UpdatePost(ctx, id, upd, slug, publish)
}

// DeletePost removes a post.
func (s *Service) DeletePost(ctx context.Context, id int64) error {
	return s.repo.DeletePost(ctx, id)
}

// Categories lists blog categories.
func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	return s.repo.ListCategories(ctx)
}

// AddCategory validates and creates a category.
func (s *Service) AddCategory(ctx context.Context, name string) (Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Category{}, fmt.Errorf("%w: category name required", ErrInvalid)
	}
	return s.repo.CreateCategory(ctx, Category{Name: name, Slug: Slugify(name)})
}

// Comments lists a post's comments. approvedOnly hides pending ones.
func (s *Service) Comments(ctx context.Context, postID int64, approvedOnly bool) ([]Comment, error) {
	return s.repo.ListComments(ctx, postID, approvedOnly)
}

// AddComment files a pending comment against a published post.
func (s *Service) AddComment(ctx context.Context, c Comment) (Comment, error) {
	if strings.TrimSpace(c.AuthorName) == "" || strings.TrimSpace(c.Body) == "" {
		return Comment{}, fmt.Errorf("%w: author name and body required", ErrInvalid)
	}
	post, err := s.repo.GetPost(ctx, c.PostID)
	if err != nil {
		return Comment{}, err
	}
	if post.Status != StatusPublished {
		return Comment{}, ErrNotFound
	}
	return s.repo.CreateComment(ctx, c)
}

// ApproveComment publishes a pending comment.
func (s *Service) ApproveComment(ctx context.Context, id int64) error {
	return s.repo.ApproveComment(ctx, id)
}

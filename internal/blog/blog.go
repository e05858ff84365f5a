// Package blog implements the content module: posts, categories, tags and
// comments, with slug-addressed public reads.
package blog

import (
	"errors"
	"time"
)

// Post statuses.
const (
	StatusDraft     = "DRAFT"
	StatusPublished = "PUBLISHED"
)

// Post is a blog article.
type Post struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     string     `json:"excerpt,omitempty"`
	Body        string     `json:"body"`
	CategoryID  int64      `json:"categoryId"`
	AuthorID    int64      `json:"authorId"`
	Status      string     `json:"status"`
	Tags        []string   `json:"tags,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// UpdatePost carries the mutable post fields; nil leaves a field unchanged.
type UpdatePost struct {
	Title      *string   `json:"title"`
	Excerpt    *string   `json:"excerpt"`
	Body       *string   `json:"body"`
	CategoryID *int64    `json:"categoryId"`
	Status     *string   `json:"status"`
	Tags       *[]string `json:"tags"`
}

// Category groups posts.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Tag labels posts.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Comment is a reader comment on a published post. Comments are held until
// approved.
type Comment struct {
	ID         int64     `json:"id"`
	PostID     int64     `json:"postId"`
	AuthorName string    `json:"authorName"`
	Email      string    `json:"email,omitempty"`
	Body       string    `json:"body"`
	IsApproved bool      `json:"isApproved"`
	CreatedAt  time.Time `json:"createdAt"`
}

var (
	ErrNotFound  = errors.New("blog: not found")
	ErrDuplicate = errors.New("blog: duplicate")
	ErrInvalid   = errors.New("blog: invalid")
)

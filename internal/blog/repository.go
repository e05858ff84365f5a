package blog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saral-hq/saral/internal/shared"
)

// Repository persists blog content with raw SQL over pgx.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

const selectPost = `
	SELECT id, title, slug, excerpt, body, category_id, author_id, status, published_at, created_at, updated_at
	FROM blog_posts`

func scanPost(row pgx.Row) (Post, error) {
	var p Post
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Body, &p.CategoryID, &p.AuthorID,
		&p.Status, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Post{}, ErrNotFound
	}
	return p, err
}

// GetPost loads one post by id, tags included.
func (r *Repository) GetPost(ctx context.Context, id int64) (Post, error) {
	p, err := scanPost(r.pool.QueryRow(ctx, selectPost+` WHERE id = $1`, id))
	if err != nil {
		return Post{}, err
	}
	p.Tags, err = r.postTags(ctx, p.ID)
	return p, err
}

// GetPostBySlug loads one post by slug, tags included.
func (r *Repository) GetPostBySlug(ctx context.Context, slug string) (Post, error) {
	p, err := scanPost(r.pool.QueryRow(ctx, selectPost+` WHERE slug = $1`, slug))
	if err != nil {
		return Post{}, err
	}
	p.Tags, err = r.postTags(ctx, p.ID)
	return p, err
}

func (r *Repository) postTags(ctx context.Context, postID int64) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT t.name FROM blog_tags t
		JOIN blog_post_tags pt ON pt.tag_id = t.id
		WHERE pt.post_id = $1 ORDER BY t.name`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tags = append(tags, name)
	}
	return tags, rows.Err()
}

// ListPosts returns posts matching the filters, newest first. When
// publishedOnly is set only published posts are returned.
func (r *Repository) ListPosts(ctx context.Context, f shared.ListFilters, categoryID int64, publishedOnly bool) ([]Post, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	if publishedOnly {
		args = append(args, StatusPublished)
		where += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if categoryID != 0 {
		args = append(args, categoryID)
		where += fmt.Sprintf(` AND category_id = $%d`, len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where += fmt.Sprintf(` AND (title ILIKE $%d OR body ILIKE $%d)`, len(args), len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM blog_posts`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	args = append(args, limit, f.Offset())
	rows, err := r.pool.Query(ctx,
		selectPost+where+fmt.Sprintf(` ORDER BY id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, p)
	}
	return posts, total, rows.Err()
}

// SlugExists reports whether a post already uses the slug.
func (r *Repository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM blog_posts WHERE slug = $1)`, slug).Scan(&exists)
	return exists, err
}

// CreatePost inserts a post and attaches its tags.
func (r *Repository) CreatePost(ctx context.Context, p Post) (Post, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Post{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		INSERT INTO blog_posts (title, slug, excerpt, body, category_id, author_id, status, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`,
		p.Title, p.Slug, p.Excerpt, p.Body, p.CategoryID, p.AuthorID, p.Status, p.PublishedAt).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if isUniqueViolation(err) {
		return Post{}, ErrDuplicate
	}
	if err != nil {
		return Post{}, err
	}
	if err := setPostTags(ctx, tx, p.ID, p.Tags); err != nil {
		return Post{}, err
	}
	return p, tx.Commit(ctx)
}

// UpdatePost applies the non-nil fields of upd and replaces tags when given.
func (r *Repository) UpdatePost(ctx context.Context, id int64, upd UpdatePost, slug *string, publish *bool) (Post, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Post{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	p, err := scanPost(tx.QueryRow(ctx, `
		UPDATE blog_posts SET
			title = COALESCE($2, title),
			slug = COALESCE($3, slug),
			excerpt = COALESCE($4, excerpt),
			body = COALESCE($5, body),
			category_id = COALESCE($6, category_id),
			status = COALESCE($7, status),
			published_at = CASE WHEN $8 THEN NOW() ELSE published_at END,
			updated_at = NOW()
		WHERE id = $1
		RETURNING id, title, slug, excerpt, body, category_id, author_id, status, published_at, created_at, updated_at`,
		id, upd.Title, slug, upd.Excerpt, upd.Body, upd.CategoryID, upd.Status, publish != nil && *publish))
	if isUniqueViolation(err) {
		return Post{}, ErrDuplicate
	}
	if err != nil {
		return Post{}, err
	}
	if upd.Tags != nil {
		if err := setPostTags(ctx, tx, p.ID, *upd.Tags); err != nil {
			return Post{}, err
		}
		p.Tags = *upd.Tags
	}
	return p, tx.Commit(ctx)
}

func setPostTags(ctx context.Context, tx pgx.Tx, postID int64, tags []string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM blog_post_tags WHERE post_id = $1`, postID); err != nil {
		return err
	}
	for _, name := range tags {
		var tagID int64
		err := tx.QueryRow(ctx, `
			INSERT INTO blog_tags (name, slug) VALUES ($1, $2)
			ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name
			RETURNING id`,
			name, Slugify(name)).Scan(&tagID)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO blog_post_tags (post_id, tag_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING`, postID, tagID); err != nil {
			return err
		}
	}
	return nil
}

// DeletePost removes a post.
func (r *Repository) DeletePost(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListCategories returns all categories.
func (r *Repository) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, slug FROM blog_categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CreateCategory inserts a category.
func (r *Repository) CreateCategory(ctx context.Context, c Category) (Category, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO blog_categories (name, slug) VALUES ($1, $2) RETURNING id`,
		c.Name, c.Slug).Scan(&c.ID)
	if isUniqueViolation(err) {
		return Category{}, ErrDuplicate
	}
	return c, err
}

// ListComments returns comments on a post, oldest first. When approvedOnly
// is set pending comments are hidden.
func (r *Repository) ListComments(ctx context.Context, postID int64, approvedOnly bool) ([]Comment, error) {
	query := `SELECT id, post_id, author_name, email, body, is_approved, created_at
		FROM blog_comments WHERE post_id = $1`
	if approvedOnly {
		query += ` AND is_approved`
	}
	rows, err := r.pool.Query(ctx, query+` ORDER BY id`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorName, &c.Email, &c.Body, &c.IsApproved, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CreateComment inserts a pending comment.
func (r *Repository) CreateComment(ctx context.Context, c Comment) (Comment, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO blog_comments (post_id, author_name, email, body, is_approved)
		VALUES ($1, $2, $3, $4, FALSE)
		RETURNING id, created_at`,
		c.PostID, c.AuthorName, c.Email, c.Body).Scan(&c.ID, &c.CreatedAt)
	return c, err
}

// ApproveComment publishes a pending comment.
func (r *Repository) ApproveComment(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE blog_comments SET is_approved = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

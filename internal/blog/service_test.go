package blog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saral-hq/saral/internal/shared"
)

// fakeRepo keeps posts and comments in memory.
type fakeRepo struct {
	nextID   int64
	posts    map[int64]Post
	comments map[int64]Comment
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{nextID: 1, posts: map[int64]Post{}, comments: map[int64]Comment{}}
}

func (f *fakeRepo) GetPost(_ context.Context, id int64) (Post, error) {
	p, ok := f.posts[id]
	if !ok {
		return Post{}, ErrNotFound
	}
	return p, nil
}

func (f *fakeRepo) GetPostBySlug(_ context.Context, slug string) (Post, error) {
	for _, p := range f.posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return Post{}, ErrNotFound
}

func (f *fakeRepo) ListPosts(_ context.Context, _ shared.ListFilters, _ int64, publishedOnly bool) ([]Post, int, error) {
	var out []Post
	for _, p := range f.posts {
		if publishedOnly && p.Status != StatusPublished {
			continue
		}
		out = append(out, p)
	}
	return out, len(out), nil
}

func (f *fakeRepo) SlugExists(_ context.Context, slug string) (bool, error) {
	for _, p := range f.posts {
		if p.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) CreatePost(_ context.Context, p Post) (Post, error) {
	p.ID = f.nextID
	f.nextID++
	f.posts[p.ID] = p
	return p, nil
}

func (f *fakeRepo) UpdatePost(_ context.Context, id int64, upd UpdatePost, slug *string, publish *bool) (Post, error) {
	p, ok := f.posts[id]
	if !ok {
		return Post{}, ErrNotFound
	}
	if upd.Title != nil {
		p.Title = *upd.Title
	}
	if upd.Body != nil {
		p.Body = *upd.Body
	}
	if slug != nil {
		p.Slug = *slug
	}
	if publish != nil {
		if *publish {
			p.Status = StatusPublished
			now := time.Now()
			p.PublishedAt = &now
		} else {
			p.Status = StatusDraft
		}
	}
	f.posts[id] = p
	return p, nil
}

func (f *fakeRepo) DeletePost(_ context.Context, id int64) error {
	if _, ok := f.posts[id]; !ok {
		return ErrNotFound
	}
	delete(f.posts, id)
	return nil
}

func (f *fakeRepo) ListCategories(_ context.Context) ([]Category, error) { return nil, nil }

func (f *fakeRepo) CreateCategory(_ context.Context, c Category) (Category, error) {
	c.ID = f.nextID
	f.nextID++
	return c, nil
}

func (f *fakeRepo) ListComments(_ context.Context, postID int64, approvedOnly bool) ([]Comment, error) {
	var out []Comment
	for _, c := range f.comments {
		if c.PostID != postID {
			continue
		}
		if approvedOnly && !c.IsApproved {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeRepo) CreateComment(_ context.Context, c Comment) (Comment, error) {
	c.ID = f.nextID
	f.nextID++
	f.comments[c.ID] = c
	return c, nil
}

func (f *fakeRepo) ApproveComment(_ context.Context, id int64) error {
	c, ok := f.comments[id]
	if !ok {
		return ErrNotFound
	}
	c.IsApproved = true
	f.comments[id] = c
	return nil
}

func TestCreatePostSlugifiesTitle(t *testing.T) {
	svc := NewService(newFakeRepo())

	p, err := svc.CreatePost(context.Background(), Post{Title: "Fiscal Year Closing", Body: "b"})
	require.NoError(t, err)
	assert.Equal(t, "fiscal-year-closing", p.Slug)
	assert.Equal(t, StatusDraft, p.Status)
	assert.Nil(t, p.PublishedAt)
}

func TestCreatePostSuffixesDuplicateSlugs(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	first, err := svc.CreatePost(ctx, Post{Title: "Monthly Report", Body: "b"})
	require.NoError(t, err)
	second, err := svc.CreatePost(ctx, Post{Title: "Monthly Report", Body: "b"})
	require.NoError(t, err)
	third, err := svc.CreatePost(ctx, Post{Title: "Monthly Report", Body: "b"})
	require.NoError(t, err)

	assert.Equal(t, "monthly-report", first.Slug)
	assert.Equal(t, "monthly-report-2", second.Slug)
	assert.Equal(t, "monthly-report-3", third.Slug)
}

func TestCreatePostPublishedStampsTime(t *testing.T) {
	svc := NewService(newFakeRepo())
	at := time.Date(2025, 4, 14, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return at }

	p, err := svc.CreatePost(context.Background(), Post{Title: "Launch", Body: "b", Status: StatusPublished})
	require.NoError(t, err)
	require.NotNil(t, p.PublishedAt)
	assert.Equal(t, at, *p.PublishedAt)
}

func TestCreatePostRejectsInvalid(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	_, err := svc.CreatePost(ctx, Post{Title: "  ", Body: "b"})
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = svc.CreatePost(ctx, Post{Title: "t", Body: ""})
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = svc.CreatePost(ctx, Post{Title: "t", Body: "b", Status: "ARCHIVED"})
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = svc.CreatePost(ctx, Post{Title: "!!!", Body: "b"})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestPostBySlugHidesDrafts(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	draft, err := svc.CreatePost(ctx, Post{Title: "Draft Post", Body: "b"})
	require.NoError(t, err)

	_, err = svc.PostBySlug(ctx, draft.Slug)
	assert.ErrorIs(t, err, ErrNotFound)

	published, err := svc.CreatePost(ctx, Post{Title: "Live Post", Body: "b", Status: StatusPublished})
	require.NoError(t, err)

	got, err := svc.PostBySlug(ctx, published.Slug)
	require.NoError(t, err)
	assert.Equal(t, published.ID, got.ID)
}

func TestAddCommentRequiresPublishedPost(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	draft, err := svc.CreatePost(ctx, Post{Title: "Pending", Body: "b"})
	require.NoError(t, err)

	_, err = svc.AddComment(ctx, Comment{PostID: draft.ID, AuthorName: "Ram", Body: "nice"})
	assert.ErrorIs(t, err, ErrNotFound)

	live, err := svc.CreatePost(ctx, Post{Title: "Live", Body: "b", Status: StatusPublished})
	require.NoError(t, err)

	c, err := svc.AddComment(ctx, Comment{PostID: live.ID, AuthorName: "Ram", Body: "nice"})
	require.NoError(t, err)
	assert.False(t, c.IsApproved)

	_, err = svc.AddComment(ctx, Comment{PostID: live.ID, AuthorName: "", Body: "nice"})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestApproveCommentShowsItPublicly(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	live, err := svc.CreatePost(ctx, Post{Title: "Live", Body: "b", Status: StatusPublished})
	require.NoError(t, err)
	c, err := svc.AddComment(ctx, Comment{PostID: live.ID, AuthorName: "Ram", Body: "nice"})
	require.NoError(t, err)

	visible, err := svc.Comments(ctx, live.ID, true)
	require.NoError(t, err)
	assert.Empty(t, visible)

	require.NoError(t, svc.ApproveComment(ctx, c.ID))

	visible, err = svc.Comments(ctx, live.ID, true)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, c.ID, visible[0].ID)
}

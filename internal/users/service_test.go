package users

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/saral-hq/saral/internal/shared"
	"github.com/saral-hq/saral/jobs"
)

type storedToken struct {
	userID    int64
	purpose   string
	expiresAt time.Time
}

// fakeRepo keeps users and tokens in memory.
type fakeRepo struct {
	nextID int64
	users  map[int64]User
	tokens map[string]storedToken
	now    func() time.Time
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{nextID: 1, users: map[int64]User{}, tokens: map[string]storedToken{}, now: time.Now}
}

func (f *fakeRepo) Get(_ context.Context, id int64) (User, error) {
	u, ok := f.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (f *fakeRepo) GetByEmail(_ context.Context, email string) (User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (f *fakeRepo) List(_ context.Context, _ shared.ListFilters) ([]User, int, error) {
	var out []User
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, len(out), nil
}

func (f *fakeRepo) Create(_ context.Context, u User) (User, error) {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return User{}, ErrDuplicate
		}
	}
	u.ID = f.nextID
	f.nextID++
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeRepo) Update(_ context.Context, id int64, upd UpdateUser) (User, error) {
	u, ok := f.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	if upd.FullName != nil {
		u.FullName = *upd.FullName
	}
	if upd.IsActive != nil {
		u.IsActive = *upd.IsActive
	}
	f.users[id] = u
	return u, nil
}

func (f *fakeRepo) SetPassword(_ context.Context, id int64, hash string) error {
	u, ok := f.users[id]
	if !ok {
		return ErrNotFound
	}
	u.PasswordHash = hash
	f.users[id] = u
	return nil
}

func (f *fakeRepo) MarkEmailVerified(_ context.Context, id int64) error {
	u, ok := f.users[id]
	if !ok {
		return ErrNotFound
	}
	u.EmailVerified = true
	f.users[id] = u
	return nil
}

func (f *fakeRepo) SaveToken(_ context.Context, userID int64, purpose, token string, expiresAt time.Time) error {
	f.tokens[token] = storedToken{userID: userID, purpose: purpose, expiresAt: expiresAt}
	return nil
}

func (f *fakeRepo) ConsumeToken(_ context.Context, purpose, token string) (int64, error) {
	st, ok := f.tokens[token]
	if !ok || st.purpose != purpose || st.expiresAt.Before(f.now()) {
		return 0, ErrTokenExpired
	}
	delete(f.tokens, token)
	return st.userID, nil
}

// fakeMail records enqueued payloads.
type fakeMail struct {
	sent []jobs.MailPayload
}

func (f *fakeMail) EnqueueMail(_ context.Context, p jobs.MailPayload) error {
	f.sent = append(f.sent, p)
	return nil
}

func newTestService(repo *fakeRepo, mail *fakeMail) *Service {
	logger := slog.New(slog.DiscardHandler)
	if mail == nil {
		return NewService(logger, repo, nil)
	}
	return NewService(logger, repo, mail)
}

func TestCreateHashesPasswordAndSendsVerification(t *testing.T) {
	repo := newFakeRepo()
	mail := &fakeMail{}
	svc := newTestService(repo, mail)

	u, err := svc.Create(context.Background(), " Admin@Example.com ", " Admin ", "s3cret-pass")
	require.NoError(t, err)

	assert.Equal(t, "admin@example.com", u.Email)
	assert.Equal(t, "Admin", u.FullName)
	assert.True(t, u.IsActive)
	assert.NotEqual(t, "s3cret-pass", u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret-pass")))

	require.Len(t, mail.sent, 1)
	assert.Equal(t, "admin@example.com", mail.sent[0].To)
	assert.Equal(t, "verify-email", mail.sent[0].Template)
	assert.NotEmpty(t, mail.sent[0].Context["token"])
}

func TestCreateRejectsInvalid(t *testing.T) {
	svc := newTestService(newFakeRepo(), nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, "", "x", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = svc.Create(ctx, "a@b.com", "x", "short")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	svc := newTestService(newFakeRepo(), nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, "a@b.com", "x", "s3cret-pass")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "A@B.com", "y", "s3cret-pass")
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestVerifyEmailConsumesToken(t *testing.T) {
	repo := newFakeRepo()
	mail := &fakeMail{}
	svc := newTestService(repo, mail)
	ctx := context.Background()

	u, err := svc.Create(ctx, "a@b.com", "x", "s3cret-pass")
	require.NoError(t, err)
	token := mail.sent[0].Context["token"].(string)

	require.NoError(t, svc.VerifyEmail(ctx, token))
	got, err := svc.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.EmailVerified)

	// single use
	assert.ErrorIs(t, svc.VerifyEmail(ctx, token), ErrTokenExpired)
}

func TestVerifyEmailRejectsExpiredToken(t *testing.T) {
	repo := newFakeRepo()
	mail := &fakeMail{}
	svc := newTestService(repo, mail)
	ctx := context.Background()

	_, err := svc.Create(ctx, "a@b.com", "x", "s3cret-pass")
	require.NoError(t, err)
	token := mail.sent[0].Context["token"].(string)

	repo.now = func() time.Time { return time.Now().Add(25 * time.Hour) }
	assert.ErrorIs(t, svc.VerifyEmail(ctx, token), ErrTokenExpired)
}

func TestPasswordResetFlow(t *testing.T) {
	repo := newFakeRepo()
	mail := &fakeMail{}
	svc := newTestService(repo, mail)
	ctx := context.Background()

	_, err := svc.Create(ctx, "a@b.com", "x", "old-password")
	require.NoError(t, err)
	mail.sent = nil

	require.NoError(t, svc.RequestPasswordReset(ctx, "a@b.com"))
	require.Len(t, mail.sent, 1)
	assert.Equal(t, "reset-password", mail.sent[0].Template)
	token := mail.sent[0].Context["token"].(string)

	require.NoError(t, svc.ResetPassword(ctx, token, "new-password"))

	_, err = svc.Authenticate(ctx, "a@b.com", "old-password")
	assert.ErrorIs(t, err, ErrNotFound)
	u, err := svc.Authenticate(ctx, "a@b.com", "new-password")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", u.Email)
}

func TestRequestPasswordResetIgnoresUnknownEmail(t *testing.T) {
	mail := &fakeMail{}
	svc := newTestService(newFakeRepo(), mail)

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "ghost@b.com"))
	assert.Empty(t, mail.sent)
}

func TestResetPasswordRejectsShortPassword(t *testing.T) {
	svc := newTestService(newFakeRepo(), nil)
	err := svc.ResetPassword(context.Background(), "whatever", "short")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestAuthenticate(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)
	ctx := context.Background()

	u, err := svc.Create(ctx, "a@b.com", "x", "s3cret-pass")
	require.NoError(t, err)

	got, err := svc.Authenticate(ctx, "A@B.com ", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.Authenticate(ctx, "a@b.com", "wrong-pass")
	assert.ErrorIs(t, err, ErrNotFound)

	inactive := false
	_, err = svc.Update(ctx, u.ID, UpdateUser{IsActive: &inactive})
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, "a@b.com", "s3cret-pass")
	assert.ErrorIs(t, err, ErrNotFound)
}

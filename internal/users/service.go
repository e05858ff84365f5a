package users

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/saral-hq/saral/internal/shared"
	"github.com/saral-hq/saral/jobs"
)

const tokenTTL = 24 * time.Hour

// RepositoryPort describes repository operations used by Service.
type RepositoryPort interface {
	Get(ctx context.Context, id int64) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	List(ctx context.Context, f shared.ListFilters) ([]User, int, error)
	Create(ctx context.Context, u User) (User, error)
	Update(ctx context.Context, id int64, upd UpdateUser) (User, error)
	SetPassword(ctx context.Context, id int64, hash string) error
	MarkEmailVerified(ctx context.Context, id int64) error
	SaveToken(ctx context.Context, userID int64, purpose, token string, expiresAt time.Time) error
	ConsumeToken(ctx context.Context, purpose, token string) (int64, error)
}

// MailPort enqueues outbound email.
type MailPort interface {
	EnqueueMail(ctx context.Context, p jobs.MailPayload) error
}

// Service exposes account management operations.
type Service struct {
	logger *slog.Logger
	repo   RepositoryPort
	mail   MailPort
	now    func() time.Time
}

// NewService constructs the Service. mail may be nil when no queue is wired.
func NewService(logger *slog.Logger, repo RepositoryPort, mail MailPort) *Service {
	return &Service{logger: logger, repo: repo, mail: mail, now: time.Now}
}

// Get loads one user.
func (s *Service) Get(ctx context.Context, id int64) (User, error) {
	return s.repo.Get(ctx, id)
}

// List returns users matching the filters.
func (s *Service) List(ctx context.Context, f shared.ListFilters) ([]User, int, error) {
	return s.repo.List(ctx, f)
}

// Create registers a user with a hashed password and emails a verification
// link.
func (s *Service) Create(ctx context.Context, email, fullName, password string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return User{}, fmt.Errorf("%w: email required", ErrInvalid)
	}
	if len(password) < 8 {
		return User{}, fmt.Errorf("%w: password must be at least 8 characters", ErrInvalid)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("users: hash password: %w", err)
	}

	u, err := s.repo.Create(ctx, User{
		Email:        email,
		FullName:     strings.TrimSpace(fullName),
		PasswordHash: string(hash),
		IsActive:     true,
	})
	if err != nil {
		return User{}, err
	}

	s.sendToken(ctx, u, TokenVerifyEmail, "verify-email", "Verify your email")
	return u, nil
}

// Update applies a partial profile update.
func (s *Service) Update(ctx context.Context, id int64, upd UpdateUser) (User, error) {
	return s.repo.Update(ctx, id, upd)
}

// VerifyEmail consumes a verification token.
func (s *Service) VerifyEmail(ctx context.Context, token string) error {
	userID, err := s.repo.ConsumeToken(ctx, TokenVerifyEmail, token)
	if err != nil {
		return err
	}
	return s.repo.MarkEmailVerified(ctx, userID)
}

// RequestPasswordReset emails a reset link. Unknown emails are ignored so
// the endpoint does not leak which addresses exist.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	u, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if err == ErrNotFound {
			return nil
		}
		return err
	}
	s.sendToken(ctx, u, TokenResetPassword, "reset-password", "Reset your password")
	return nil
}

// ResetPassword consumes a reset token and stores the new password.
func (s *Service) ResetPassword(ctx context.Context, token, password string) error {
	if len(password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrInvalid)
	}
	userID, err := s.repo.ConsumeToken(ctx, TokenResetPassword, token)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("users: hash password: %w", err)
	}
	return s.repo.SetPassword(ctx, userID, string(hash))
}

// Authenticate checks credentials and returns the user on success.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	u, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return User{}, err
	}
	if !u.IsActive {
		return User{}, ErrNotFound
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (s *Service) sendToken(ctx context.Context, u User, purpose, template, subject string) {
	token := uuid.NewString()
	if err := s.repo.SaveToken(ctx, u.ID, purpose, token, s.now().Add(tokenTTL)); err != nil {
		s.logger.Error("save user token", slog.String("purpose", purpose), slog.Any("error", err))
		return
	}
	if s.mail == nil {
		return
	}
	err := s.mail.EnqueueMail(ctx, jobs.MailPayload{
		To:       u.Email,
		Subject:  subject,
		Template: template,
		Context:  map[string]any{"token": token, "fullName": u.FullName},
	})
	if err != nil {
		// queue failures never fail the request; the token can be re-sent
		s.logger.Warn("enqueue mail failed", slog.String("template", template), slog.Any("error", err))
	}
}

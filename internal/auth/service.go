package auth

import (
	"context"

	"github.com/saral-hq/saral/internal/users"
)

// TokenPair is returned by login and refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// UserPort is the account lookup surface auth depends on.
type UserPort interface {
	Authenticate(ctx context.Context, email, password string) (users.User, error)
	Get(ctx context.Context, id int64) (users.User, error)
}

// Service implements the login/refresh/logout flows.
type Service struct {
	users   UserPort
	issuer  *TokenIssuer
	refresh *RefreshStore
}

// NewService constructs the Service.
func NewService(users UserPort, issuer *TokenIssuer, refresh *RefreshStore) *Service {
	return &Service{users: users, issuer: issuer, refresh: refresh}
}

// Login checks credentials and issues a token pair.
func (s *Service) Login(ctx context.Context, email, password string) (TokenPair, error) {
	u, err := s.users.Authenticate(ctx, email, password)
	if err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}
	return s.issuePair(ctx, u)
}

// Refresh consumes a refresh token and issues a fresh pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	userID, err := s.refresh.Consume(ctx, refreshToken)
	if err != nil {
		return TokenPair{}, err
	}
	u, err := s.users.Get(ctx, userID)
	if err != nil || !u.IsActive {
		return TokenPair{}, ErrInvalidToken
	}
	return s.issuePair(ctx, u)
}

// Logout revokes a refresh token. Access tokens expire on their own.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	return s.refresh.Revoke(ctx, refreshToken)
}

func (s *Service) issuePair(ctx context.Context, u users.User) (TokenPair, error) {
	access, err := s.issuer.Issue(u.ID, u.Email, u.IsSuperuser)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.refresh.Issue(ctx, u.ID)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

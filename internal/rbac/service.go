package rbac

import (
	"context"
	"strings"
)

// RepositoryPort describes repository operations used by Service.
type RepositoryPort interface {
	ListRoles(ctx context.Context) ([]Role, error)
	GetRole(ctx context.Context, id int64) (Role, error)
	CreateRole(ctx context.Context, role Role) (Role, error)
	DeleteRole(ctx context.Context, id int64) error
	ListPermissions(ctx context.Context) ([]Permission, error)
	SetRolePermissions(ctx context.Context, roleID int64, codes []string) error
	AssignRole(ctx context.Context, userID, roleID int64) error
	RevokeRole(ctx context.Context, userID, roleID int64) error
	UserPermissions(ctx context.Context, userID int64) ([]string, bool, error)
}

// Service exposes role administration and permission checks.
type Service struct {
	repo RepositoryPort
}

// NewService constructs the Service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Roles lists all roles.
func (s *Service) Roles(ctx context.Context) ([]Role, error) {
	return s.repo.ListRoles(ctx)
}

// Role loads one role.
func (s *Service) Role(ctx context.Context, id int64) (Role, error) {
	return s.repo.GetRole(ctx, id)
}

// AddRole validates and creates a role.
func (s *Service) AddRole(ctx context.Context, role Role) (Role, error) {
	role.Name = strings.TrimSpace(role.Name)
	if role.Name == "" {
		return Role{}, ErrInvalid
	}
	created, err := s.repo.CreateRole(ctx, role)
	if err != nil {
		return Role{}, err
	}
	if len(role.Permissions) > 0 {
		if err := s.repo.SetRolePermissions(ctx, created.ID, role.Permissions); err != nil {
			return Role{}, err
		}
		created.Permissions = role.Permissions
	}
	return created, nil
}

// RemoveRole deletes a role.
func (s *Service) RemoveRole(ctx context.Context, id int64) error {
	return s.repo.DeleteRole(ctx, id)
}

// Permissions lists the permission catalogue.
func (s *Service) Permissions(ctx context.Context) ([]Permission, error) {
	return s.repo.ListPermissions(ctx)
}

// SetRolePermissions replaces a role's permission set.
func (s *Service) SetRolePermissions(ctx context.Context, roleID int64, codes []string) error {
	if _, err := s.repo.GetRole(ctx, roleID); err != nil {
		return err
	}
	return s.repo.SetRolePermissions(ctx, roleID, codes)
}

// Assign attaches a role to a user.
func (s *Service) Assign(ctx context.Context, userID, roleID int64) error {
	if _, err := s.repo.GetRole(ctx, roleID); err != nil {
		return err
	}
	return s.repo.AssignRole(ctx, userID, roleID)
}

// Revoke detaches a role from a user.
func (s *Service) Revoke(ctx context.Context, userID, roleID int64) error {
	return s.repo.RevokeRole(ctx, userID, roleID)
}

// HasPermission reports whether the user holds the capability code.
// Superusers hold every capability.
func (s *Service) HasPermission(ctx context.Context, userID int64, code string) (bool, error) {
	codes, super, err := s.repo.UserPermissions(ctx, userID)
	if err != nil {
		return false, err
	}
	if super {
		return true, nil
	}
	for _, c := range codes {
		if c == code {
			return true, nil
		}
	}
	return false, nil
}

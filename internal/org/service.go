package org

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// RepositoryPort describes repository operations used by Service.
type RepositoryPort interface {
	GetOrganization(ctx context.Context) (Organization, error)
	UpsertOrganization(ctx context.Context, o Organization) (Organization, error)
	ListSocialLinks(ctx context.Context, organizationID int64) ([]SocialLink, error)
	CreateSocialLink(ctx context.Context, l SocialLink) (SocialLink, error)
	DeleteSocialLink(ctx context.Context, id int64) error
	CurrentFiscalPeriod(ctx context.Context, at time.Time) (FiscalPeriod, error)
	ListFiscalPeriods(ctx context.Context) ([]FiscalPeriod, error)
	CreateFiscalPeriod(ctx context.Context, p FiscalPeriod) (FiscalPeriod, error)
	ListPaymentMethods(ctx context.Context, activeOnly bool) ([]PaymentMethod, error)
	CreatePaymentMethod(ctx context.Context, m PaymentMethod) (PaymentMethod, error)
	ListChargeTypes(ctx context.Context, activeOnly bool) ([]ChargeType, error)
	CreateChargeType(ctx context.Context, t ChargeType) (ChargeType, error)
}

// Service exposes organization configuration operations.
type Service struct {
	repo RepositoryPort
}

// NewService constructs the Service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Organization returns the organization profile.
func (s *Service) Organization(ctx context.Context) (Organization, error) {
	return s.repo.GetOrganization(ctx)
}

// SaveOrganization validates and persists the organization profile.
func (s *Service) SaveOrganization(ctx context.Context, o Organization) (Organization, error) {
	if strings.TrimSpace(o.Name) == "" {
		return Organization{}, fmt.Errorf("%w: name required", ErrInvalid)
	}
	if strings.TrimSpace(o.Email) == "" {
		return Organization{}, fmt.Errorf("%w: email required", ErrInvalid)
	}
	if o.DisplayName == "" {
		o.DisplayName = o.Name
	}
	return s.repo.UpsertOrganization(ctx, o)
}

// SocialLinks lists the organization's social links.
func (s *Service) SocialLinks(ctx context.Context, organizationID int64) ([]SocialLink, error) {
	return s.repo.ListSocialLinks(ctx, organizationID)
}

// AddSocialLink attaches a social link to the organization.
func (s *Service) AddSocialLink(ctx context.Context, l SocialLink) (SocialLink, error) {
	if strings.TrimSpace(l.Platform) == "" || strings.TrimSpace(l.Link) == "" {
		return SocialLink{}, fmt.Errorf("%w: platform and link required", ErrInvalid)
	}
	return s.repo.CreateSocialLink(ctx, l)
}

// RemoveSocialLink deletes a social link.
func (s *Service) RemoveSocialLink(ctx context.Context, id int64) error {
	return s.repo.DeleteSocialLink(ctx, id)
}

// CurrentFiscalPeriod resolves the fiscal period containing at.
func (s *Service) CurrentFiscalPeriod(ctx context.Context, at time.Time) (FiscalPeriod, error) {
	if at.IsZero() {
		at = time.Now()
	}
	return s.repo.CurrentFiscalPeriod(ctx, at)
}

// FiscalPeriods lists all fiscal periods.
func (s *Service) FiscalPeriods(ctx context.Context) ([]FiscalPeriod, error) {
	return s.repo.ListFiscalPeriods(ctx)
}

// AddFiscalPeriod validates and creates a fiscal period.
func (s *Service) AddFiscalPeriod(ctx context.Context, p FiscalPeriod) (FiscalPeriod, error) {
	if strings.TrimSpace(p.Code) == "" {
		return FiscalPeriod{}, fmt.Errorf("%w: fiscal period code required", ErrInvalid)
	}
	if !p.EndDate.After(p.StartDate) {
		return FiscalPeriod{}, fmt.Errorf("%w: fiscal period end must be after start", ErrInvalid)
	}
	return s.repo.CreateFiscalPeriod(ctx, p)
}

// PaymentMethods lists payment methods.
func (s *Service) PaymentMethods(ctx context.Context, activeOnly bool) ([]PaymentMethod, error) {
	return s.repo.ListPaymentMethods(ctx, activeOnly)
}

// AddPaymentMethod creates a payment method.
func (s *Service) AddPaymentMethod(ctx context.Context, m PaymentMethod) (PaymentMethod, error) {
	if strings.TrimSpace(m.Name) == "" {
		return PaymentMethod{}, fmt.Errorf("%w: payment method name required", ErrInvalid)
	}
	return s.repo.CreatePaymentMethod(ctx, m)
}

// ChargeTypes lists additional charge types.
func (s *Service) ChargeTypes(ctx context.Context, activeOnly bool) ([]ChargeType, error) {
	return s.repo.ListChargeTypes(ctx, activeOnly)
}

// AddChargeType creates an additional charge type.
func (s *Service) AddChargeType(ctx context.Context, t ChargeType) (ChargeType, error) {
	if strings.TrimSpace(t.Name) == "" {
		return ChargeType{}, fmt.Errorf("%w: charge type name required", ErrInvalid)
	}
	return s.repo.CreateChargeType(ctx, t)
}

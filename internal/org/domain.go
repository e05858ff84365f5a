package org

import (
	"errors"
	"time"
)

// Organization holds the single-row organization profile.
type Organization struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	DisplayName string    `json:"displayName"`
	Tagline     string    `json:"tagline"`
	WebsiteURL  string    `json:"websiteUrl"`
	Address     string    `json:"address"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SocialLink is a social media link attached to the organization.
type SocialLink struct {
	ID             int64  `json:"id"`
	OrganizationID int64  `json:"organizationId"`
	Platform       string `json:"platform"`
	Link           string `json:"link"`
}

// FiscalPeriod scopes sequential document numbering to an accounting window.
type FiscalPeriod struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	IsActive  bool      `json:"isActive"`
}

// Contains reports whether the given instant falls inside the period.
func (p FiscalPeriod) Contains(at time.Time) bool {
	return !at.Before(p.StartDate) && at.Before(p.EndDate)
}

// PaymentMethod is a configured way of paying a document.
type PaymentMethod struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
}

// ChargeType names an additional charge applied on top of document lines.
type ChargeType struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
}

var (
	// ErrNoFiscalPeriod indicates no fiscal period covers the requested date.
	ErrNoFiscalPeriod = errors.New("org: no fiscal period for date")
	// ErrNotFound indicates a missing record.
	ErrNotFound = errors.New("org: not found")
	// ErrInvalid indicates a malformed payload.
	ErrInvalid = errors.New("org: invalid")
)

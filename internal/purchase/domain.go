// Package purchase implements purchase and purchase-return documents: the
// monetary validation engine, fiscal-period-scoped numbering, and the atomic
// persistence pipeline that keeps stock counters in step with document lines.
package purchase

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/saral-hq/saral/internal/shared"
)

// DocType discriminates purchase documents from purchase returns.
type DocType string

const (
	DocTypePurchase DocType = "PURCHASE"
	DocTypeReturn   DocType = "RETURN"
)

// PayType is how a document is settled. CASH documents must be paid in full
// at creation; CREDIT documents may carry partial payment.
type PayType string

const (
	PayTypeCash   PayType = "CASH"
	PayTypeCredit PayType = "CREDIT"
)

// Document is a purchase or purchase-return header with its detail rows. All
// monetary fields are fixed-point with two fractional digits.
type Document struct {
	ID             int64           `json:"id"`
	DocType        DocType         `json:"docType"`
	SeqNo          int64           `json:"seqNo"`
	DocCode        string          `json:"docCode"`
	FiscalPeriodID int64           `json:"fiscalPeriodId"`
	SupplierID     int64           `json:"supplierId"`
	BillNo         string          `json:"billNo"`
	BillDate       time.Time       `json:"billDate"`
	RefDocID       *int64          `json:"refDocId,omitempty"`
	PayType        PayType         `json:"payType"`
	DiscountRate   decimal.Decimal `json:"discountRate"`
	TotalDiscount  decimal.Decimal `json:"totalDiscountAmount"`
	TaxRate        decimal.Decimal `json:"taxRate"`
	TotalTax       decimal.Decimal `json:"totalTaxAmount"`
	SubTotal       decimal.Decimal `json:"subTotal"`
	GrandTotal     decimal.Decimal `json:"grandTotal"`
	Note           string          `json:"note,omitempty"`
	CreatedBy      int64           `json:"createdBy"`
	CreatedAt      time.Time       `json:"createdAt"`

	Lines    []Line    `json:"lines"`
	Payments []Payment `json:"payments"`
	Charges  []Charge  `json:"charges,omitempty"`
}

// Line is one document detail row. Once created a line is immutable; returns
// create new lines referencing the original via RefLineID.
type Line struct {
	ID             int64           `json:"id"`
	DocumentID     int64           `json:"documentId"`
	ItemID         int64           `json:"itemId"`
	RefLineID      *int64          `json:"refLineId,omitempty"`
	Quantity       int64           `json:"quantity"`
	PurchaseCost   decimal.Decimal `json:"purchaseCost"`
	MinSaleCost    decimal.Decimal `json:"minSaleCost"`
	Discountable   bool            `json:"discountable"`
	DiscountRate   decimal.Decimal `json:"discountRate"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	Taxable        bool            `json:"taxable"`
	TaxRate        decimal.Decimal `json:"taxRate"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	GrossAmount    decimal.Decimal `json:"grossAmount"`
	NetAmount      decimal.Decimal `json:"netAmount"`
}

// TaxableBase is the post-discount amount tax is computed on.
func (l Line) TaxableBase() decimal.Decimal {
	return l.GrossAmount.Sub(l.DiscountAmount)
}

// Payment is one payment-method row settled against a document. ReceiptNo is
// assigned from its own fiscal-period sequence at persistence time.
type Payment struct {
	ID              int64           `json:"id"`
	DocumentID      int64           `json:"documentId"`
	PaymentMethodID int64           `json:"paymentMethodId"`
	Amount          decimal.Decimal `json:"amount"`
	ReceiptNo       string          `json:"receiptNo"`
}

// Charge is a named additional charge applied on top of line totals.
type Charge struct {
	ID           int64           `json:"id"`
	DocumentID   int64           `json:"documentId"`
	ChargeTypeID int64           `json:"chargeTypeId"`
	Amount       decimal.Decimal `json:"amount"`
}

// ListFilters narrows document listings.
type ListFilters struct {
	shared.ListFilters
	DocType    DocType
	SupplierID int64
}

var (
	// ErrNotFound indicates a missing document or line.
	ErrNotFound = errors.New("purchase: not found")
	// ErrLineMismatch indicates a return line referencing a line outside the
	// returned-against document.
	ErrLineMismatch = errors.New("purchase: referenced line does not belong to the original document")
)

package purchase

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ValidationError accumulates per-field messages so a client sees every
// inconsistency in one response instead of fixing them one at a time.
type ValidationError struct {
	fields map[string][]string
}

// NewValidationError returns an empty accumulator.
func NewValidationError() *ValidationError {
	return &ValidationError{fields: make(map[string][]string)}
}

// Add records a message against a field.
func (e *ValidationError) Add(field, format string, args ...any) {
	e.fields[field] = append(e.fields[field], fmt.Sprintf(format, args...))
}

// Empty reports whether no messages were recorded.
func (e *ValidationError) Empty() bool {
	return len(e.fields) == 0
}

// ErrOrNil returns the accumulator as an error, or nil when empty.
func (e *ValidationError) ErrOrNil() error {
	if e.Empty() {
		return nil
	}
	return e
}

// FieldErrors returns the accumulated field -> messages map.
func (e *ValidationError) FieldErrors() map[string][]string {
	return e.fields
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.fields))
	for k := range e.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString("purchase: validation failed:")
	for _, k := range keys {
		for _, msg := range e.fields[k] {
			b.WriteString(" ")
			b.WriteString(k)
			b.WriteString(": ")
			b.WriteString(msg)
			b.WriteString(";")
		}
	}
	return strings.TrimSuffix(b.String(), ";")
}

// round quantizes to two fractional digits, half away from zero.
func round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Validate recomputes every derived monetary figure of a candidate document
// from its line-level inputs and rejects the payload if any client-supplied
// figure disagrees. It is a pure function of the document: no clock, no
// store, no mutation. All comparisons are fixed-point at two decimals.
func Validate(doc Document) error {
	verr := NewValidationError()

	if doc.PayType != PayTypeCash && doc.PayType != PayTypeCredit {
		verr.Add("payType", "must be CASH or CREDIT")
	}
	if len(doc.Lines) == 0 {
		verr.Add("lines", "at least one line is required")
	}

	var (
		sumGross          = decimal.Zero
		sumNet            = decimal.Zero
		discountableGross = decimal.Zero
		taxableBase       = decimal.Zero
	)

	for i, ln := range doc.Lines {
		key := fmt.Sprintf("lines[%d]", i)

		if ln.Quantity <= 0 {
			verr.Add(key+".quantity", "must be a positive integer")
		}
		if ln.PurchaseCost.IsNegative() {
			verr.Add(key+".purchaseCost", "must not be negative")
		}

		wantGross := round(ln.PurchaseCost.Mul(decimal.NewFromInt(ln.Quantity)))
		if !ln.GrossAmount.Equal(wantGross) {
			verr.Add(key+".grossAmount", "must equal purchase cost times quantity, expected %s", wantGross)
		}

		if ln.Discountable {
			if !ln.DiscountRate.IsPositive() || !ln.DiscountAmount.IsPositive() {
				verr.Add(key+".discountAmount", "discountable line requires a positive discount rate and amount")
			} else {
				want := round(ln.GrossAmount.Mul(ln.DiscountRate).Div(hundred))
				if !ln.DiscountAmount.Equal(want) {
					verr.Add(key+".discountAmount", "must equal %s%% of gross amount, expected %s", ln.DiscountRate, want)
				}
			}
		} else if !ln.DiscountRate.IsZero() || !ln.DiscountAmount.IsZero() {
			verr.Add(key+".discountAmount", "non-discountable line must have zero discount rate and amount")
		}

		base := ln.TaxableBase()
		if ln.Taxable {
			if !ln.TaxRate.IsPositive() && !ln.TaxAmount.IsPositive() {
				verr.Add(key+".taxAmount", "taxable line requires a positive tax rate or amount")
			} else {
				want := round(base.Mul(ln.TaxRate).Div(hundred))
				if !ln.TaxAmount.Equal(want) {
					verr.Add(key+".taxAmount", "must equal %s%% of the post-discount amount, expected %s", ln.TaxRate, want)
				}
			}
		} else if !ln.TaxRate.IsZero() || !ln.TaxAmount.IsZero() {
			verr.Add(key+".taxAmount", "non-taxable line must have zero tax rate and amount")
		}

		wantNet := ln.GrossAmount.Sub(ln.DiscountAmount).Add(ln.TaxAmount)
		if !ln.NetAmount.Equal(wantNet) {
			verr.Add(key+".netAmount", "must equal gross minus discount plus tax, expected %s", wantNet)
		}

		sumGross = sumGross.Add(ln.GrossAmount)
		sumNet = sumNet.Add(ln.NetAmount)
		if ln.Discountable {
			discountableGross = discountableGross.Add(ln.GrossAmount)
		}
		if ln.Taxable {
			taxableBase = taxableBase.Add(base)
		}
	}

	wantTotalDiscount := round(discountableGross.Mul(doc.DiscountRate).Div(hundred))
	if !doc.TotalDiscount.Equal(wantTotalDiscount) {
		verr.Add("totalDiscountAmount", "must equal %s%% of discountable gross, expected %s", doc.DiscountRate, wantTotalDiscount)
	}

	wantTotalTax := round(taxableBase.Mul(doc.TaxRate).Div(hundred))
	if !doc.TotalTax.Equal(wantTotalTax) {
		verr.Add("totalTaxAmount", "must equal %s%% of the taxable post-discount amount, expected %s", doc.TaxRate, wantTotalTax)
	}

	if !doc.SubTotal.Equal(sumGross) {
		verr.Add("subTotal", "must equal the sum of line gross amounts, expected %s", sumGross)
	}

	chargeTotal := decimal.Zero
	for i, c := range doc.Charges {
		if !c.Amount.IsPositive() {
			verr.Add(fmt.Sprintf("charges[%d].amount", i), "must be positive")
		}
		chargeTotal = chargeTotal.Add(c.Amount)
	}

	wantGrand := sumNet.Add(chargeTotal)
	if !doc.GrandTotal.Equal(wantGrand) {
		verr.Add("grandTotal", "must equal the sum of line net amounts plus charges, expected %s", wantGrand)
	}

	paid := decimal.Zero
	for i, p := range doc.Payments {
		if !p.Amount.IsPositive() {
			verr.Add(fmt.Sprintf("payments[%d].amount", i), "must be positive")
		}
		paid = paid.Add(p.Amount)
	}
	switch doc.PayType {
	case PayTypeCash:
		if !round(paid).Equal(round(doc.GrandTotal)) {
			verr.Add("payments", "cash document must be paid in full, expected %s, got %s", round(doc.GrandTotal), round(paid))
		}
	case PayTypeCredit:
		if round(paid).GreaterThan(round(doc.GrandTotal)) {
			verr.Add("payments", "payments must not exceed the grand total %s, got %s", round(doc.GrandTotal), round(paid))
		}
	}

	return verr.ErrOrNil()
}

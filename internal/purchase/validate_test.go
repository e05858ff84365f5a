package purchase

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

// validLine is cost 100.00 x qty 2 with 10% line discount and 13% tax:
// gross 200.00, discount 20.00, tax 23.40 on 180.00, net 203.40.
func validLine(t *testing.T) Line {
	t.Helper()
	return Line{
		ItemID:         1,
		Quantity:       2,
		PurchaseCost:   dec(t, "100.00"),
		MinSaleCost:    dec(t, "110.00"),
		Discountable:   true,
		DiscountRate:   dec(t, "10"),
		DiscountAmount: dec(t, "20.00"),
		Taxable:        true,
		TaxRate:        dec(t, "13"),
		TaxAmount:      dec(t, "23.40"),
		GrossAmount:    dec(t, "200.00"),
		NetAmount:      dec(t, "203.40"),
	}
}

// validDocument carries two valid lines: sub total 400.00, grand total
// 406.80, paid in full as CASH.
func validDocument(t *testing.T) Document {
	t.Helper()
	return Document{
		SupplierID:    1,
		PayType:       PayTypeCash,
		DiscountRate:  decimal.Zero,
		TotalDiscount: decimal.Zero,
		TaxRate:       decimal.Zero,
		TotalTax:      decimal.Zero,
		SubTotal:      dec(t, "400.00"),
		GrandTotal:    dec(t, "406.80"),
		Lines:         []Line{validLine(t), validLine(t)},
		Payments:      []Payment{{PaymentMethodID: 1, Amount: dec(t, "406.80")}},
	}
}

func fieldErrors(t *testing.T, err error) map[string][]string {
	t.Helper()
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	return verr.FieldErrors()
}

func TestValidateAcceptsConsistentDocument(t *testing.T) {
	require.NoError(t, Validate(validDocument(t)))
}

func TestValidateRejectsWrongGrossAmount(t *testing.T) {
	doc := validDocument(t)
	doc.Lines[0].GrossAmount = dec(t, "199.00")

	fields := fieldErrors(t, Validate(doc))
	require.Contains(t, fields, "lines[0].grossAmount")
}

func TestValidateDiscountRules(t *testing.T) {
	t.Run("wrong amount", func(t *testing.T) {
		doc := validDocument(t)
		doc.Lines[0].DiscountAmount = dec(t, "19.00")
		// keep downstream fields consistent with the bogus discount
		doc.Lines[0].TaxAmount = dec(t, "23.53")
		doc.Lines[0].NetAmount = dec(t, "204.53")
		doc.SubTotal = dec(t, "400.00")
		doc.GrandTotal = dec(t, "407.93")
		doc.Payments[0].Amount = dec(t, "407.93")

		fields := fieldErrors(t, Validate(doc))
		require.Contains(t, fields, "lines[0].discountAmount")
		require.NotContains(t, fields, "lines[0].taxAmount")
	})

	t.Run("discountable requires positive rate and amount", func(t *testing.T) {
		doc := validDocument(t)
		doc.Lines[0].DiscountRate = decimal.Zero
		doc.Lines[0].DiscountAmount = decimal.Zero
		doc.Lines[0].TaxAmount = dec(t, "26.00")
		doc.Lines[0].NetAmount = dec(t, "226.00")
		doc.GrandTotal = dec(t, "429.40")
		doc.Payments[0].Amount = dec(t, "429.40")

		fields := fieldErrors(t, Validate(doc))
		require.Contains(t, fields, "lines[0].discountAmount")
	})

	t.Run("non-discountable must be zero", func(t *testing.T) {
		doc := validDocument(t)
		doc.Lines[0].Discountable = false

		fields := fieldErrors(t, Validate(doc))
		require.Contains(t, fields, "lines[0].discountAmount")
	})
}

func TestValidateTaxRules(t *testing.T) {
	t.Run("wrong amount", func(t *testing.T) {
		doc := validDocument(t)
		doc.Lines[0].TaxAmount = dec(t, "23.00")
		doc.Lines[0].NetAmount = dec(t, "203.00")
		doc.GrandTotal = dec(t, "406.40")
		doc.Payments[0].Amount = dec(t, "406.40")

		fields := fieldErrors(t, Validate(doc))
		require.Contains(t, fields, "lines[0].taxAmount")
		require.NotContains(t, fields, "lines[0].netAmount")
	})

	t.Run("non-taxable must be zero", func(t *testing.T) {
		doc := validDocument(t)
		doc.Lines[0].Taxable = false

		fields := fieldErrors(t, Validate(doc))
		require.Contains(t, fields, "lines[0].taxAmount")
	})
}

func TestValidateRejectsWrongNetAmount(t *testing.T) {
	doc := validDocument(t)
	doc.Lines[1].NetAmount = dec(t, "200.00")
	doc.GrandTotal = dec(t, "403.40")
	doc.Payments[0].Amount = dec(t, "403.40")

	fields := fieldErrors(t, Validate(doc))
	require.Contains(t, fields, "lines[1].netAmount")
}

func TestValidateHeaderAggregation(t *testing.T) {
	t.Run("sub total", func(t *testing.T) {
		doc := validDocument(t)
		doc.SubTotal = dec(t, "399.00")

		fields := fieldErrors(t, Validate(doc))
		require.Contains(t, fields, "subTotal")
	})

	t.Run("grand total", func(t *testing.T) {
		doc := validDocument(t)
		doc.GrandTotal = dec(t, "400.00")
		doc.Payments[0].Amount = dec(t, "400.00")

		fields := fieldErrors(t, Validate(doc))
		require.Contains(t, fields, "grandTotal")
	})

	t.Run("header discount over discountable gross", func(t *testing.T) {
		doc := validDocument(t)
		doc.DiscountRate = dec(t, "5")
		// 5% of 400.00 discountable gross is 20.00, client says 15.00
		doc.TotalDiscount = dec(t, "15.00")

		fields := fieldErrors(t, Validate(doc))
		require.Contains(t, fields, "totalDiscountAmount")
	})

	t.Run("header tax over taxable base", func(t *testing.T) {
		doc := validDocument(t)
		doc.TaxRate = dec(t, "13")
		// 13% of 360.00 taxable base is 46.80, client says zero
		fields := fieldErrors(t, Validate(doc))
		require.Contains(t, fields, "totalTaxAmount")
	})

	t.Run("charges count toward grand total", func(t *testing.T) {
		doc := validDocument(t)
		doc.Charges = []Charge{{ChargeTypeID: 1, Amount: dec(t, "50.00")}}
		doc.GrandTotal = dec(t, "456.80")
		doc.Payments[0].Amount = dec(t, "456.80")
		require.NoError(t, Validate(doc))

		doc.GrandTotal = dec(t, "406.80")
		doc.Payments[0].Amount = dec(t, "406.80")
		fields := fieldErrors(t, Validate(doc))
		require.Contains(t, fields, "grandTotal")
	})
}

func TestValidatePaymentBalance(t *testing.T) {
	t.Run("cash must be exact", func(t *testing.T) {
		doc := validDocument(t)
		require.NoError(t, Validate(doc))

		doc.Payments[0].Amount = dec(t, "400.00")
		fields := fieldErrors(t, Validate(doc))
		require.Contains(t, fields, "payments")
	})

	t.Run("credit allows partial but not excess", func(t *testing.T) {
		doc := validDocument(t)
		doc.PayType = PayTypeCredit
		doc.Payments[0].Amount = dec(t, "300.00")
		require.NoError(t, Validate(doc))

		doc.Payments[0].Amount = dec(t, "500.00")
		fields := fieldErrors(t, Validate(doc))
		require.Contains(t, fields, "payments")
	})

	t.Run("cash split across methods", func(t *testing.T) {
		doc := validDocument(t)
		doc.Payments = []Payment{
			{PaymentMethodID: 1, Amount: dec(t, "200.00")},
			{PaymentMethodID: 2, Amount: dec(t, "206.80")},
		}
		require.NoError(t, Validate(doc))
	})
}

func TestValidateAccumulatesAllErrors(t *testing.T) {
	doc := validDocument(t)
	doc.Lines[0].GrossAmount = dec(t, "199.00")
	doc.Lines[1].TaxAmount = dec(t, "1.00")
	doc.SubTotal = dec(t, "1.00")

	fields := fieldErrors(t, Validate(doc))
	require.Contains(t, fields, "lines[0].grossAmount")
	require.Contains(t, fields, "lines[1].taxAmount")
	require.Contains(t, fields, "subTotal")
}

func TestValidateRejectsNonPositiveQuantity(t *testing.T) {
	doc := validDocument(t)
	doc.Lines[0].Quantity = 0

	fields := fieldErrors(t, Validate(doc))
	require.Contains(t, fields, "lines[0].quantity")
}

func TestValidateIsPure(t *testing.T) {
	good := validDocument(t)
	require.NoError(t, Validate(good))
	require.NoError(t, Validate(good))

	bad := validDocument(t)
	bad.SubTotal = dec(t, "1.00")
	first := fieldErrors(t, Validate(bad))
	second := fieldErrors(t, Validate(bad))
	require.Equal(t, first, second)
}

package purchase

import (
	"time"

	"github.com/shopspring/decimal"
)

type lineRequest struct {
	ItemID         int64           `json:"itemId"`
	RefLineID      *int64          `json:"refLineId"`
	Quantity       int64           `json:"quantity" validate:"required,gt=0"`
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

type paymentRequest struct {
	PaymentMethodID int64           `json:"paymentMethodId" validate:"required"`
	Amount          decimal.Decimal `json:"amount"`
}

type chargeRequest struct {
	ChargeTypeID int64           `json:"chargeTypeId" validate:"required"`
	Amount       decimal.Decimal `json:"amount"`
}

type createDocumentRequest struct {
	SupplierID    int64            `json:"supplierId"`
	BillNo        string           `json:"billNo"`
	BillDate      time.Time        `json:"billDate"`
	RefDocID      *int64           `json:"refDocId"`
	PayType       PayType          `json:"payType" validate:"required,oneof=CASH CREDIT"`
	DiscountRate  decimal.Decimal  `json:"discountRate"`
	TotalDiscount decimal.Decimal  `json:"totalDiscountAmount"`
	TaxRate       decimal.Decimal  `json:"taxRate"`
	TotalTax      decimal.Decimal  `json:"totalTaxAmount"`
	SubTotal      decimal.Decimal  `json:"subTotal"`
	GrandTotal    decimal.Decimal  `json:"grandTotal"`
	Note          string           `json:"note"`
	Lines         []lineRequest    `json:"lines" validate:"required,min=1,dive"`
	Payments      []paymentRequest `json:"payments" validate:"dive"`
	Charges       []chargeRequest  `json:"charges" validate:"dive"`
}

func (req createDocumentRequest) toDomain(actorID int64) Document {
	doc := Document{
		SupplierID:    req.SupplierID,
		BillNo:        req.BillNo,
		BillDate:      req.BillDate,
		RefDocID:      req.RefDocID,
		PayType:       req.PayType,
		DiscountRate:  req.DiscountRate,
		TotalDiscount: req.TotalDiscount,
		TaxRate:       req.TaxRate,
		TotalTax:      req.TotalTax,
		SubTotal:      req.SubTotal,
		GrandTotal:    req.GrandTotal,
		Note:          req.Note,
		CreatedBy:     actorID,
	}
	for _, ln := range req.Lines {
		doc.Lines = append(doc.Lines, Line{
			ItemID:         ln.ItemID,
			RefLineID:      ln.RefLineID,
			Quantity:       ln.Quantity,
			PurchaseCost:   ln.PurchaseCost,
			MinSaleCost:    ln.MinSaleCost,
			Discountable:   ln.Discountable,
			DiscountRate:   ln.DiscountRate,
			DiscountAmount: ln.DiscountAmount,
			Taxable:        ln.Taxable,
			TaxRate:        ln.TaxRate,
			TaxAmount:      ln.TaxAmount,
			GrossAmount:    ln.GrossAmount,
			NetAmount:      ln.NetAmount,
		})
	}
	for _, p := range req.Payments {
		doc.Payments = append(doc.Payments, Payment{
			PaymentMethodID: p.PaymentMethodID,
			Amount:          p.Amount,
		})
	}
	for _, c := range req.Charges {
		doc.Charges = append(doc.Charges, Charge{
			ChargeTypeID: c.ChargeTypeID,
			Amount:       c.Amount,
		})
	}
	return doc
}

package purchase

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/saral-hq/saral/internal/org"
	"github.com/saral-hq/saral/internal/shared"
	"github.com/saral-hq/saral/internal/stock"
)

// RepositoryPort describes the persistence operations used by Service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, tx TxRepository) error) error
	GetDocument(ctx context.Context, id int64) (Document, error)
	ListDocuments(ctx context.Context, f ListFilters) ([]Document, int, error)
}

// FiscalPort resolves the fiscal period covering an instant.
type FiscalPort interface {
	CurrentFiscalPeriod(ctx context.Context, at time.Time) (org.FiscalPeriod, error)
}

// AuditPort records audit trail entries after a successful write.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service orchestrates document creation: validation, numbering, persistence
// and stock ledger updates in one transaction.
type Service struct {
	logger *slog.Logger
	repo   RepositoryPort
	fiscal FiscalPort
	ledger *stock.Ledger
	audit  AuditPort
	now    func() time.Time
}

// NewService constructs the Service.
func NewService(logger *slog.Logger, repo RepositoryPort, fiscal FiscalPort, ledger *stock.Ledger, audit AuditPort) *Service {
	return &Service{
		logger: logger,
		repo:   repo,
		fiscal: fiscal,
		ledger: ledger,
		audit:  audit,
		now:    time.Now,
	}
}

// CreatePurchase validates and persists a purchase document. Validation runs
// before any write; the document, its lines, payments, charges and the stock
// counter increments commit together or not at all.
func (s *Service) CreatePurchase(ctx context.Context, doc Document) (Document, error) {
	doc.DocType = DocTypePurchase
	doc.RefDocID = nil
	for i := range doc.Lines {
		doc.Lines[i].RefLineID = nil
		if doc.Lines[i].ItemID == 0 {
			verr := NewValidationError()
			verr.Add(fmt.Sprintf("lines[%d].itemId", i), "is required")
			return Document{}, verr
		}
	}
	if err := Validate(doc); err != nil {
		return Document{}, err
	}

	period, err := s.currentPeriod(ctx)
	if err != nil {
		return Document{}, err
	}
	doc.FiscalPeriodID = period.ID

	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := s.persistHeader(ctx, tx, &doc, period.Code); err != nil {
			return err
		}
		for i := range doc.Lines {
			ln := &doc.Lines[i]
			ln.DocumentID = doc.ID
			if err := tx.InsertLine(ctx, ln); err != nil {
				return fmt.Errorf("purchase: insert line: %w", err)
			}
			if err := s.ledger.ApplyPurchaseLine(ctx, tx, ln.ItemID, ln.ID, ln.Quantity); err != nil {
				return err
			}
		}
		return s.persistPaymentsAndCharges(ctx, tx, &doc, period.Code)
	})
	if err != nil {
		return Document{}, err
	}

	s.recordAudit(ctx, doc, "purchase.create")
	return doc, nil
}

// CreateReturn validates and persists a purchase return. Every return line
// must reference a line of the original document; the referenced line's
// remaining quantity bounds the returnable quantity.
func (s *Service) CreateReturn(ctx context.Context, doc Document) (Document, error) {
	doc.DocType = DocTypeReturn

	verr := NewValidationError()
	if doc.RefDocID == nil {
		verr.Add("refDocId", "is required for a return")
	}
	for i := range doc.Lines {
		if doc.Lines[i].RefLineID == nil {
			verr.Add(fmt.Sprintf("lines[%d].refLineId", i), "is required for a return line")
		}
	}
	if !verr.Empty() {
		return Document{}, verr
	}
	if err := Validate(doc); err != nil {
		return Document{}, err
	}

	original, err := s.repo.GetDocument(ctx, *doc.RefDocID)
	if err != nil {
		return Document{}, err
	}
	if original.DocType != DocTypePurchase {
		verr := NewValidationError()
		verr.Add("refDocId", "must reference a purchase document")
		return Document{}, verr
	}
	// The return is billed against the original purchase.
	doc.SupplierID = original.SupplierID
	if doc.BillNo == "" {
		doc.BillNo = original.BillNo
	}
	if doc.BillDate.IsZero() {
		doc.BillDate = original.BillDate
	}

	period, err := s.currentPeriod(ctx)
	if err != nil {
		return Document{}, err
	}
	doc.FiscalPeriodID = period.ID

	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := s.persistHeader(ctx, tx, &doc, period.Code); err != nil {
			return err
		}
		for i := range doc.Lines {
			ln := &doc.Lines[i]
			orig, err := tx.GetLine(ctx, *ln.RefLineID)
			if err != nil {
				return fmt.Errorf("purchase: referenced line %d: %w", *ln.RefLineID, err)
			}
			if orig.DocumentID != original.ID {
				return ErrLineMismatch
			}
			ln.ItemID = orig.ItemID
			ln.DocumentID = doc.ID
			if err := tx.InsertLine(ctx, ln); err != nil {
				return fmt.Errorf("purchase: insert return line: %w", err)
			}
			if err := s.ledger.ApplyReturnLine(ctx, tx, orig.ItemID, orig.ID, ln.Quantity); err != nil {
				return err
			}
		}
		return s.persistPaymentsAndCharges(ctx, tx, &doc, period.Code)
	})
	if err != nil {
		return Document{}, err
	}

	s.recordAudit(ctx, doc, "purchase.return")
	return doc, nil
}

// Get loads one document with its detail rows.
func (s *Service) Get(ctx context.Context, id int64) (Document, error) {
	return s.repo.GetDocument(ctx, id)
}

// List returns document headers matching the filters.
func (s *Service) List(ctx context.Context, f ListFilters) ([]Document, int, error) {
	return s.repo.ListDocuments(ctx, f)
}

func (s *Service) currentPeriod(ctx context.Context) (org.FiscalPeriod, error) {
	period, err := s.fiscal.CurrentFiscalPeriod(ctx, s.now())
	if err != nil {
		verr := NewValidationError()
		verr.Add("fiscalPeriod", "no active fiscal period covers the current date")
		return org.FiscalPeriod{}, verr
	}
	return period, nil
}

func (s *Service) persistHeader(ctx context.Context, tx TxRepository, doc *Document, periodCode string) error {
	seq, err := tx.NextSequence(ctx, docSeqKind(doc.DocType), doc.FiscalPeriodID)
	if err != nil {
		return err
	}
	doc.SeqNo = seq
	doc.DocCode = FormatDocCode(doc.DocType, periodCode, seq)
	if err := tx.InsertDocument(ctx, doc); err != nil {
		return fmt.Errorf("purchase: insert document: %w", err)
	}
	return nil
}

func (s *Service) persistPaymentsAndCharges(ctx context.Context, tx TxRepository, doc *Document, periodCode string) error {
	for i := range doc.Payments {
		p := &doc.Payments[i]
		seq, err := tx.NextSequence(ctx, receiptSeqKind(doc.DocType), doc.FiscalPeriodID)
		if err != nil {
			return err
		}
		p.DocumentID = doc.ID
		p.ReceiptNo = FormatReceiptNo(doc.DocType, periodCode, seq)
		if err := tx.InsertPayment(ctx, p); err != nil {
			return fmt.Errorf("purchase: insert payment: %w", err)
		}
	}
	for i := range doc.Charges {
		c := &doc.Charges[i]
		c.DocumentID = doc.ID
		if err := tx.InsertCharge(ctx, c); err != nil {
			return fmt.Errorf("purchase: insert charge: %w", err)
		}
	}
	return nil
}

// recordAudit is best-effort after commit; a failed audit write never fails
// the already-persisted document.
func (s *Service) recordAudit(ctx context.Context, doc Document, action string) {
	if s.audit == nil {
		return
	}
	err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  doc.CreatedBy,
		Action:   action,
		Entity:   "purchase_document",
		EntityID: strconv.FormatInt(doc.ID, 10),
		Meta: map[string]any{
			"docCode":    doc.DocCode,
			"grandTotal": doc.GrandTotal.String(),
		},
	})
	if err != nil {
		s.logger.Warn("audit record failed", slog.String("action", action), slog.Any("error", err))
	}
}

package services

import (
	"context"
	"fmt"

	"github.com/diewo77/go-workshop/internal/models"
	"github.com/diewo77/go-workshop/internal/policy"
	"github.com/diewo77/go-workshop/internal/query"
	"github.com/diewo77/go-workshop/internal/rules"
	"github.com/diewo77/go-workshop/internal/store"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SystemActor signs audit entries written by scheduled jobs.
var SystemActor = &policy.Actor{ID: "system", Name: "System"}

type InvoiceService struct {
	base
	repo  *store.Repository[models.Invoice]
	cards *store.Repository[models.JobCard]
}

func NewInvoiceService(d Deps) *InvoiceService {
	b := newBase(d)
	return &InvoiceService{
		base:  b,
		repo:  store.NewRepository[models.Invoice](b.DB, store.Preload("Items", "position ASC")),
		cards: store.NewRepository[models.JobCard](b.DB, store.Preload("Parts", "position ASC")),
	}
}

// List returns the invoices matching f, newest first.
func (s *InvoiceService) List(ctx context.Context, actorID string, f query.Filter) ([]models.Invoice, error) {
	if _, err := s.Gate.Authorize(ctx, actorID, policy.ResourceInvoice, policy.ActionList); err != nil {
		return nil, err
	}
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return query.Invoices(items, f), nil
}

func (s *InvoiceService) Get(ctx context.Context, actorID, id string) (*models.Invoice, error) {
	if _, err := s.Gate.Authorize(ctx, actorID, policy.ResourceInvoice, policy.ActionView); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Generate bills a completed job card. The invoice insert and the card's move
// to invoiced commit together; a card can be invoiced once.
func (s *InvoiceService) Generate(ctx context.Context, actorID, cardID string) (*models.Invoice, error) {
	actor, err := s.Gate.Authorize(ctx, actorID, policy.ResourceInvoice, policy.ActionGenerate)
	if err != nil {
		return nil, s.done(models.ActionGenerateInvoice, nil, err)
	}

	var inv *models.Invoice
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		card, err := s.cards.WithTx(tx).Get(ctx, cardID)
		if err != nil {
			return err
		}
		now := s.now()
		if card.Status != models.JobCardCompleted {
			return fmt.Errorf("%w: job card %s is %s, want completed", models.ErrInvalidState, card.Number, card.Status)
		}
		n, err := s.Seq.Next(ctx, tx, store.InvoiceSequenceName(now))
		if err != nil {
			return err
		}
		inv, err = rules.BuildInvoice(*card, store.FormatInvoiceNumber(now.Year(), n), actor.ID, s.TaxRate, now)
		if err != nil {
			return err
		}
		inv.CreatedAt = now
		if _, err := s.repo.WithTx(tx).Insert(ctx, inv); err != nil {
			return err
		}
		if err := rules.MarkInvoiced(card); err != nil {
			return err
		}
		res := tx.Model(&models.JobCard{}).
			Where("id = ? AND status = ?", card.ID, models.JobCardCompleted).
			Update("status", card.Status)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: job card %s was invoiced concurrently", models.ErrInvalidState, card.Number)
		}
		details := fmt.Sprintf("Generated invoice %s for job card %s", inv.InvoiceNumber, card.Number)
		return s.record(ctx, tx, actor, models.ActionGenerateInvoice, models.EntityInvoice, inv.ID, details)
	})
	if err != nil {
		return nil, s.done(models.ActionGenerateInvoice, actor, err)
	}
	s.Metrics.InvoiceGenerated(inv.TotalAmount)
	_ = s.done(models.ActionGenerateInvoice, actor, nil, zap.String("invoice", inv.InvoiceNumber), zap.Float64("total", inv.TotalAmount))
	return inv, nil
}

// MarkPaid settles a pending or overdue invoice.
func (s *InvoiceService) MarkPaid(ctx context.Context, actorID, invoiceID string) (*models.Invoice, error) {
	actor, err := s.Gate.Authorize(ctx, actorID, policy.ResourceInvoice, policy.ActionUpdate)
	if err != nil {
		return nil, s.done(models.ActionUpdateInvoiceStatus, nil, err)
	}
	var inv *models.Invoice
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		inv, err = repo.Get(ctx, invoiceID)
		if err != nil {
			return err
		}
		if err := rules.MarkPaid(inv, s.now()); err != nil {
			return err
		}
		if _, err := repo.Update(ctx, inv.ID, map[string]any{"status": inv.Status, "paid_at": inv.PaidAt}); err != nil {
			return err
		}
		return s.record(ctx, tx, actor, models.ActionUpdateInvoiceStatus, models.EntityInvoice, inv.ID,
			fmt.Sprintf("Marked invoice %s as paid", inv.InvoiceNumber))
	})
	if err != nil {
		return nil, s.done(models.ActionUpdateInvoiceStatus, actor, err)
	}
	_ = s.done(models.ActionUpdateInvoiceStatus, actor, nil, zap.String("invoice", inv.InvoiceNumber))
	return inv, nil
}

// SweepOverdue flags every pending invoice past its due date as overdue and
// returns how many changed. It runs as the system actor.
func (s *InvoiceService) SweepOverdue(ctx context.Context) (int, error) {
	now := s.now()
	var marked int
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pending, err := s.repo.WithTx(tx).Find(ctx, func(db *gorm.DB) *gorm.DB {
			return db.Where("status = ? AND due_date < ?", models.InvoiceStatusPending, now)
		})
		if err != nil {
			return err
		}
		for i := range pending {
			inv := &pending[i]
			if !rules.MarkOverdue(inv, now) {
				continue
			}
			if _, err := s.repo.WithTx(tx).Update(ctx, inv.ID, map[string]any{"status": inv.Status}); err != nil {
				return err
			}
			if err := s.record(ctx, tx, SystemActor, models.ActionUpdateInvoiceStatus, models.EntityInvoice, inv.ID,
				fmt.Sprintf("Invoice %s is overdue", inv.InvoiceNumber)); err != nil {
				return err
			}
			marked++
		}
		return nil
	})
	if err != nil {
		return 0, s.done(models.ActionUpdateInvoiceStatus, SystemActor, err)
	}
	s.Metrics.Overdue(marked)
	if marked > 0 {
		s.Log.Info("overdue invoices flagged", zap.Int("count", marked))
	}
	return marked, nil
}

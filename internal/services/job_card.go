package services

import (
	"context"
	"fmt"
	"time"

	"github.com/diewo77/go-workshop/internal/models"
	"github.com/diewo77/go-workshop/internal/policy"
	"github.com/diewo77/go-workshop/internal/query"
	"github.com/diewo77/go-workshop/internal/rules"
	"github.com/diewo77/go-workshop/internal/store"
	"github.com/diewo77/go-workshop/validation"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PartRequest asks for Quantity units of a product on a job card.
type PartRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// JobCardInput is the caller-settable part of a new job card. Totals are
// always derived.
type JobCardInput struct {
	CustomerName        string        `json:"customer_name"`
	CustomerPhone       string        `json:"customer_phone"`
	VehicleNumber       string        `json:"vehicle_number"`
	VehicleModel        string        `json:"vehicle_model"`
	IssueDescription    string        `json:"issue_description"`
	Parts               []PartRequest `json:"parts_used"`
	ServicesProvided    []string      `json:"services_provided"`
	LaborCost           float64       `json:"labor_cost"`
	Notes               string        `json:"notes"`
	EstimatedCompletion *time.Time    `json:"estimated_completion"`
}

type JobCardService struct {
	base
	repo     *store.Repository[models.JobCard]
	products *store.Repository[models.Product]
}

func NewJobCardService(d Deps) *JobCardService {
	b := newBase(d)
	return &JobCardService{
		base:     b,
		repo:     store.NewRepository[models.JobCard](b.DB, store.Preload("Parts", "position ASC")),
		products: store.NewRepository[models.Product](b.DB),
	}
}

// List returns the job cards matching f, newest first.
func (s *JobCardService) List(ctx context.Context, actorID string, f query.Filter) ([]models.JobCard, error) {
	if _, err := s.Gate.Authorize(ctx, actorID, policy.ResourceJobCard, policy.ActionList); err != nil {
		return nil, err
	}
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return query.JobCards(items, f), nil
}

func (s *JobCardService) Get(ctx context.Context, actorID, id string) (*models.JobCard, error) {
	if _, err := s.Gate.Authorize(ctx, actorID, policy.ResourceJobCard, policy.ActionView); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// addParts resolves each request against the product table and adds it to card.
func (s *JobCardService) addParts(ctx context.Context, tx *gorm.DB, card *models.JobCard, reqs []PartRequest) error {
	products := s.products.WithTx(tx)
	for _, req := range reqs {
		p, err := products.Get(ctx, req.ProductID)
		if err != nil {
			return err
		}
		qty := req.Quantity
		if qty == 0 {
			qty = 1
		}
		if err := rules.AddPart(card, *p, qty); err != nil {
			return err
		}
	}
	return nil
}

// Create opens a new job card in pending status with a fresh JC number.
func (s *JobCardService) Create(ctx context.Context, actorID string, in JobCardInput) (*models.JobCard, error) {
	actor, err := s.Gate.Authorize(ctx, actorID, policy.ResourceJobCard, policy.ActionCreate)
	if err != nil {
		return nil, s.done(models.ActionCreateJobCard, nil, err)
	}
	if in.LaborCost < 0 {
		return nil, s.done(models.ActionCreateJobCard, actor, fmt.Errorf("%w: labor cost %.2f", models.ErrInvalidAmount, in.LaborCost))
	}
	v := make(validation.Violations)
	validation.Required("customer_name", in.CustomerName, v)
	validation.Required("vehicle_number", in.VehicleNumber, v)
	if err := v.Err(); err != nil {
		return nil, s.done(models.ActionCreateJobCard, actor, fmt.Errorf("%w: %w", models.ErrValidation, err))
	}

	card := &models.JobCard{
		CustomerName:        in.CustomerName,
		CustomerPhone:       in.CustomerPhone,
		VehicleNumber:       in.VehicleNumber,
		VehicleModel:        in.VehicleModel,
		IssueDescription:    in.IssueDescription,
		ServicesProvided:    in.ServicesProvided,
		LaborCost:           rules.RoundCents(in.LaborCost),
		Status:              models.JobCardPending,
		CreatedBy:           actor.ID,
		Notes:               in.Notes,
		EstimatedCompletion: in.EstimatedCompletion,
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.addParts(ctx, tx, card, in.Parts); err != nil {
			return err
		}
		if err := rules.Recalculate(card); err != nil {
			return err
		}
		n, err := s.Seq.Next(ctx, tx, store.SeqJobCard)
		if err != nil {
			return err
		}
		card.Number = store.FormatJobCardNumber(n)
		id, err := s.repo.WithTx(tx).Insert(ctx, card)
		if err != nil {
			return err
		}
		details := fmt.Sprintf("Created job card for %s - %s", card.CustomerName, card.VehicleNumber)
		return s.record(ctx, tx, actor, models.ActionCreateJobCard, models.EntityJobCard, id, details)
	})
	if err != nil {
		return nil, s.done(models.ActionCreateJobCard, actor, err)
	}
	_ = s.done(models.ActionCreateJobCard, actor, nil, zap.String("job_card", card.Number))
	return card, nil
}

// AddPart adds quantity units of productID to the card and recomputes its
// total. A zero quantity adds one unit.
func (s *JobCardService) AddPart(ctx context.Context, actorID, cardID, productID string, quantity int) (*models.JobCard, error) {
	return s.editParts(ctx, actorID, cardID, func(tx *gorm.DB, card *models.JobCard) (string, error) {
		if err := s.addParts(ctx, tx, card, []PartRequest{{ProductID: productID, Quantity: quantity}}); err != nil {
			return "", err
		}
		return fmt.Sprintf("Added part to job card %s", card.Number), nil
	})
}

// RemovePart drops the line for productID from the card.
func (s *JobCardService) RemovePart(ctx context.Context, actorID, cardID, productID string) (*models.JobCard, error) {
	return s.editParts(ctx, actorID, cardID, func(_ *gorm.DB, card *models.JobCard) (string, error) {
		if err := rules.RemovePart(card, productID); err != nil {
			return "", err
		}
		return fmt.Sprintf("Removed part from job card %s", card.Number), nil
	})
}

func (s *JobCardService) editParts(ctx context.Context, actorID, cardID string, edit func(*gorm.DB, *models.JobCard) (string, error)) (*models.JobCard, error) {
	actor, err := s.Gate.Authorize(ctx, actorID, policy.ResourceJobCard, policy.ActionUpdate)
	if err != nil {
		return nil, s.done(models.ActionUpdateJobCard, nil, err)
	}
	var card *models.JobCard
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		card, err = repo.Get(ctx, cardID)
		if err != nil {
			return err
		}
		details, err := edit(tx, card)
		if err != nil {
			return err
		}
		if err := store.ReplaceParts(ctx, tx, card); err != nil {
			return err
		}
		if _, err := repo.Update(ctx, card.ID, map[string]any{"total_amount": card.TotalAmount}); err != nil {
			return err
		}
		return s.record(ctx, tx, actor, models.ActionUpdateJobCard, models.EntityJobCard, card.ID, details)
	})
	if err != nil {
		return nil, s.done(models.ActionUpdateJobCard, actor, err)
	}
	_ = s.done(models.ActionUpdateJobCard, actor, nil, zap.String("job_card", card.Number))
	return card, nil
}

// Transition moves the card forward to status to. Invoiced is refused here:
// it is reached through InvoiceService.Generate only.
func (s *JobCardService) Transition(ctx context.Context, actorID, cardID string, to models.JobCardStatus) (*models.JobCard, error) {
	actor, err := s.Gate.Authorize(ctx, actorID, policy.ResourceJobCard, policy.ActionTransition)
	if err != nil {
		return nil, s.done(models.ActionUpdateJobCardStatus, nil, err)
	}
	var card *models.JobCard
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		card, err = repo.Get(ctx, cardID)
		if err != nil {
			return err
		}
		from := card.Status
		if err := rules.ApplyTransition(card, to, actor.ID, s.now()); err != nil {
			return err
		}
		res := tx.Model(&models.JobCard{}).
			Where("id = ? AND status = ?", card.ID, from).
			Updates(map[string]any{
				"status":            card.Status,
				"approved_by":       card.ApprovedBy,
				"actual_completion": card.ActualCompletion,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: job card %s changed concurrently", models.ErrInvalidState, card.Number)
		}
		return s.record(ctx, tx, actor, models.ActionUpdateJobCardStatus, models.EntityJobCard, card.ID,
			fmt.Sprintf("Changed job card status to %s", card.Status))
	})
	if err != nil {
		return nil, s.done(models.ActionUpdateJobCardStatus, actor, err)
	}
	_ = s.done(models.ActionUpdateJobCardStatus, actor, nil, zap.String("job_card", card.Number), zap.String("status", string(to)))
	return card, nil
}

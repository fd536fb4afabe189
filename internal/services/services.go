// Package services implements the workshop operations. Every mutation
// authorizes the actor, validates input, then writes its data and exactly one
// activity log entry in a single transaction.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/diewo77/go-workshop/auth"
	"github.com/diewo77/go-workshop/internal/audit"
	"github.com/diewo77/go-workshop/internal/metrics"
	"github.com/diewo77/go-workshop/internal/models"
	"github.com/diewo77/go-workshop/internal/policy"
	"github.com/diewo77/go-workshop/internal/rules"
	"github.com/diewo77/go-workshop/internal/store"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps bundles the collaborators shared by all services.
type Deps struct {
	DB      *gorm.DB
	Gate    *policy.Gate
	Audit   *audit.Logger
	Seq     store.Sequence
	Metrics *metrics.Metrics
	Log     *zap.Logger
	Now     func() time.Time
	TaxRate float64
}

func (d *Deps) defaults() {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Seq == nil {
		d.Seq = store.NewDBSequence(d.DB)
	}
	if d.Audit == nil {
		d.Audit = audit.New(d.DB, audit.WithClock(d.Now))
	}
	if d.TaxRate == 0 {
		d.TaxRate = rules.DefaultTaxRate
	}
}

type base struct {
	Deps
}

func newBase(d Deps) base {
	d.defaults()
	return base{Deps: d}
}

func (b *base) now() time.Time { return b.Now().UTC() }

// record appends the audit entry for a mutation performed by actor.
func (b *base) record(ctx context.Context, tx *gorm.DB, actor *policy.Actor, action models.Action, et models.EntityType, entityID, details string) error {
	_, err := b.Audit.Record(ctx, tx, audit.Entry{
		UserID:     actor.ID,
		UserName:   actor.Name,
		Action:     action,
		Details:    details,
		EntityType: et,
		EntityID:   entityID,
		IPAddress:  auth.ClientIPFromContext(ctx),
	})
	return err
}

// done reports the outcome of a mutation to metrics and the log and returns err.
func (b *base) done(action models.Action, actor *policy.Actor, err error, fields ...zap.Field) error {
	kind := ErrorKind(err)
	b.Metrics.Operation(string(action), kind)
	if actor != nil {
		fields = append(fields, zap.String("actor", actor.ID), zap.String("role", string(actor.Role)))
	}
	fields = append(fields, zap.String("action", string(action)))
	switch kind {
	case "ok":
		b.Log.Info("operation succeeded", fields...)
	case "internal":
		b.Log.Error("operation failed", append(fields, zap.Error(err))...)
	default:
		b.Log.Warn("operation rejected", append(fields, zap.String("kind", kind), zap.Error(err))...)
	}
	return err
}

// ErrorKind classifies err for metrics labels and logs.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, models.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, models.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, models.ErrValidation):
		return "validation"
	case errors.Is(err, models.ErrIllegalTransition):
		return "illegal_transition"
	case errors.Is(err, models.ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, models.ErrNotFound):
		return "not_found"
	}
	return "internal"
}

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/diewo77/go-workshop/internal/models"
	"gorm.io/gorm"
)

// Identified is implemented by every persisted entity.
type Identified interface {
	GetID() string
}

// Repository is the data-access contract for one entity type. It works on
// the root db or, through WithTx, on an open transaction.
type Repository[T any] struct {
	db      *gorm.DB
	order   string
	preload []preload
}

type preload struct {
	assoc string
	order string
}

// RepoOption configures a Repository.
type RepoOption func(*repoOptions)

type repoOptions struct {
	order   string
	preload []preload
}

// OrderBy sets the List ordering clause.
func OrderBy(clause string) RepoOption {
	return func(o *repoOptions) { o.order = clause }
}

// Preload loads assoc with every read, ordered by orderBy when not empty.
func Preload(assoc, orderBy string) RepoOption {
	return func(o *repoOptions) { o.preload = append(o.preload, preload{assoc: assoc, order: orderBy}) }
}

func NewRepository[T any](db *gorm.DB, opts ...RepoOption) *Repository[T] {
	o := repoOptions{order: "created_at DESC"}
	for _, fn := range opts {
		fn(&o)
	}
	return &Repository[T]{db: db, order: o.order, preload: o.preload}
}

// WithTx returns a copy bound to tx.
func (r *Repository[T]) WithTx(tx *gorm.DB) *Repository[T] {
	cp := *r
	cp.db = tx
	return &cp
}

func (r *Repository[T]) query(ctx context.Context) *gorm.DB {
	q := r.db.WithContext(ctx)
	for _, p := range r.preload {
		if p.order == "" {
			q = q.Preload(p.assoc)
			continue
		}
		order := p.order
		q = q.Preload(p.assoc, func(db *gorm.DB) *gorm.DB { return db.Order(order) })
	}
	return q
}

// List returns every record in the configured order.
func (r *Repository[T]) List(ctx context.Context) ([]T, error) {
	return r.Find(ctx, nil)
}

// Find lists records matching scope. A nil scope matches everything.
func (r *Repository[T]) Find(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]T, error) {
	q := r.query(ctx)
	if scope != nil {
		q = q.Scopes(scope)
	}
	if r.order != "" {
		q = q.Order(r.order)
	}
	var items []T
	if err := q.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list %T: %w", *new(T), err)
	}
	return items, nil
}

// Get loads one record by id. Missing records yield models.ErrNotFound.
func (r *Repository[T]) Get(ctx context.Context, id string) (*T, error) {
	var item T
	err := r.query(ctx).Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%T %s: %w", item, id, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Insert creates item, associations included, and returns its assigned id.
func (r *Repository[T]) Insert(ctx context.Context, item *T) (string, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return "", fmt.Errorf("insert %T: %w", item, err)
	}
	if ided, ok := any(item).(Identified); ok {
		return ided.GetID(), nil
	}
	return "", nil
}

// Update applies patch to the record with id. It reports whether a record matched.
func (r *Repository[T]) Update(ctx context.Context, id string, patch map[string]any) (bool, error) {
	res := r.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(patch)
	if res.Error != nil {
		return false, fmt.Errorf("update %T %s: %w", *new(T), id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Delete removes the record with id. It reports whether a record matched.
func (r *Repository[T]) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return false, fmt.Errorf("delete %T %s: %w", *new(T), id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Count returns the number of records matching scope.
func (r *Repository[T]) Count(ctx context.Context, scope func(*gorm.DB) *gorm.DB) (int64, error) {
	q := r.db.WithContext(ctx).Model(new(T))
	if scope != nil {
		q = q.Scopes(scope)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// ReplaceParts rewrites the part lines of card in position order.
func ReplaceParts(ctx context.Context, tx *gorm.DB, card *models.JobCard) error {
	tx = tx.WithContext(ctx)
	if err := tx.Where("job_card_id = ?", card.ID).Delete(&models.PartLine{}).Error; err != nil {
		return fmt.Errorf("clear parts of %s: %w", card.ID, err)
	}
	if len(card.Parts) == 0 {
		return nil
	}
	for i := range card.Parts {
		card.Parts[i].ID = 0
		card.Parts[i].JobCardID = card.ID
		card.Parts[i].Position = i
	}
	if err := tx.Create(&card.Parts).Error; err != nil {
		return fmt.Errorf("write parts of %s: %w", card.ID, err)
	}
	return nil
}

// ByStatus scopes a query to status.
func ByStatus(status string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB { return db.Where("status = ?", status) }
}

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Counter is a named monotonic counter row.
type Counter struct {
	Name  string `gorm:"primaryKey;size:64"`
	Value int64  `gorm:"not null;default:0"`
}

// Sequence hands out monotonically increasing numbers per name.
type Sequence interface {
	// Next returns the next value of name. Implementations backed by the
	// database take part in tx when it is non-nil.
	Next(ctx context.Context, tx *gorm.DB, name string) (int64, error)
}

// DBSequence keeps counters in the counters table. The increment runs inside
// the caller's transaction, so a rolled back operation does not consume a number.
type DBSequence struct {
	db *gorm.DB
}

func NewDBSequence(db *gorm.DB) *DBSequence {
	return &DBSequence{db: db}
}

func (s *DBSequence) Next(ctx context.Context, tx *gorm.DB, name string) (int64, error) {
	if tx == nil {
		tx = s.db
	}
	tx = tx.WithContext(ctx)
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&Counter{Name: name}).Error; err != nil {
		return 0, fmt.Errorf("init counter %s: %w", name, err)
	}
	if err := tx.Model(&Counter{}).Where("name = ?", name).
		UpdateColumn("value", gorm.Expr("value + ?", 1)).Error; err != nil {
		return 0, fmt.Errorf("increment counter %s: %w", name, err)
	}
	var c Counter
	if err := tx.Where("name = ?", name).First(&c).Error; err != nil {
		return 0, fmt.Errorf("read counter %s: %w", name, err)
	}
	return c.Value, nil
}

// RedisSequence keeps counters in Redis with INCR. Numbers consumed by a
// rolled back transaction are not returned, so gaps are possible.
type RedisSequence struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisSequence(rdb *redis.Client) *RedisSequence {
	return &RedisSequence{rdb: rdb, prefix: "workshop:seq:"}
}

func (s *RedisSequence) Next(ctx context.Context, _ *gorm.DB, name string) (int64, error) {
	n, err := s.rdb.Incr(ctx, s.prefix+name).Result()
	if err != nil {
		return 0, fmt.Errorf("redis incr %s: %w", name, err)
	}
	return n, nil
}

// Sequence names.
const (
	SeqJobCard = "job_card"
	seqInvoice = "invoice"
)

// InvoiceSequenceName returns the per-year invoice counter name.
func InvoiceSequenceName(t time.Time) string {
	return fmt.Sprintf("%s-%d", seqInvoice, t.Year())
}

// FormatInvoiceNumber renders INV-YYYY-NNNN.
func FormatInvoiceNumber(year int, n int64) string {
	return fmt.Sprintf("INV-%d-%04d", year, n)
}

// FormatJobCardNumber renders JC-NNNN.
func FormatJobCardNumber(n int64) string {
	return fmt.Sprintf("JC-%04d", n)
}

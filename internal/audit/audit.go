// Package audit appends activity log entries and reads them back scoped to
// the viewer's role.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/diewo77/go-workshop/internal/models"
	"github.com/diewo77/go-workshop/internal/policy"
	"gorm.io/gorm"
)

// DefaultWindow is how far back non-owner viewers can see.
const DefaultWindow = 48 * time.Hour

// Entry describes one mutation to record. Timestamp and ID are assigned by Record.
type Entry struct {
	UserID     string
	UserName   string
	Action     models.Action
	Details    string
	EntityType models.EntityType
	EntityID   string
	IPAddress  string
}

// Logger writes and reads the activity log.
type Logger struct {
	db     *gorm.DB
	now    func() time.Time
	window time.Duration
}

// Option configures a Logger.
type Option func(*Logger)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(l *Logger) { l.now = now }
}

// WithWindow overrides the visibility window for restricted viewers.
func WithWindow(d time.Duration) Option {
	return func(l *Logger) {
		if d > 0 {
			l.window = d
		}
	}
}

func New(db *gorm.DB, opts ...Option) *Logger {
	l := &Logger{db: db, now: time.Now, window: DefaultWindow}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Now returns the logger clock reading in UTC.
func (l *Logger) Now() time.Time { return l.now().UTC() }

// Record appends e using tx, so the entry commits or rolls back with the
// caller's data writes. A nil tx writes directly.
func (l *Logger) Record(ctx context.Context, tx *gorm.DB, e Entry) (*models.ActivityLog, error) {
	if tx == nil {
		tx = l.db
	}
	entry := &models.ActivityLog{
		UserID:     e.UserID,
		UserName:   e.UserName,
		Action:     e.Action,
		Details:    e.Details,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		IPAddress:  e.IPAddress,
		Timestamp:  l.Now(),
	}
	if err := tx.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, fmt.Errorf("record %s: %w", e.Action, err)
	}
	return entry, nil
}

// Query returns the entries visible to viewer, most recent first.
// Roles holding activity_log:view_all see everything; others see entries
// newer than now minus the window.
func (l *Logger) Query(ctx context.Context, viewer models.Role, now time.Time) ([]models.ActivityLog, error) {
	q := l.db.WithContext(ctx).Model(&models.ActivityLog{})
	if !policy.RoleCan(viewer, policy.ResourceActivityLog, policy.ActionViewAll) {
		q = q.Where("logged_at >= ?", l.Cutoff(now))
	}
	var logs []models.ActivityLog
	if err := q.Order("logged_at DESC").Order("id DESC").Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("query activity log: %w", err)
	}
	return logs, nil
}

// Cutoff is the oldest timestamp a restricted viewer can see at now.
func (l *Logger) Cutoff(now time.Time) time.Time {
	return now.UTC().Add(-l.window)
}

// Package models holds the workshop entities persisted through gorm.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base carries the identity and timestamps shared by the mutable entities.
// IDs are assigned by the data-access layer, never by callers.
type Base struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID when the record has none yet.
func (b *Base) BeforeCreate(_ *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// GetID returns the primary key.
func (b *Base) GetID() string {
	return b.ID
}

// EntityType names the kind of record an activity log entry refers to.
type EntityType string

const (
	EntityProduct EntityType = "product"
	EntityJobCard EntityType = "job_card"
	EntityInvoice EntityType = "invoice"
	EntityUser    EntityType = "user"
)

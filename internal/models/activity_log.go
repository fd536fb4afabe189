package models

import (
	"strconv"
	"time"
)

// Action is the audit taxonomy tag of a mutating operation.
type Action string

const (
	ActionAddProduct          Action = "ADD_PRODUCT"
	ActionUpdateProduct       Action = "UPDATE_PRODUCT"
	ActionDeleteProduct       Action = "DELETE_PRODUCT"
	ActionCreateJobCard       Action = "CREATE_JOB_CARD"
	ActionUpdateJobCard       Action = "UPDATE_JOB_CARD"
	ActionUpdateJobCardStatus Action = "UPDATE_JOB_CARD_STATUS"
	ActionGenerateInvoice     Action = "GENERATE_INVOICE"
	ActionUpdateInvoiceStatus Action = "UPDATE_INVOICE_STATUS"
	ActionAddUser             Action = "ADD_USER"
	ActionUpdateUser          Action = "UPDATE_USER"
)

// ActivityLog is an append-only audit entry. Entries are never updated or deleted.
// ID grows with insertion order and breaks ties between equal timestamps.
type ActivityLog struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     string     `gorm:"size:36;index" json:"user_id"`
	UserName   string     `gorm:"size:255" json:"user_name"`
	Action     Action     `gorm:"size:50;not null;index" json:"action"`
	Details    string     `gorm:"type:text" json:"details"`
	EntityType EntityType `gorm:"size:20;not null" json:"entity_type"`
	EntityID   string     `gorm:"size:36" json:"entity_id,omitempty"`
	IPAddress  string     `gorm:"size:45" json:"ip_address,omitempty"`
	Timestamp  time.Time  `gorm:"column:logged_at;not null;index" json:"timestamp"`
}

// GetID returns the primary key in string form.
func (l *ActivityLog) GetID() string {
	return strconv.FormatUint(uint64(l.ID), 10)
}

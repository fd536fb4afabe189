package models

import "time"

// InvoiceStatus represents the payment status of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
)

// Valid reports whether s is a known invoice status.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPaid, InvoiceStatusOverdue:
		return true
	}
	return false
}

// Invoice is a billable snapshot of a completed job card.
// Customer and vehicle fields are copied at generation time and do not follow
// later job card edits. Subtotal, TaxAmount and TotalAmount are derived.
type Invoice struct {
	Base
	JobCardID     string        `gorm:"size:36;not null;uniqueIndex" json:"job_card_id"`
	InvoiceNumber string        `gorm:"size:50;not null;uniqueIndex" json:"invoice_number"`
	CustomerName  string        `gorm:"size:255" json:"customer_name"`
	CustomerPhone string        `gorm:"size:50" json:"customer_phone"`
	VehicleNumber string        `gorm:"size:50" json:"vehicle_number"`
	VehicleModel  string        `gorm:"size:100" json:"vehicle_model"`
	Items         []InvoiceItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items"`
	Subtotal      float64       `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	TaxRate       float64       `gorm:"type:decimal(5,4);not null" json:"tax_rate"`
	TaxAmount     float64       `gorm:"type:decimal(12,2);not null" json:"tax_amount"`
	TotalAmount   float64       `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	Status        InvoiceStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	DueDate       time.Time     `gorm:"not null;index" json:"due_date"`
	PaidAt        *time.Time    `json:"paid_at,omitempty"`
	GeneratedBy   string        `gorm:"size:36" json:"generated_by"`
}

// IsOverdue reports whether a pending invoice has passed its due date at now.
func (i *Invoice) IsOverdue(now time.Time) bool {
	return i.Status == InvoiceStatusPending && now.After(i.DueDate)
}

// InvoiceItem is one billed line.
type InvoiceItem struct {
	ID          uint    `gorm:"primaryKey" json:"-"`
	InvoiceID   string  `gorm:"size:36;index;not null" json:"-"`
	Position    int     `gorm:"default:0" json:"-"`
	Description string  `gorm:"size:500;not null" json:"description"`
	Quantity    int     `gorm:"not null;default:1" json:"quantity"`
	UnitPrice   float64 `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	TotalPrice  float64 `gorm:"type:decimal(12,2);not null" json:"total_price"`
}

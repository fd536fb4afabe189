package models

import "time"

// JobCardStatus is the lifecycle state of a repair order.
type JobCardStatus string

const (
	JobCardPending    JobCardStatus = "pending"
	JobCardInProgress JobCardStatus = "in_progress"
	JobCardCompleted  JobCardStatus = "completed"
	JobCardInvoiced   JobCardStatus = "invoiced"
)

// Rank orders statuses along the forward-only lifecycle. Unknown statuses rank -1.
func (s JobCardStatus) Rank() int {
	switch s {
	case JobCardPending:
		return 0
	case JobCardInProgress:
		return 1
	case JobCardCompleted:
		return 2
	case JobCardInvoiced:
		return 3
	}
	return -1
}

// Valid reports whether s is a known status.
func (s JobCardStatus) Valid() bool { return s.Rank() >= 0 }

// JobCard is a repair/service order for one customer vehicle.
// TotalAmount is derived from Parts and LaborCost and is never set by callers.
type JobCard struct {
	Base
	Number              string        `gorm:"size:20;uniqueIndex" json:"number"`
	CustomerName        string        `gorm:"size:255;not null;index" json:"customer_name"`
	CustomerPhone       string        `gorm:"size:50" json:"customer_phone"`
	VehicleNumber       string        `gorm:"size:50;not null;index" json:"vehicle_number"`
	VehicleModel        string        `gorm:"size:100" json:"vehicle_model"`
	IssueDescription    string        `gorm:"type:text" json:"issue_description"`
	Parts               []PartLine    `gorm:"foreignKey:JobCardID;constraint:OnDelete:CASCADE" json:"parts_used"`
	ServicesProvided    []string      `gorm:"serializer:json" json:"services_provided"`
	LaborCost           float64       `gorm:"type:decimal(12,2);not null;default:0" json:"labor_cost"`
	TotalAmount         float64       `gorm:"type:decimal(12,2);not null;default:0" json:"total_amount"`
	Status              JobCardStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	CreatedBy           string        `gorm:"size:36" json:"created_by"`
	ApprovedBy          string        `gorm:"size:36" json:"approved_by,omitempty"`
	Notes               string        `gorm:"type:text" json:"notes,omitempty"`
	EstimatedCompletion *time.Time    `json:"estimated_completion,omitempty"`
	ActualCompletion    *time.Time    `json:"actual_completion,omitempty"`
}

// IsInvoiced reports whether the card is closed for further changes.
func (c *JobCard) IsInvoiced() bool {
	return c.Status == JobCardInvoiced
}

// PartLine is one product used on a job card. TotalPrice = Quantity × UnitPrice.
type PartLine struct {
	ID          uint    `gorm:"primaryKey" json:"-"`
	JobCardID   string  `gorm:"size:36;index;not null" json:"-"`
	Position    int     `gorm:"default:0" json:"-"`
	ProductID   string  `gorm:"size:36;not null" json:"product_id"`
	ProductName string  `gorm:"size:255" json:"product_name"`
	Quantity    int     `gorm:"not null" json:"quantity"`
	UnitPrice   float64 `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	TotalPrice  float64 `gorm:"type:decimal(12,2);not null" json:"total_price"`
}

package models

import (
	"testing"
	"time"
)

func TestJobCardStatus_Rank(t *testing.T) {
	tests := []struct {
		status JobCardStatus
		want   int
	}{
		{JobCardPending, 0},
		{JobCardInProgress, 1},
		{JobCardCompleted, 2},
		{JobCardInvoiced, 3},
		{JobCardStatus("cancelled"), -1},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.Rank(); got != tt.want {
				t.Errorf("Rank() = %d, want %d", got, tt.want)
			}
			if got := tt.status.Valid(); got != (tt.want >= 0) {
				t.Errorf("Valid() = %v, want %v", got, tt.want >= 0)
			}
		})
	}
}

func TestRole_Valid(t *testing.T) {
	tests := []struct {
		role Role
		want bool
	}{
		{RoleOwner, true},
		{RoleAdmin, true},
		{RoleWorker, true},
		{Role("guest"), false},
		{Role(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			if got := tt.role.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProductType_Valid(t *testing.T) {
	for _, pt := range []ProductType{ProductTypePart, ProductTypeAccessory, ProductTypeService} {
		if !pt.Valid() {
			t.Errorf("%q should be valid", pt)
		}
	}
	if ProductType("tyre").Valid() {
		t.Error("unknown product type should be invalid")
	}
}

func TestStockStatus_Label(t *testing.T) {
	if got := StockOut.Label(); got != "Out of Stock" {
		t.Errorf("Label() = %q", got)
	}
	if got := StockLow.Label(); got != "Low Stock" {
		t.Errorf("Label() = %q", got)
	}
	if got := StockIn.Label(); got != "In Stock" {
		t.Errorf("Label() = %q", got)
	}
}

func TestInvoice_IsOverdue(t *testing.T) {
	due := time.Date(2024, 2, 19, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		status InvoiceStatus
		now    time.Time
		want   bool
	}{
		{"pending before due", InvoiceStatusPending, due.Add(-time.Hour), false},
		{"pending after due", InvoiceStatusPending, due.Add(time.Hour), true},
		{"paid after due", InvoiceStatusPaid, due.Add(time.Hour), false},
		{"already overdue", InvoiceStatusOverdue, due.Add(time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &Invoice{Status: tt.status, DueDate: due}
			if got := inv.IsOverdue(tt.now); got != tt.want {
				t.Errorf("IsOverdue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBase_BeforeCreateAssignsID(t *testing.T) {
	p := &Product{}
	if err := p.BeforeCreate(nil); err != nil {
		t.Fatalf("BeforeCreate: %v", err)
	}
	if p.GetID() == "" {
		t.Fatal("expected an id to be assigned")
	}

	keep := &Product{Base: Base{ID: "fixed"}}
	_ = keep.BeforeCreate(nil)
	if keep.ID != "fixed" {
		t.Errorf("existing id overwritten: %q", keep.ID)
	}
}

func TestActivityLog_GetID(t *testing.T) {
	l := &ActivityLog{ID: 42}
	if got := l.GetID(); got != "42" {
		t.Errorf("GetID() = %q, want 42", got)
	}
}

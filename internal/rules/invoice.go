package rules

import (
	"fmt"
	"time"

	"github.com/diewo77/go-workshop/internal/models"
	"github.com/shopspring/decimal"
)

const (
	// DefaultTaxRate is applied to every invoice subtotal.
	DefaultTaxRate = 0.08
	// PaymentTerm separates invoice generation from its due date.
	PaymentTerm = 30 * 24 * time.Hour
	// LaborDescription labels the synthetic labor line.
	LaborDescription = "Labor"
)

// InvoiceTotals derives subtotal, tax and total from the items.
func InvoiceTotals(items []models.InvoiceItem, taxRate float64) (subtotal, tax, total float64, err error) {
	if taxRate < 0 {
		return 0, 0, 0, fmt.Errorf("%w: tax rate %.4f", models.ErrInvalidAmount, taxRate)
	}
	sum := decimal.Zero
	for _, it := range items {
		line, lerr := LineTotal(it.Quantity, it.UnitPrice)
		if lerr != nil {
			return 0, 0, 0, fmt.Errorf("item %q: %w", it.Description, lerr)
		}
		sum = sum.Add(decimal.NewFromFloat(line))
	}
	sum = sum.Round(2)
	taxD := sum.Mul(decimal.NewFromFloat(taxRate)).Round(2)
	return sum.InexactFloat64(), taxD.InexactFloat64(), sum.Add(taxD).InexactFloat64(), nil
}

// BuildInvoice turns a completed job card into an invoice: one item per part
// plus a labor line. The card itself is not modified.
func BuildInvoice(card models.JobCard, number, actorID string, taxRate float64, now time.Time) (*models.Invoice, error) {
	if card.Status != models.JobCardCompleted {
		return nil, fmt.Errorf("%w: job card %s is %s, want completed", models.ErrInvalidState, card.Number, card.Status)
	}
	if card.LaborCost < 0 {
		return nil, fmt.Errorf("%w: labor cost %.2f", models.ErrInvalidAmount, card.LaborCost)
	}

	items := make([]models.InvoiceItem, 0, len(card.Parts)+1)
	for _, p := range card.Parts {
		line, err := LineTotal(p.Quantity, p.UnitPrice)
		if err != nil {
			return nil, err
		}
		items = append(items, models.InvoiceItem{
			Position:    len(items),
			Description: p.ProductName,
			Quantity:    p.Quantity,
			UnitPrice:   p.UnitPrice,
			TotalPrice:  line,
		})
	}
	labor := RoundCents(card.LaborCost)
	items = append(items, models.InvoiceItem{
		Position:    len(items),
		Description: LaborDescription,
		Quantity:    1,
		UnitPrice:   labor,
		TotalPrice:  labor,
	})

	subtotal, tax, total, err := InvoiceTotals(items, taxRate)
	if err != nil {
		return nil, err
	}

	return &models.Invoice{
		JobCardID:     card.ID,
		InvoiceNumber: number,
		CustomerName:  card.CustomerName,
		CustomerPhone: card.CustomerPhone,
		VehicleNumber: card.VehicleNumber,
		VehicleModel:  card.VehicleModel,
		Items:         items,
		Subtotal:      subtotal,
		TaxRate:       taxRate,
		TaxAmount:     tax,
		TotalAmount:   total,
		Status:        models.InvoiceStatusPending,
		DueDate:       now.Add(PaymentTerm),
		GeneratedBy:   actorID,
	}, nil
}

// MarkInvoiced closes a completed card after its invoice has been built.
func MarkInvoiced(card *models.JobCard) error {
	if card.Status != models.JobCardCompleted {
		return fmt.Errorf("%w: job card %s is %s, want completed", models.ErrInvalidState, card.Number, card.Status)
	}
	card.Status = models.JobCardInvoiced
	return nil
}

// MarkPaid settles a pending or overdue invoice.
func MarkPaid(inv *models.Invoice, now time.Time) error {
	if inv.Status == models.InvoiceStatusPaid {
		return fmt.Errorf("%w: invoice %s is already paid", models.ErrInvalidState, inv.InvoiceNumber)
	}
	at := now
	inv.Status = models.InvoiceStatusPaid
	inv.PaidAt = &at
	return nil
}

// MarkOverdue flags a pending invoice past its due date. It reports whether
// the status changed.
func MarkOverdue(inv *models.Invoice, now time.Time) bool {
	if !inv.IsOverdue(now) {
		return false
	}
	inv.Status = models.InvoiceStatusOverdue
	return true
}

package rules

import (
	"fmt"
	"time"

	"github.com/diewo77/go-workshop/internal/models"
	"github.com/shopspring/decimal"
)

// ComputeJobCardTotal sums the part line totals plus labor. Line totals are
// recomputed from quantity and unit price; stored TotalPrice values are ignored.
func ComputeJobCardTotal(parts []models.PartLine, laborCost float64) (float64, error) {
	if laborCost < 0 {
		return 0, fmt.Errorf("%w: labor cost %.2f", models.ErrInvalidAmount, laborCost)
	}
	sum := money(laborCost)
	for _, p := range parts {
		line, err := LineTotal(p.Quantity, p.UnitPrice)
		if err != nil {
			return 0, fmt.Errorf("part %s: %w", p.ProductName, err)
		}
		sum = sum.Add(decimal.NewFromFloat(line))
	}
	return sum.Round(2).InexactFloat64(), nil
}

// Recalculate refreshes every line total, line position and the card total.
func Recalculate(card *models.JobCard) error {
	for i := range card.Parts {
		line, err := LineTotal(card.Parts[i].Quantity, card.Parts[i].UnitPrice)
		if err != nil {
			return err
		}
		card.Parts[i].TotalPrice = line
		card.Parts[i].Position = i
	}
	total, err := ComputeJobCardTotal(card.Parts, card.LaborCost)
	if err != nil {
		return err
	}
	card.TotalAmount = total
	return nil
}

// AddPart adds delta units of product to the card. A product already on the
// card has its line incremented; otherwise a new line is appended at the
// product's current unit price. The card total is recomputed.
func AddPart(card *models.JobCard, product models.Product, delta int) error {
	if card.IsInvoiced() {
		return fmt.Errorf("%w: job card %s is invoiced", models.ErrInvalidState, card.Number)
	}
	if delta <= 0 {
		return fmt.Errorf("%w: quantity delta %d", models.ErrInvalidAmount, delta)
	}
	if product.UnitPrice < 0 {
		return fmt.Errorf("%w: unit price %.2f", models.ErrInvalidAmount, product.UnitPrice)
	}

	found := false
	for i := range card.Parts {
		if card.Parts[i].ProductID == product.ID {
			card.Parts[i].Quantity += delta
			found = true
			break
		}
	}
	if !found {
		card.Parts = append(card.Parts, models.PartLine{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    delta,
			UnitPrice:   product.UnitPrice,
		})
	}
	return Recalculate(card)
}

// RemovePart drops the line for productID and recomputes the card total.
func RemovePart(card *models.JobCard, productID string) error {
	if card.IsInvoiced() {
		return fmt.Errorf("%w: job card %s is invoiced", models.ErrInvalidState, card.Number)
	}
	for i := range card.Parts {
		if card.Parts[i].ProductID == productID {
			card.Parts = append(card.Parts[:i], card.Parts[i+1:]...)
			return Recalculate(card)
		}
	}
	return fmt.Errorf("%w: product %s not on job card", models.ErrNotFound, productID)
}

// CheckTransition validates a direct status change. Moves must go strictly
// forward; invoiced is terminal and only reachable by generating an invoice.
func CheckTransition(from, to models.JobCardStatus) error {
	switch {
	case !from.Valid() || !to.Valid():
		return fmt.Errorf("%w: unknown status %q -> %q", models.ErrIllegalTransition, from, to)
	case from == models.JobCardInvoiced:
		return fmt.Errorf("%w: job card is already invoiced", models.ErrIllegalTransition)
	case to == models.JobCardInvoiced:
		return fmt.Errorf("%w: invoiced is set by invoice generation only", models.ErrIllegalTransition)
	case to.Rank() <= from.Rank():
		return fmt.Errorf("%w: %s -> %s", models.ErrIllegalTransition, from, to)
	}
	return nil
}

// ApplyTransition moves the card to status to on behalf of actorID.
// Entering completed stamps ActualCompletion.
func ApplyTransition(card *models.JobCard, to models.JobCardStatus, actorID string, now time.Time) error {
	if err := CheckTransition(card.Status, to); err != nil {
		return err
	}
	card.Status = to
	card.ApprovedBy = actorID
	if to == models.JobCardCompleted {
		at := now
		card.ActualCompletion = &at
	}
	return nil
}

// Package rules holds the workshop business rules: job card totals, stock
// classification, the job card lifecycle and invoice construction.
// Everything here is pure; persistence and authorization live in the callers.
package rules

import (
	"fmt"

	"github.com/diewo77/go-workshop/internal/models"
	"github.com/shopspring/decimal"
)

// money converts a currency amount to a decimal rounded to cents.
func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

// RoundCents rounds v half away from zero to two decimals.
func RoundCents(v float64) float64 {
	return money(v).InexactFloat64()
}

// LineTotal returns quantity × unitPrice rounded to cents.
func LineTotal(quantity int, unitPrice float64) (float64, error) {
	if quantity < 0 || unitPrice < 0 {
		return 0, fmt.Errorf("%w: quantity %d, unit price %.2f", models.ErrInvalidAmount, quantity, unitPrice)
	}
	return decimal.NewFromInt(int64(quantity)).Mul(money(unitPrice)).Round(2).InexactFloat64(), nil
}

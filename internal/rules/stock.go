package rules

import "github.com/diewo77/go-workshop/internal/models"

// ClassifyStock returns OutOfStock at zero, LowStock up to and including
// minStock, InStock above it.
func ClassifyStock(quantity, minStock int) models.StockStatus {
	switch {
	case quantity <= 0:
		return models.StockOut
	case quantity <= minStock:
		return models.StockLow
	default:
		return models.StockIn
	}
}

// StockOf classifies a product.
func StockOf(p models.Product) models.StockStatus {
	return ClassifyStock(p.Quantity, p.MinStock)
}

// NeedsRestock reports whether the product is low or out of stock.
func NeedsRestock(p models.Product) bool {
	return StockOf(p) != models.StockIn
}

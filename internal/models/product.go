package models

// ProductType classifies inventory items.
type ProductType string

const (
	ProductTypePart      ProductType = "part"
	ProductTypeAccessory ProductType = "accessory"
	ProductTypeService   ProductType = "service"
)

// Valid reports whether t is one of the known product types.
func (t ProductType) Valid() bool {
	switch t {
	case ProductTypePart, ProductTypeAccessory, ProductTypeService:
		return true
	}
	return false
}

// StockStatus is the derived classification of a product's quantity.
type StockStatus string

const (
	StockOut StockStatus = "out_of_stock"
	StockLow StockStatus = "low_stock"
	StockIn  StockStatus = "in_stock"
)

// Label returns the human readable form shown on reports.
func (s StockStatus) Label() string {
	switch s {
	case StockOut:
		return "Out of Stock"
	case StockLow:
		return "Low Stock"
	default:
		return "In Stock"
	}
}

// Product is an inventory item: a part, an accessory or a billable service.
type Product struct {
	Base
	Name          string      `gorm:"size:255;not null;index" json:"name"`
	Type          ProductType `gorm:"size:20;not null;index" json:"type"`
	Category      string      `gorm:"size:100" json:"category"`
	Quantity      int         `gorm:"not null;default:0" json:"quantity"`
	UnitPrice     float64     `gorm:"type:decimal(12,2);not null;default:0" json:"unit_price"`
	MinStock      int         `gorm:"not null;default:0" json:"min_stock"`
	Brand         string      `gorm:"size:100" json:"brand,omitempty"`
	Description   string      `gorm:"type:text" json:"description,omitempty"`
	LastUpdatedBy string      `gorm:"size:36" json:"last_updated_by"`
}

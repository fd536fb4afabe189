package reports

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/diewo77/go-workshop/internal/models"
	"github.com/xuri/excelize/v2"
)

func TestWorkbook(t *testing.T) {
	products := []models.Product{
		{Name: "Brake Pads", Type: models.ProductTypePart, Quantity: 25, MinStock: 5, UnitPrice: 45.99},
		{Name: "Air Filter", Type: models.ProductTypePart, Quantity: 0, MinStock: 3, UnitPrice: 18.5},
	}
	paid := time.Date(2024, 1, 18, 0, 0, 0, 0, time.UTC)
	invoices := []models.Invoice{{
		InvoiceNumber: "INV-2024-0001",
		CustomerName:  "Alice Johnson",
		TotalAmount:   179.27,
		Status:        models.InvoiceStatusPaid,
		DueDate:       time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC),
		PaidAt:        &paid,
	}}

	f, err := Workbook(products, invoices)
	if err != nil {
		t.Fatalf("Workbook: %v", err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}

	got, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer got.Close()

	if sheets := got.GetSheetList(); len(sheets) != 2 || sheets[0] != InventorySheet || sheets[1] != InvoicesSheet {
		t.Fatalf("sheets = %v", sheets)
	}
	rows, err := got.GetRows(InventorySheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 4 {
		t.Fatalf("inventory rows = %d, want 4", len(rows))
	}
	if rows[1][8] != "In Stock" || rows[2][8] != "Out of Stock" {
		t.Errorf("status column = %q, %q", rows[1][8], rows[2][8])
	}
	if v, _ := got.GetCellValue(InventorySheet, "H4"); v != "1149.75" {
		t.Errorf("stock value total = %q, want 1149.75", v)
	}

	inv, err := got.GetRows(InvoicesSheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(inv) != 2 || inv[1][0] != "INV-2024-0001" || inv[1][8] != "2024-01-18" {
		t.Errorf("invoice rows = %v", inv)
	}
}

func TestWorkbook_InvalidProduct(t *testing.T) {
	products := []models.Product{
		{Name: "Brake Pads", Type: models.ProductTypePart, Quantity: 25, MinStock: 5, UnitPrice: 45.99},
		{Name: "Refund Credit", Type: models.ProductTypeService, Quantity: 1, UnitPrice: -10},
	}
	f, err := Workbook(products, nil)
	if !errors.Is(err, models.ErrInvalidAmount) {
		t.Fatalf("err = %v, want ErrInvalidAmount", err)
	}
	if f != nil {
		t.Errorf("Workbook returned a file alongside an error")
	}
}

// Package reports renders workshop data as xlsx workbooks.
package reports

import (
	"fmt"

	"github.com/diewo77/go-workshop/internal/models"
	"github.com/diewo77/go-workshop/internal/rules"
	"github.com/xuri/excelize/v2"
)

const (
	InventorySheet = "Inventory"
	InvoicesSheet  = "Invoices"
	// ContentType is the MIME type of the generated workbooks.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var (
	inventoryHeaders = []string{"Name", "Type", "Category", "Brand", "Quantity", "Min Stock", "Unit Price", "Stock Value", "Status"}
	inventoryWidths  = []float64{28, 12, 16, 16, 10, 10, 12, 14, 14}
	invoiceHeaders   = []string{"Number", "Customer", "Vehicle", "Subtotal", "Tax", "Total", "Status", "Due Date", "Paid At"}
	invoiceWidths    = []float64{16, 24, 14, 12, 10, 12, 10, 14, 14}
)

// Workbook builds a two-sheet workbook: the inventory with its derived stock
// status and the invoice register. Rows keep the order of the inputs. The
// file is closed before returning when any row fails.
func Workbook(products []models.Product, invoices []models.Invoice) (_ *excelize.File, err error) {
	f := excelize.NewFile()
	defer func() {
		if err != nil {
			_ = f.Close()
		}
	}()
	if err := f.SetSheetName("Sheet1", InventorySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(InvoicesSheet); err != nil {
		return nil, err
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "#000000", Style: 1},
		},
	})
	if err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	if err := writeHeader(f, InventorySheet, inventoryHeaders, inventoryWidths, header); err != nil {
		return nil, err
	}
	var stockValue float64
	for i, p := range products {
		value, err := rules.LineTotal(p.Quantity, p.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", p.Name, err)
		}
		stockValue = rules.RoundCents(stockValue + value)
		row := []any{p.Name, string(p.Type), p.Category, p.Brand, p.Quantity, p.MinStock, p.UnitPrice, value, rules.StockOf(p).Label()}
		if err := writeRow(f, InventorySheet, i+2, row); err != nil {
			return nil, err
		}
	}
	total := len(products) + 2
	if err := writeRow(f, InventorySheet, total, []any{"Total", "", "", "", "", "", "", stockValue}); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(InventorySheet, fmt.Sprintf("A%d", total), fmt.Sprintf("I%d", total), bold); err != nil {
		return nil, err
	}

	if err := writeHeader(f, InvoicesSheet, invoiceHeaders, invoiceWidths, header); err != nil {
		return nil, err
	}
	for i, inv := range invoices {
		paid := ""
		if inv.PaidAt != nil {
			paid = inv.PaidAt.Format("2006-01-02")
		}
		row := []any{inv.InvoiceNumber, inv.CustomerName, inv.VehicleNumber, inv.Subtotal, inv.TaxAmount, inv.TotalAmount, string(inv.Status), inv.DueDate.Format("2006-01-02"), paid}
		if err := writeRow(f, InvoicesSheet, i+2, row); err != nil {
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

func writeHeader(f *excelize.File, sheet string, headers []string, widths []float64, style int) error {
	for i, h := range headers {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		cell := col + "1"
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, widths[i]); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

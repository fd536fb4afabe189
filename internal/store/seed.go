package store

import (
	"context"
	"fmt"
	"time"

	"github.com/diewo77/go-workshop/internal/models"
	"github.com/diewo77/go-workshop/internal/rules"
	"gorm.io/gorm"
)

func day(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, time.UTC)
}

// Seed loads the demo workshop: three users, three products, two job cards,
// one paid invoice and a few activity entries. It does nothing when users
// already exist. Numbers are drawn from seq so later records continue the series.
func Seed(ctx context.Context, db *gorm.DB, seq Sequence) error {
	var n int64
	if err := db.WithContext(ctx).Model(&models.User{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owner := models.User{Name: "John Smith", Email: "john@workshop.com", Role: models.RoleOwner}
		users := []*models.User{
			&owner,
			{Name: "Sarah Davis", Email: "sarah@workshop.com", Role: models.RoleAdmin},
			{Name: "Mike Johnson", Email: "mike@workshop.com", Role: models.RoleWorker},
		}
		for _, u := range users {
			if err := tx.Create(u).Error; err != nil {
				return fmt.Errorf("seed user %s: %w", u.Email, err)
			}
		}

		brake := models.Product{Name: "Brake Pads", Type: models.ProductTypePart, Category: "Brakes", Quantity: 25, UnitPrice: 45.99, MinStock: 5, Brand: "Bosch", Description: "High-quality ceramic brake pads", LastUpdatedBy: owner.ID}
		oil := models.Product{Name: "Engine Oil", Type: models.ProductTypePart, Category: "Engine", Quantity: 3, UnitPrice: 29.99, MinStock: 5, Brand: "Mobil 1", Description: "5W-30 Synthetic Motor Oil", LastUpdatedBy: owner.ID}
		filter := models.Product{Name: "Air Filter", Type: models.ProductTypePart, Category: "Engine", Quantity: 15, UnitPrice: 19.99, MinStock: 10, Brand: "K&N", Description: "High-flow air filter", LastUpdatedBy: owner.ID}
		for _, p := range []*models.Product{&brake, &oil, &filter} {
			if err := tx.Create(p).Error; err != nil {
				return fmt.Errorf("seed product %s: %w", p.Name, err)
			}
		}

		civic := models.JobCard{
			CustomerName:     "Alice Johnson",
			CustomerPhone:    "+1-555-0123",
			VehicleNumber:    "ABC-123",
			VehicleModel:     "2020 Honda Civic",
			IssueDescription: "Brake noise and vibration when stopping",
			ServicesProvided: []string{"Brake inspection", "Brake pad replacement"},
			LaborCost:        120,
			Status:           models.JobCardCompleted,
			CreatedBy:        owner.ID,
			ApprovedBy:       owner.ID,
			Notes:            "Customer reported grinding noise. Replaced front brake pads.",
		}
		camry := models.JobCard{
			CustomerName:     "Bob Wilson",
			CustomerPhone:    "+1-555-0456",
			VehicleNumber:    "XYZ-789",
			VehicleModel:     "2019 Toyota Camry",
			IssueDescription: "Oil change and general inspection",
			ServicesProvided: []string{"Oil change", "Multi-point inspection"},
			LaborCost:        50,
			Status:           models.JobCardPending,
			CreatedBy:        owner.ID,
		}
		if err := rules.AddPart(&civic, brake, 1); err != nil {
			return err
		}
		if err := rules.AddPart(&camry, oil, 1); err != nil {
			return err
		}
		done := day(2024, 1, 20, 14, 0)
		civic.ActualCompletion = &done
		civic.CreatedAt = day(2024, 1, 20, 10, 30)
		camry.CreatedAt = day(2024, 1, 22, 9, 0)
		for _, c := range []*models.JobCard{&civic, &camry} {
			num, err := seq.Next(ctx, tx, SeqJobCard)
			if err != nil {
				return err
			}
			c.Number = FormatJobCardNumber(num)
			if err := tx.Create(c).Error; err != nil {
				return fmt.Errorf("seed job card %s: %w", c.Number, err)
			}
		}

		issued := day(2024, 1, 20, 14, 45)
		invNum, err := seq.Next(ctx, tx, InvoiceSequenceName(issued))
		if err != nil {
			return err
		}
		inv, err := rules.BuildInvoice(civic, FormatInvoiceNumber(issued.Year(), invNum), owner.ID, rules.DefaultTaxRate, issued)
		if err != nil {
			return err
		}
		inv.CreatedAt = issued
		if err := rules.MarkPaid(inv, day(2024, 2, 1, 9, 0)); err != nil {
			return err
		}
		if err := tx.Create(inv).Error; err != nil {
			return fmt.Errorf("seed invoice: %w", err)
		}
		if err := rules.MarkInvoiced(&civic); err != nil {
			return err
		}
		if err := tx.Model(&civic).Update("status", civic.Status).Error; err != nil {
			return err
		}

		logs := []models.ActivityLog{
			{UserID: owner.ID, UserName: owner.Name, Action: models.ActionCreateJobCard, Details: "Created job card for Alice Johnson - ABC-123", EntityType: models.EntityJobCard, EntityID: civic.ID, Timestamp: day(2024, 1, 20, 10, 30)},
			{UserID: owner.ID, UserName: owner.Name, Action: models.ActionUpdateProduct, Details: "Updated product: Brake Pads", EntityType: models.EntityProduct, EntityID: brake.ID, Timestamp: day(2024, 1, 20, 11, 15)},
			{UserID: owner.ID, UserName: owner.Name, Action: models.ActionGenerateInvoice, Details: fmt.Sprintf("Generated invoice %s for job card %s", inv.InvoiceNumber, civic.Number), EntityType: models.EntityInvoice, EntityID: inv.ID, Timestamp: issued},
		}
		if err := tx.Create(&logs).Error; err != nil {
			return fmt.Errorf("seed activity log: %w", err)
		}
		return nil
	})
}

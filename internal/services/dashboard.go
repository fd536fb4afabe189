package services

import (
	"context"
	"fmt"
	"time"

	"github.com/diewo77/go-workshop/internal/models"
	"github.com/diewo77/go-workshop/internal/policy"
	"github.com/diewo77/go-workshop/internal/rules"
	"github.com/diewo77/go-workshop/internal/store"
	"github.com/shopspring/decimal"
)

// Stats is the dashboard summary.
type Stats struct {
	TotalJobs      int64   `json:"total_jobs"`
	PendingJobs    int64   `json:"pending_jobs"`
	CompletedJobs  int64   `json:"completed_jobs"`
	TotalRevenue   float64 `json:"total_revenue"`
	MonthlyRevenue float64 `json:"monthly_revenue"`
	LowStockItems  int64   `json:"low_stock_items"`
	ActiveUsers    int64   `json:"active_users"`
}

type DashboardService struct {
	base
	jobs     *store.Repository[models.JobCard]
	products *store.Repository[models.Product]
	users    *store.Repository[models.User]
}

func NewDashboardService(d Deps) *DashboardService {
	b := newBase(d)
	return &DashboardService{
		base:     b,
		jobs:     store.NewRepository[models.JobCard](b.DB),
		products: store.NewRepository[models.Product](b.DB),
		users:    store.NewRepository[models.User](b.DB),
	}
}

// Stats aggregates job, revenue, stock and user counts. Monthly revenue
// covers invoices created since the first day of the current month.
func (s *DashboardService) Stats(ctx context.Context, actorID string) (*Stats, error) {
	if _, err := s.Gate.Authorize(ctx, actorID, policy.ResourceReport, policy.ActionView); err != nil {
		return nil, err
	}
	var st Stats
	counts := []struct {
		dst   *int64
		count func() (int64, error)
	}{
		{&st.TotalJobs, func() (int64, error) { return s.jobs.Count(ctx, nil) }},
		{&st.PendingJobs, func() (int64, error) { return s.jobs.Count(ctx, store.ByStatus(string(models.JobCardPending))) }},
		{&st.CompletedJobs, func() (int64, error) { return s.jobs.Count(ctx, store.ByStatus(string(models.JobCardCompleted))) }},
		{&st.ActiveUsers, func() (int64, error) { return s.users.Count(ctx, nil) }},
	}
	for _, c := range counts {
		n, err := c.count()
		if err != nil {
			return nil, fmt.Errorf("dashboard count: %w", err)
		}
		*c.dst = n
	}

	products, err := s.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard stock: %w", err)
	}
	for _, p := range products {
		if rules.NeedsRestock(p) {
			st.LowStockItems++
		}
	}

	db := s.DB.WithContext(ctx)
	var invoices []models.Invoice
	if err := db.Select("total_amount", "created_at").Find(&invoices).Error; err != nil {
		return nil, fmt.Errorf("dashboard revenue: %w", err)
	}
	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	total, monthly := decimal.Zero, decimal.Zero
	for _, inv := range invoices {
		amt := decimal.NewFromFloat(inv.TotalAmount)
		total = total.Add(amt)
		if !inv.CreatedAt.Before(monthStart) {
			monthly = monthly.Add(amt)
		}
	}
	st.TotalRevenue = total.Round(2).InexactFloat64()
	st.MonthlyRevenue = monthly.Round(2).InexactFloat64()
	return &st, nil
}

package services

import (
	"context"

	"github.com/diewo77/go-workshop/internal/models"
	"github.com/diewo77/go-workshop/internal/policy"
	"github.com/diewo77/go-workshop/internal/reports"
	"github.com/diewo77/go-workshop/internal/store"
	"github.com/xuri/excelize/v2"
)

type ReportService struct {
	base
	products *store.Repository[models.Product]
	invoices *store.Repository[models.Invoice]
}

func NewReportService(d Deps) *ReportService {
	b := newBase(d)
	return &ReportService{
		base:     b,
		products: store.NewRepository[models.Product](b.DB, store.OrderBy("name ASC")),
		invoices: store.NewRepository[models.Invoice](b.DB),
	}
}

// Workbook exports the inventory and the invoice register. The caller closes
// the returned file.
func (s *ReportService) Workbook(ctx context.Context, actorID string) (*excelize.File, error) {
	if _, err := s.Gate.Authorize(ctx, actorID, policy.ResourceReport, policy.ActionView); err != nil {
		return nil, err
	}
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	invoices, err := s.invoices.List(ctx)
	if err != nil {
		return nil, err
	}
	return reports.Workbook(products, invoices)
}

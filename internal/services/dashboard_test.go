package services

import (
	"context"
	"testing"

	"github.com/diewo77/go-workshop/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardService_Stats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	card := f.completedCivic(t)
	_, err := f.invoices.Generate(ctx, f.admin.ID, card.ID)
	require.NoError(t, err)
	_, err = f.jobCards.Create(ctx, f.worker.ID, JobCardInput{CustomerName: "Bob Wilson", VehicleNumber: "XYZ-789", LaborCost: 80})
	require.NoError(t, err)
	_, err = f.products.Create(ctx, f.owner.ID, ProductInput{Name: "Engine Oil", Type: models.ProductTypePart, Quantity: 2, UnitPrice: 29.99, MinStock: 10})
	require.NoError(t, err)

	st, err := f.dashboard.Stats(ctx, f.admin.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), st.TotalJobs)
	assert.Equal(t, int64(1), st.PendingJobs)
	assert.Zero(t, st.CompletedJobs)
	assert.Equal(t, 179.27, st.TotalRevenue)
	assert.Equal(t, 179.27, st.MonthlyRevenue)
	assert.Equal(t, int64(1), st.LowStockItems)
	assert.Equal(t, int64(3), st.ActiveUsers)

	_, err = f.dashboard.Stats(ctx, f.worker.ID)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestReportService_Workbook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.brakePads(t)

	_, err := f.reports.Workbook(ctx, f.worker.ID)
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	wb, err := f.reports.Workbook(ctx, f.admin.ID)
	require.NoError(t, err)
	defer wb.Close()
	rows, err := wb.GetRows("Inventory")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Brake Pads", rows[1][0])
}

func TestDashboardService_LowStockMatchesProductList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, in := range []ProductInput{
		{Name: "Air Filter", Type: models.ProductTypePart, Quantity: 0, UnitPrice: 12, MinStock: 0},
		{Name: "Spark Plug", Type: models.ProductTypePart, Quantity: 4, UnitPrice: 8, MinStock: 4},
		{Name: "Wiper Blade", Type: models.ProductTypePart, Quantity: 9, UnitPrice: 15, MinStock: 2},
	} {
		_, err := f.products.Create(ctx, f.owner.ID, in)
		require.NoError(t, err)
	}

	low, err := f.products.LowStock(ctx, f.admin.ID)
	require.NoError(t, err)
	names := make([]string, 0, len(low))
	for _, p := range low {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Air Filter", "Spark Plug"}, names)

	st, err := f.dashboard.Stats(ctx, f.admin.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(len(low)), st.LowStockItems)
	assert.Zero(t, st.TotalJobs)
	assert.Zero(t, st.PendingJobs)
}

package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/diewo77/go-workshop/internal/metrics"
	"github.com/diewo77/go-workshop/internal/models"
	"github.com/diewo77/go-workshop/internal/policy"
	"github.com/diewo77/go-workshop/internal/store"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fixture is an isolated workshop with one user per role and a movable clock.
type fixture struct {
	db     *gorm.DB
	now    time.Time
	owner  *models.User
	admin  *models.User
	worker *models.User

	products  *ProductService
	jobCards  *JobCardService
	invoices  *InvoiceService
	users     *UserService
	activity  *ActivityService
	dashboard *DashboardService
	reports   *ReportService
}

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, store.AutoMigrate(db))
	return db
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		db:  setupServiceTestDB(t),
		now: time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC),
	}
	f.owner = &models.User{Name: "John Smith", Email: "john@workshop.com", Role: models.RoleOwner}
	f.admin = &models.User{Name: "Sarah Davis", Email: "sarah@workshop.com", Role: models.RoleAdmin}
	f.worker = &models.User{Name: "Mike Johnson", Email: "mike@workshop.com", Role: models.RoleWorker}
	for _, u := range []*models.User{f.owner, f.admin, f.worker} {
		require.NoError(t, f.db.Create(u).Error)
	}

	d := Deps{
		DB:      f.db,
		Gate:    policy.NewGateWithResolver(policy.NewDBResolver(f.db)),
		Metrics: metrics.New(),
		Now:     func() time.Time { return f.now },
	}
	f.products = NewProductService(d)
	f.jobCards = NewJobCardService(d)
	f.invoices = NewInvoiceService(d)
	f.users = NewUserService(d)
	f.activity = NewActivityService(d)
	f.dashboard = NewDashboardService(d)
	f.reports = NewReportService(d)
	return f
}

func (f *fixture) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Count(&n).Error)
	return n
}

func (f *fixture) brakePads(t *testing.T) *models.Product {
	t.Helper()
	p, err := f.products.Create(context.Background(), f.owner.ID, ProductInput{
		Name: "Brake Pads", Type: models.ProductTypePart, Category: "Brakes",
		Quantity: 25, UnitPrice: 45.99, MinStock: 5, Brand: "Bosch",
	})
	require.NoError(t, err)
	return p
}

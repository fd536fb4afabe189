package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/diewo77/go-workshop/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupStoreTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	return db
}

func TestRepository_CRUD(t *testing.T) {
	db := setupStoreTestDB(t)
	repo := NewRepository[models.Product](db, OrderBy("name ASC"))
	ctx := context.Background()

	id, err := repo.Insert(ctx, &models.Product{Name: "Engine Oil", Type: models.ProductTypePart, Quantity: 3, UnitPrice: 29.99})
	require.NoError(t, err)
	require.NotEmpty(t, id)
	_, err = repo.Insert(ctx, &models.Product{Name: "Air Filter", Type: models.ProductTypePart, Quantity: 15, UnitPrice: 19.99})
	require.NoError(t, err)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Air Filter", all[0].Name)

	ok, err := repo.Update(ctx, id, map[string]any{"quantity": 10})
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Quantity)

	ok, err = repo.Update(ctx, "missing", map[string]any{"quantity": 1})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.Delete(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = repo.Get(ctx, id)
	assert.True(t, errors.Is(err, models.ErrNotFound))

	ok, err = repo.Delete(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRepository_WithTxRollsBack(t *testing.T) {
	db := setupStoreTestDB(t)
	repo := NewRepository[models.Product](db)
	ctx := context.Background()
	boom := errors.New("boom")

	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := repo.WithTx(tx).Insert(ctx, &models.Product{Name: "Ghost", Type: models.ProductTypePart}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	n, err := repo.Count(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRepository_PreloadsOrderedParts(t *testing.T) {
	db := setupStoreTestDB(t)
	repo := NewRepository[models.JobCard](db, Preload("Parts", "position ASC"))
	ctx := context.Background()

	card := &models.JobCard{
		CustomerName:  "Alice Johnson",
		VehicleNumber: "ABC-123",
		Status:        models.JobCardPending,
		Parts: []models.PartLine{
			{ProductID: "p1", ProductName: "Brake Pads", Quantity: 1, UnitPrice: 45.99, TotalPrice: 45.99, Position: 0},
			{ProductID: "p2", ProductName: "Engine Oil", Quantity: 2, UnitPrice: 29.99, TotalPrice: 59.98, Position: 1},
		},
	}
	id, err := repo.Insert(ctx, card)
	require.NoError(t, err)

	card.Parts = []models.PartLine{card.Parts[1]}
	require.NoError(t, ReplaceParts(ctx, db, card))

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	require.Len(t, got.Parts, 1)
	assert.Equal(t, "Engine Oil", got.Parts[0].ProductName)
	assert.Equal(t, 0, got.Parts[0].Position)
}

func TestDBSequence_Monotonic(t *testing.T) {
	db := setupStoreTestDB(t)
	seq := NewDBSequence(db)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := seq.Next(ctx, nil, SeqJobCard)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	other, err := seq.Next(ctx, nil, "invoice-2024")
	require.NoError(t, err)
	assert.Equal(t, int64(1), other)
}

func TestDBSequence_RollbackReleasesNumber(t *testing.T) {
	db := setupStoreTestDB(t)
	seq := NewDBSequence(db)
	ctx := context.Background()

	_ = db.Transaction(func(tx *gorm.DB) error {
		_, err := seq.Next(ctx, tx, SeqJobCard)
		require.NoError(t, err)
		return errors.New("abort")
	})
	got, err := seq.Next(ctx, nil, SeqJobCard)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

func TestNumberFormats(t *testing.T) {
	assert.Equal(t, "INV-2024-0001", FormatInvoiceNumber(2024, 1))
	assert.Equal(t, "INV-2025-12345", FormatInvoiceNumber(2025, 12345))
	assert.Equal(t, "JC-0042", FormatJobCardNumber(42))
}

func TestSeed_Idempotent(t *testing.T) {
	db := setupStoreTestDB(t)
	seq := NewDBSequence(db)
	ctx := context.Background()

	require.NoError(t, Seed(ctx, db, seq))
	require.NoError(t, Seed(ctx, db, seq))

	counts := map[any]int64{
		&models.User{}:        3,
		&models.Product{}:     3,
		&models.JobCard{}:     2,
		&models.Invoice{}:     1,
		&models.ActivityLog{}: 3,
	}
	for m, want := range counts {
		var n int64
		require.NoError(t, db.Model(m).Count(&n).Error)
		assert.Equal(t, want, n, "%T", m)
	}

	var inv models.Invoice
	require.NoError(t, db.Preload("Items").First(&inv).Error)
	assert.Equal(t, "INV-2024-0001", inv.InvoiceNumber)
	assert.Equal(t, 179.27, inv.TotalAmount)
	assert.Len(t, inv.Items, 2)

	var civic models.JobCard
	require.NoError(t, db.Where("vehicle_number = ?", "ABC-123").First(&civic).Error)
	assert.Equal(t, models.JobCardInvoiced, civic.Status)
	assert.Equal(t, 165.99, civic.TotalAmount)

	next, err := seq.Next(ctx, nil, SeqJobCard)
	require.NoError(t, err)
	assert.Equal(t, int64(3), next)
}

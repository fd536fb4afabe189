package services

import (
	"context"
	"testing"

	"github.com/diewo77/go-workshop/internal/models"
	"github.com/diewo77/go-workshop/internal/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductService_CreateRecordsOnce(t *testing.T) {
	f := newFixture(t)
	p := f.brakePads(t)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, f.owner.ID, p.LastUpdatedBy)

	var logs []models.ActivityLog
	require.NoError(t, f.db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, models.ActionAddProduct, logs[0].Action)
	assert.Equal(t, "Added product: Brake Pads", logs[0].Details)
	assert.Equal(t, p.ID, logs[0].EntityID)
	assert.Equal(t, "John Smith", logs[0].UserName)
}

func TestProductService_Permissions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.brakePads(t)
	in := ProductInput{Name: "Wiper", Type: models.ProductTypeAccessory, Quantity: 1, UnitPrice: 9.99}

	_, err := f.products.Create(ctx, f.worker.ID, in)
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	_, err = f.products.Create(ctx, f.admin.ID, in)
	assert.NoError(t, err)

	err = f.products.Delete(ctx, f.admin.ID, p.ID)
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	require.NoError(t, f.products.Delete(ctx, f.owner.ID, p.ID))
	_, err = f.products.Get(ctx, f.worker.ID, p.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	// add brake pads, add wiper, delete brake pads
	assert.Equal(t, int64(3), f.count(t, &models.ActivityLog{}))
}

func TestProductService_RejectsNegativeAmounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   ProductInput
		want error
	}{
		{"negative quantity", ProductInput{Name: "X", Type: models.ProductTypePart, Quantity: -1}, models.ErrInvalidAmount},
		{"negative price", ProductInput{Name: "X", Type: models.ProductTypePart, UnitPrice: -0.01}, models.ErrInvalidAmount},
		{"missing name", ProductInput{Type: models.ProductTypePart}, models.ErrValidation},
		{"unknown type", ProductInput{Name: "X", Type: "tyre"}, models.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.products.Create(ctx, f.owner.ID, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Zero(t, f.count(t, &models.Product{}))
	assert.Zero(t, f.count(t, &models.ActivityLog{}))
}

func TestProductService_UpdatePatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.brakePads(t)

	qty := 3
	got, err := f.products.Update(ctx, f.admin.ID, p.ID, ProductPatch{Quantity: &qty})
	require.NoError(t, err)
	assert.Equal(t, 3, got.Quantity)
	assert.Equal(t, "Brake Pads", got.Name)
	assert.Equal(t, f.admin.ID, got.LastUpdatedBy)

	neg := -5.0
	_, err = f.products.Update(ctx, f.admin.ID, p.ID, ProductPatch{UnitPrice: &neg})
	assert.ErrorIs(t, err, models.ErrInvalidAmount)

	_, err = f.products.Update(ctx, f.admin.ID, "missing", ProductPatch{Quantity: &qty})
	assert.ErrorIs(t, err, models.ErrNotFound)

	// create + one successful update
	assert.Equal(t, int64(2), f.count(t, &models.ActivityLog{}))
}

func TestProductService_ListAndLowStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.brakePads(t)
	_, err := f.products.Create(ctx, f.owner.ID, ProductInput{Name: "Engine Oil", Type: models.ProductTypePart, Category: "Engine", Quantity: 3, UnitPrice: 29.99, MinStock: 5, Brand: "Mobil 1"})
	require.NoError(t, err)

	all, err := f.products.List(ctx, f.worker.ID, query.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Brake Pads", all[0].Name)

	found, err := f.products.List(ctx, f.worker.ID, query.Filter{Term: "MOBIL"})
	require.NoError(t, err)
	require.Len(t, found, 1)

	low, err := f.products.LowStock(ctx, f.admin.ID)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "Engine Oil", low[0].Name)
}

package services

import (
	"context"
	"testing"
	"time"

	"github.com/diewo77/go-workshop/internal/models"
	"github.com/diewo77/go-workshop/internal/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityService_WindowByRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.brakePads(t)

	f.now = f.now.Add(72 * time.Hour)
	_, err := f.products.Create(ctx, f.admin.ID, ProductInput{Name: "Air Filter", Type: models.ProductTypePart, Quantity: 0, UnitPrice: 18.5, MinStock: 3})
	require.NoError(t, err)

	ownerView, err := f.activity.List(ctx, f.owner.ID, query.Filter{})
	require.NoError(t, err)
	require.Len(t, ownerView, 2)
	assert.Equal(t, "Added product: Air Filter", ownerView[0].Details)

	adminView, err := f.activity.List(ctx, f.admin.ID, query.Filter{})
	require.NoError(t, err)
	require.Len(t, adminView, 1)
	assert.Equal(t, "Sarah Davis", adminView[0].UserName)

	workerView, err := f.activity.List(ctx, f.worker.ID, query.Filter{Term: "brake"})
	require.NoError(t, err)
	assert.Empty(t, workerView)

	filtered, err := f.activity.List(ctx, f.owner.ID, query.Filter{Term: "brake", Category: string(models.ActionAddProduct)})
	require.NoError(t, err)
	assert.Len(t, filtered, 1)

	_, err = f.activity.List(ctx, "", query.Filter{})
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

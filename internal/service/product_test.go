package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/eshop-dev/eshop-api/internal/apperr"
	"github.com/eshop-dev/eshop-api/internal/cache"
	"github.com/eshop-dev/eshop-api/internal/models"
	"github.com/eshop-dev/eshop-api/internal/repo"
	"github.com/eshop-dev/eshop-api/internal/transport"
)

func newProductServices(db *gorm.DB) (*PublicProductService, *AdminProductService) {
	store := cache.NewMemory()
	products := repo.NewProductRepo(db)
	public := NewPublicProductService(products, store, nil, time.Hour)
	admin := NewAdminProductService(products, store, nil)
	return public, admin
}

func TestCreateProduct(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	_, admin := newProductServices(db)

	resp, err := admin.Create(ctx, transport.CreateProductRequest{
		Name: "phone", Description: "a phone", Price: 499.99, Stock: 10, CategoryID: 1, Brand: "acme",
	})
	require.NoError(t, err)
	require.NotZero(t, resp.ID)
	require.Equal(t, "phone", resp.Name)

	_, err = admin.Create(ctx, transport.CreateProductRequest{
		Name: "Phone", Description: "same name, different case", Price: 100, Stock: 1, CategoryID: 1, Brand: "acme",
	})
	require.ErrorIs(t, err, apperr.ErrAlreadyExists)
}

func TestUpdateProductPartial(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	_, admin := newProductServices(db)
	product := seedProduct(t, db, "phone", 500, 10)

	price := 450.0
	resp, err := admin.Update(ctx, product.ID, transport.UpdateProductRequest{Price: &price})
	require.NoError(t, err)
	require.Equal(t, "phone", resp.Name)
	require.InDelta(t, 450, resp.Price, 0.001)

	_, err = admin.Update(ctx, 9999, transport.UpdateProductRequest{Price: &price})
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateProductNameConflict(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	_, admin := newProductServices(db)
	seedProduct(t, db, "phone", 500, 10)
	other := seedProduct(t, db, "laptop", 1500, 5)

	name := "phone"
	_, err := admin.Update(ctx, other.ID, transport.UpdateProductRequest{Name: &name})
	require.ErrorIs(t, err, apperr.ErrAlreadyExists)
}

func TestUpdateStockAddsDelta(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	_, admin := newProductServices(db)
	product := seedProduct(t, db, "phone", 500, 5)

	resp, err := admin.UpdateStock(ctx, product.ID, transport.StockRequest{Stock: 3})
	require.NoError(t, err)
	require.Equal(t, 8, resp.Stock)

	info, err := admin.StockInfo(ctx, product.ID)
	require.NoError(t, err)
	require.Equal(t, 8, info.Stock)
	require.Equal(t, "phone", info.Name)
}

func TestSoftDeleteHidesProduct(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	public, admin := newProductServices(db)
	product := seedProduct(t, db, "phone", 500, 10)

	require.NoError(t, admin.Remove(ctx, product.ID))

	_, err := public.GetByID(ctx, product.ID)
	require.ErrorIs(t, err, apperr.ErrNotFound)

	page, err := public.List(ctx, 1, 10)
	require.NoError(t, err)
	require.Empty(t, page.Products)

	// the row survives for order snapshots
	var stored models.Product
	require.NoError(t, db.Where("id = ?", product.ID).First(&stored).Error)
	require.True(t, stored.IsDeleted)

	require.ErrorIs(t, admin.Remove(ctx, product.ID), apperr.ErrNotFound)
}

// A catalog mutation drops every cached listing page, so readers never see a
// stale page after the change.
func TestListCacheEvictedOnMutation(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	public, admin := newProductServices(db)
	seedProduct(t, db, "phone", 500, 10)

	page, err := public.List(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Products, 1)

	_, err = admin.Create(ctx, transport.CreateProductRequest{
		Name: "laptop", Price: 1500, Stock: 5, CategoryID: 1, Brand: "acme",
	})
	require.NoError(t, err)

	page, err = public.List(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Products, 2)
}

func TestProductCacheEvictedOnUpdate(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	public, admin := newProductServices(db)
	product := seedProduct(t, db, "phone", 500, 10)

	resp, err := public.GetByID(ctx, product.ID)
	require.NoError(t, err)
	require.InDelta(t, 500, resp.Price, 0.001)

	price := 450.0
	_, err = admin.Update(ctx, product.ID, transport.UpdateProductRequest{Price: &price})
	require.NoError(t, err)

	resp, err = public.GetByID(ctx, product.ID)
	require.NoError(t, err)
	require.InDelta(t, 450, resp.Price, 0.001)
}

func TestSearchByNameFallsBackToDatabase(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	public, _ := newProductServices(db)
	seedProduct(t, db, "smartphone", 500, 10)
	seedProduct(t, db, "laptop", 1500, 5)

	page, err := public.SearchByName(ctx, "PHONE", 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	require.Equal(t, "smartphone", page.Products[0].Name)
}

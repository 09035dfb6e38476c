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

func newCartService(db *gorm.DB) *CartService {
	return NewCartService(repo.NewCartRepo(db), repo.NewProductRepo(db), cache.NewMemory(), 30*time.Minute)
}

func TestAddItemIncrementsExistingLine(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newCartService(db)
	user := seedUser(t, db, "user@example.com", "secret123", models.RoleUser)
	product := seedProduct(t, db, "phone", 499.99, 10)

	view, err := svc.AddItem(ctx, user.ID, product.ID)
	require.NoError(t, err)
	require.Len(t, view.Carts, 1)
	require.Equal(t, 1, view.Carts[0].Quantity)

	view, err = svc.AddItem(ctx, user.ID, product.ID)
	require.NoError(t, err)
	require.Len(t, view.Carts, 1)
	require.Equal(t, 2, view.Carts[0].Quantity)
	require.InDelta(t, 2*499.99, view.TotalPrice, 0.001)

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("user_id = ?", user.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestAddItemUnknownProduct(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newCartService(db)
	user := seedUser(t, db, "user@example.com", "secret123", models.RoleUser)

	_, err := svc.AddItem(ctx, user.ID, 9999)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateQuantityIsAbsolute(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newCartService(db)
	user := seedUser(t, db, "user@example.com", "secret123", models.RoleUser)
	product := seedProduct(t, db, "phone", 100, 10)

	view, err := svc.AddItem(ctx, user.ID, product.ID)
	require.NoError(t, err)
	itemID := view.Carts[0].ID

	view, err = svc.UpdateQuantity(ctx, user.ID, transport.UpdateItemRequest{CartItemID: itemID, Amount: 5})
	require.NoError(t, err)
	require.Equal(t, 5, view.Carts[0].Quantity)
	require.InDelta(t, 500, view.TotalPrice, 0.001)
}

func TestUpdateQuantityForeignItem(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newCartService(db)
	owner := seedUser(t, db, "owner@example.com", "secret123", models.RoleUser)
	other := seedUser(t, db, "other@example.com", "secret123", models.RoleUser)
	product := seedProduct(t, db, "phone", 100, 10)

	view, err := svc.AddItem(ctx, owner.ID, product.ID)
	require.NoError(t, err)

	_, err = svc.UpdateQuantity(ctx, other.ID, transport.UpdateItemRequest{CartItemID: view.Carts[0].ID, Amount: 3})
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRemoveItem(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newCartService(db)
	user := seedUser(t, db, "user@example.com", "secret123", models.RoleUser)
	product := seedProduct(t, db, "phone", 100, 10)

	view, err := svc.AddItem(ctx, user.ID, product.ID)
	require.NoError(t, err)

	view, err = svc.RemoveItem(ctx, user.ID, view.Carts[0].ID)
	require.NoError(t, err)
	require.Empty(t, view.Carts)
	require.Zero(t, view.TotalPrice)

	_, err = svc.RemoveItem(ctx, user.ID, 9999)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestEmptyCartTotalIsZero(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newCartService(db)
	user := seedUser(t, db, "user@example.com", "secret123", models.RoleUser)

	view, err := svc.GetByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Empty(t, view.Carts)
	require.Zero(t, view.TotalPrice)
}

// A cached cart view is served without touching the store until the next
// mutation overwrites it.
func TestGetByUserServesCachedView(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newCartService(db)
	user := seedUser(t, db, "user@example.com", "secret123", models.RoleUser)
	product := seedProduct(t, db, "phone", 100, 10)

	first, err := svc.AddItem(ctx, user.ID, product.ID)
	require.NoError(t, err)

	// a write that bypasses the service is invisible to cached reads
	require.NoError(t, db.Create(&models.CartItem{UserID: user.ID, ProductID: product.ID + 1000, Quantity: 7}).Error)

	cached, err := svc.GetByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, first, cached)

	fresh, err := svc.AddItem(ctx, user.ID, product.ID)
	require.NoError(t, err)
	require.Len(t, fresh.Carts, 2)
}

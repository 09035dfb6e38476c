package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/eshop-dev/eshop-api/internal/apperr"
	"github.com/eshop-dev/eshop-api/internal/cache"
	"github.com/eshop-dev/eshop-api/internal/models"
	"github.com/eshop-dev/eshop-api/internal/repo"
	"github.com/eshop-dev/eshop-api/internal/transport"
)

// CartService keeps the per-user cart cache entry coherent with the backing
// store: every mutation recomputes the cart view and overwrites the entry,
// every read is cache-or-compute.
type CartService struct {
	carts    *repo.CartRepo
	products *repo.ProductRepo
	cache    cache.Cache
	ttl      time.Duration
}

func NewCartService(carts *repo.CartRepo, products *repo.ProductRepo, c cache.Cache, ttl time.Duration) *CartService {
	return &CartService{carts: carts, products: products, cache: c, ttl: ttl}
}

func cartKey(userID uint) string {
	return cache.Key("cart", userID)
}

// AddItem puts one unit of the product into the cart. A repeated add for the
// same product increments the existing line instead of creating a second one.
func (s *CartService) AddItem(ctx context.Context, userID, productID uint) (*transport.CartResponse, error) {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with id %d not found: %w", productID, apperr.ErrNotFound)
		}
		return nil, err
	}

	existing, err := s.carts.FindByProductAndUser(ctx, productID, userID)
	switch {
	case err == nil:
		existing.Quantity++
		if err := s.carts.Save(ctx, existing); err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		item := models.CartItem{UserID: userID, ProductID: productID, Quantity: 1}
		if err := s.carts.Create(ctx, &item); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	return s.refreshCache(ctx, userID)
}

// UpdateQuantity overwrites a line's quantity with the requested absolute
// amount. The handler validates amount >= 1 before calling.
func (s *CartService) UpdateQuantity(ctx context.Context, userID uint, req transport.UpdateItemRequest) (*transport.CartResponse, error) {
	item, err := s.findOwnedItem(ctx, req.CartItemID, userID)
	if err != nil {
		return nil, err
	}

	item.Quantity = req.Amount
	if err := s.carts.Save(ctx, item); err != nil {
		return nil, err
	}

	return s.refreshCache(ctx, userID)
}

func (s *CartService) RemoveItem(ctx context.Context, userID, itemID uint) (*transport.CartResponse, error) {
	item, err := s.findOwnedItem(ctx, itemID, userID)
	if err != nil {
		return nil, err
	}

	if err := s.carts.DeleteByID(ctx, item.ID); err != nil {
		return nil, err
	}

	return s.refreshCache(ctx, userID)
}

func (s *CartService) GetByUser(ctx context.Context, userID uint) (*transport.CartResponse, error) {
	var view transport.CartResponse
	err := s.cache.GetOrCompute(ctx, cartKey(userID), s.ttl, &view, func() (any, error) {
		return s.computeCart(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *CartService) findOwnedItem(ctx context.Context, itemID, userID uint) (*models.CartItem, error) {
	item, err := s.carts.FindByIDAndUser(ctx, itemID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("item cart with id %d not found in your cart: %w", itemID, apperr.ErrNotFound)
		}
		return nil, err
	}
	return item, nil
}

func (s *CartService) computeCart(ctx context.Context, userID uint) (*transport.CartResponse, error) {
	items, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	total, err := s.carts.TotalPriceByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := transport.CartResponse{
		Carts:      make([]transport.CartItemDto, len(items)),
		TotalPrice: total,
	}
	for i, item := range items {
		view.Carts[i] = transport.CartItemDto{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
	}
	return &view, nil
}

func (s *CartService) refreshCache(ctx context.Context, userID uint) (*transport.CartResponse, error) {
	view, err := s.computeCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Put(ctx, cartKey(userID), view, s.ttl); err != nil {
		return nil, err
	}
	return view, nil
}

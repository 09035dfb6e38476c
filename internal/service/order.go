package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/eshop-dev/eshop-api/internal/apperr"
	"github.com/eshop-dev/eshop-api/internal/cache"
	"github.com/eshop-dev/eshop-api/internal/logging"
	"github.com/eshop-dev/eshop-api/internal/models"
	"github.com/eshop-dev/eshop-api/internal/repo"
	"github.com/eshop-dev/eshop-api/internal/transport"
	"github.com/eshop-dev/eshop-api/internal/util"
)

// UserOrderService turns a cart into an immutable order. The whole checkout
// runs in one transaction: ownership of every referenced cart line is
// validated before the order row is created, and any failure rolls the whole
// thing back, so a rejected checkout leaves no orphaned order.
type UserOrderService struct {
	db     *gorm.DB
	orders *repo.OrderRepo
	cache  cache.Cache
}

func NewUserOrderService(db *gorm.DB, c cache.Cache) *UserOrderService {
	return &UserOrderService{db: db, orders: repo.NewOrderRepo(db), cache: c}
}

func (s *UserOrderService) Create(ctx context.Context, userID uint, req transport.OrderRequest) (*transport.OrderResponse, error) {
	var created models.Order

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		carts := repo.NewCartRepo(tx)
		products := repo.NewProductRepo(tx)
		orders := repo.NewOrderRepo(tx)

		ids := make([]uint, len(req.OrderItems))
		for i, line := range req.OrderItems {
			ids[i] = line.ID
		}
		count, err := carts.CountByIDsAndUser(ctx, ids, userID)
		if err != nil {
			return err
		}
		if count != int64(len(ids)) {
			return fmt.Errorf("cart item not found: %w", apperr.ErrCartItemNotFound)
		}

		total, err := carts.TotalPriceByUser(ctx, userID)
		if err != nil {
			return err
		}

		order := models.Order{
			UserID:      userID,
			Status:      models.OrderStatusPending,
			TotalAmount: total,
		}
		if err := orders.Create(ctx, &order); err != nil {
			return err
		}

		for _, line := range req.OrderItems {
			product, err := products.FindByID(ctx, line.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("product with id %d not found: %w", line.ProductID, apperr.ErrNotFound)
				}
				return err
			}

			item := models.OrderItem{
				OrderID:     order.ID,
				ProductID:   product.ID,
				ProductName: product.Name,
				Price:       product.Price,
				Quantity:    line.Quantity,
			}
			if err := orders.CreateItem(ctx, &item); err != nil {
				return err
			}
			if err := carts.DeleteByID(ctx, line.ID); err != nil {
				return err
			}
		}

		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	// consumed cart lines are gone; drop the stale cart view
	if err := s.cache.Evict(ctx, cartKey(userID)); err != nil {
		logging.FromContext(ctx).Warn("cache_evict_error", "user_id", userID, "error", err)
	}

	return toOrderResponse(&created), nil
}

func (s *UserOrderService) List(ctx context.Context, userID uint, page, size int) (*transport.OrderListResponse, error) {
	offset, limit := util.Calculate(page, size)
	orders, total, err := s.orders.ListByUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, err
	}
	return buildOrderPage(orders, total, offset, limit), nil
}

// Detail lists the snapshot items of one order; an unknown order id surfaces
// as not found rather than an empty page.
func (s *UserOrderService) Detail(ctx context.Context, orderID uint, page, size int) (*transport.OrderItemListResponse, error) {
	offset, limit := util.Calculate(page, size)
	items, total, err := s.orders.ListItemsByOrder(ctx, orderID, offset, limit)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("order not found: %w", apperr.ErrNotFound)
	}

	views := make([]transport.OrderItemResponse, len(items))
	for i, item := range items {
		views[i] = transport.OrderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Price:       item.Price,
			Quantity:    item.Quantity,
		}
	}
	return &transport.OrderItemListResponse{
		Items: views,
		Pagination: transport.PaginationResponse{
			CurrentPage: offset/limit + 1,
			TotalPage:   util.TotalPages(total, limit),
			TotalItems:  total,
			PageSize:    limit,
		},
	}, nil
}

// AdminOrderService serves the back-office order surface.
type AdminOrderService struct {
	orders *repo.OrderRepo
}

func NewAdminOrderService(orders *repo.OrderRepo) *AdminOrderService {
	return &AdminOrderService{orders: orders}
}

func (s *AdminOrderService) ListByStatus(ctx context.Context, status string, page, size int) (*transport.OrderListResponse, error) {
	if !models.ValidOrderStatus(status) {
		return nil, fmt.Errorf("unknown order status %q: %w", status, apperr.ErrValidation)
	}

	offset, limit := util.Calculate(page, size)
	orders, total, err := s.orders.ListByStatus(ctx, models.OrderStatus(status), offset, limit)
	if err != nil {
		return nil, err
	}
	return buildOrderPage(orders, total, offset, limit), nil
}

func (s *AdminOrderService) UpdateStatus(ctx context.Context, req transport.UpdateOrderRequest) (*transport.OrderResponse, error) {
	if !models.ValidOrderStatus(req.Status) {
		return nil, fmt.Errorf("unknown order status %q: %w", req.Status, apperr.ErrValidation)
	}

	order, err := s.orders.FindByID(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order not found: %w", apperr.ErrNotFound)
		}
		return nil, err
	}

	order.Status = models.OrderStatus(req.Status)
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

func buildOrderPage(orders []models.Order, total int64, offset, limit int) *transport.OrderListResponse {
	views := make([]transport.OrderResponse, len(orders))
	for i := range orders {
		views[i] = *toOrderResponse(&orders[i])
	}
	return &transport.OrderListResponse{
		Orders: views,
		Pagination: transport.PaginationResponse{
			CurrentPage: offset/limit + 1,
			TotalPage:   util.TotalPages(total, limit),
			TotalItems:  total,
			PageSize:    limit,
		},
	}
}

func toOrderResponse(order *models.Order) *transport.OrderResponse {
	return &transport.OrderResponse{
		ID:          order.ID,
		Status:      string(order.Status),
		TotalAmount: order.TotalAmount,
		CreatedAt:   order.CreatedAt.Truncate(time.Second),
	}
}

package repo

import (
	"context"
	"database/sql"

	"gorm.io/gorm"

	"github.com/eshop-dev/eshop-api/internal/models"
)

type CartRepo struct {
	DB *gorm.DB
}

func NewCartRepo(db *gorm.DB) *CartRepo { return &CartRepo{DB: db} }

func (r *CartRepo) FindByUser(ctx context.Context, userID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).
		Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *CartRepo) FindByProductAndUser(ctx context.Context, productID, userID uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.DB.WithContext(ctx).
		Where("product_id = ? AND user_id = ?", productID, userID).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *CartRepo) FindByIDAndUser(ctx context.Context, id, userID uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *CartRepo) Create(ctx context.Context, item *models.CartItem) error {
	return r.DB.WithContext(ctx).Create(item).Error
}

func (r *CartRepo) Save(ctx context.Context, item *models.CartItem) error {
	return r.DB.WithContext(ctx).Save(item).Error
}

func (r *CartRepo) DeleteByID(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Delete(&models.CartItem{}, id).Error
}

// TotalPriceByUser sums price*quantity over the user's cart lines in one
// aggregate query; an empty cart yields zero, not NULL.
func (r *CartRepo) TotalPriceByUser(ctx context.Context, userID uint) (float64, error) {
	var total sql.NullFloat64
	err := r.DB.WithContext(ctx).Model(&models.CartItem{}).
		Select("SUM(products.price * cart_items.quantity)").
		Joins("JOIN products ON products.id = cart_items.product_id").
		Where("cart_items.user_id = ?", userID).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if !total.Valid {
		return 0, nil
	}
	return total.Float64, nil
}

// CountByIDsAndUser reports how many of the given cart line ids exist and
// belong to the user; checkout compares it against len(ids).
func (r *CartRepo) CountByIDsAndUser(ctx context.Context, ids []uint, userID uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.CartItem{}).
		Where("id IN ? AND user_id = ?", ids, userID).
		Count(&count).Error
	return count, err
}

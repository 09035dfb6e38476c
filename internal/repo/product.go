package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/eshop-dev/eshop-api/internal/models"
)

// ProductRepo reads see only live rows: every standard query filters the
// soft-delete flag.
type ProductRepo struct {
	DB *gorm.DB
}

func NewProductRepo(db *gorm.DB) *ProductRepo { return &ProductRepo{DB: db} }

func (r *ProductRepo) live(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).Where("is_deleted = ?", false)
}

func (r *ProductRepo) Create(ctx context.Context, product *models.Product) error {
	return r.DB.WithContext(ctx).Create(product).Error
}

func (r *ProductRepo) Save(ctx context.Context, product *models.Product) error {
	return r.DB.WithContext(ctx).Save(product).Error
}

func (r *ProductRepo) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.live(ctx).First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.live(ctx).Model(&models.Product{}).
		Where("LOWER(name) = LOWER(?)", name).Count(&count).Error
	return count > 0, err
}

func (r *ProductRepo) List(ctx context.Context, offset, limit int) ([]models.Product, int64, error) {
	var total int64
	if err := r.live(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Product
	if err := r.live(ctx).Order("id ASC").
		Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *ProductRepo) SearchByName(ctx context.Context, name string, offset, limit int) ([]models.Product, int64, error) {
	match := "%" + name + "%"

	var total int64
	if err := r.live(ctx).Model(&models.Product{}).
		Where("LOWER(name) LIKE LOWER(?)", match).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Product
	if err := r.live(ctx).
		Where("LOWER(name) LIKE LOWER(?)", match).
		Order("id ASC").Offset(offset).Limit(limit).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// SoftDelete flips the deleted flag; the row stays for order history.
func (r *ProductRepo) SoftDelete(ctx context.Context, product *models.Product) error {
	product.IsDeleted = true
	return r.DB.WithContext(ctx).Save(product).Error
}

package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/eshop-dev/eshop-api/internal/models"
)

type ProfileRepo struct {
	DB *gorm.DB
}

func NewProfileRepo(db *gorm.DB) *ProfileRepo { return &ProfileRepo{DB: db} }

func (r *ProfileRepo) FindByUser(ctx context.Context, userID uint) (*models.Profile, error) {
	var profile models.Profile
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).
		First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepo) Create(ctx context.Context, profile *models.Profile) error {
	return r.DB.WithContext(ctx).Create(profile).Error
}

func (r *ProfileRepo) Save(ctx context.Context, profile *models.Profile) error {
	return r.DB.WithContext(ctx).Save(profile).Error
}

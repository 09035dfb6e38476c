package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/eshop-dev/eshop-api/internal/models"
)

type RefreshTokenRepo struct {
	DB *gorm.DB
}

func NewRefreshTokenRepo(db *gorm.DB) *RefreshTokenRepo { return &RefreshTokenRepo{DB: db} }

func (r *RefreshTokenRepo) Create(ctx context.Context, token *models.RefreshToken) error {
	return r.DB.WithContext(ctx).Create(token).Error
}

func (r *RefreshTokenRepo) FindByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	var stored models.RefreshToken
	if err := r.DB.WithContext(ctx).Where("token = ?", token).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

// DeleteByToken is idempotent: deleting an absent token is not an error.
func (r *RefreshTokenRepo) DeleteByToken(ctx context.Context, token string) error {
	return r.DB.WithContext(ctx).Where("token = ?", token).
		Delete(&models.RefreshToken{}).Error
}

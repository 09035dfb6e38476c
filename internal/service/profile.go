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

// ProfileService manages the optional contact record attached to a user.
// A profile is created lazily, empty, the first time it is read.
type ProfileService struct {
	profiles *repo.ProfileRepo
	cache    cache.Cache
	ttl      time.Duration
}

func NewProfileService(profiles *repo.ProfileRepo, c cache.Cache, ttl time.Duration) *ProfileService {
	return &ProfileService{profiles: profiles, cache: c, ttl: ttl}
}

func profileKey(userID uint) string {
	return cache.Key("profile", userID)
}

func (s *ProfileService) GetProfile(ctx context.Context, userID uint) (*transport.ProfileResponse, error) {
	var view transport.ProfileResponse
	err := s.cache.GetOrCompute(ctx, profileKey(userID), s.ttl, &view, func() (any, error) {
		profile, err := s.profiles.FindByUser(ctx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			profile = &models.Profile{UserID: userID}
			err = s.profiles.Create(ctx, profile)
		}
		if err != nil {
			return nil, err
		}
		return &transport.ProfileResponse{Address: profile.Address, Phone: profile.Phone}, nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *ProfileService) UpdateProfile(ctx context.Context, userID uint, req transport.ProfileRequest) (*transport.ProfileResponse, error) {
	profile, err := s.profiles.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user not found: %w", apperr.ErrNotFound)
		}
		return nil, err
	}

	profile.Address = req.Address
	profile.Phone = req.Phone
	if err := s.profiles.Save(ctx, profile); err != nil {
		return nil, err
	}

	view := transport.ProfileResponse{Address: profile.Address, Phone: profile.Phone}
	if err := s.cache.Put(ctx, profileKey(userID), &view, s.ttl); err != nil {
		return nil, err
	}
	return &view, nil
}

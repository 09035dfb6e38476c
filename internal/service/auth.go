package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/eshop-dev/eshop-api/internal/apperr"
	"github.com/eshop-dev/eshop-api/internal/hash"
	"github.com/eshop-dev/eshop-api/internal/models"
	"github.com/eshop-dev/eshop-api/internal/repo"
	"github.com/eshop-dev/eshop-api/internal/token"
	"github.com/eshop-dev/eshop-api/internal/transport"
)

const RefreshTTL = 7 * 24 * time.Hour

// RefreshTokenService issues, verifies and revokes the opaque long-lived
// tokens used to renew access tokens.
type RefreshTokenService struct {
	users  *repo.UserRepo
	tokens *repo.RefreshTokenRepo
	now    func() time.Time
}

func NewRefreshTokenService(users *repo.UserRepo, tokens *repo.RefreshTokenRepo, now func() time.Time) *RefreshTokenService {
	if now == nil {
		now = time.Now
	}
	return &RefreshTokenService{users: users, tokens: tokens, now: now}
}

func (s *RefreshTokenService) Create(ctx context.Context, email string) (*models.RefreshToken, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("email not found: %w", apperr.ErrNotFound)
		}
		return nil, err
	}

	raw, err := token.NewOpaqueToken()
	if err != nil {
		return nil, err
	}

	refresh := &models.RefreshToken{
		Token:      raw,
		UserID:     user.ID,
		ExpiryDate: s.now().Add(RefreshTTL),
	}
	if err := s.tokens.Create(ctx, refresh); err != nil {
		return nil, err
	}
	return refresh, nil
}

// Verify returns the stored token row. An unknown value fails as invalid; an
// expired value deletes the row before failing, so a later verify of the same
// value reports invalid, not expired.
func (s *RefreshTokenService) Verify(ctx context.Context, raw string) (*models.RefreshToken, error) {
	stored, err := s.tokens.FindByToken(ctx, raw)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("invalid refresh token: %w", apperr.ErrInvalidRefreshToken)
		}
		return nil, err
	}

	if stored.ExpiryDate.Before(s.now()) {
		if err := s.tokens.DeleteByToken(ctx, raw); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("refresh token expired: %w", apperr.ErrInvalidRefreshToken)
	}
	return stored, nil
}

// Revoke deletes the token row; revoking an unknown value is a no-op.
func (s *RefreshTokenService) Revoke(ctx context.Context, raw string) error {
	return s.tokens.DeleteByToken(ctx, raw)
}

// AuthService composes the password check, the token codec and the refresh
// token store into the register/login/refresh flows.
type AuthService struct {
	users   *repo.UserRepo
	refresh *RefreshTokenService
	codec   *token.Codec
}

func NewAuthService(users *repo.UserRepo, refresh *RefreshTokenService, codec *token.Codec) *AuthService {
	return &AuthService{users: users, refresh: refresh, codec: codec}
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*transport.RegisterResponse, error) {
	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("email already exists in system: %w", apperr.ErrAlreadyExists)
	}

	hashed, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:    req.Email,
		Password: hashed,
		Role:     models.RoleUser,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		return nil, err
	}

	return &transport.RegisterResponse{Email: user.Email, Role: user.Role}, nil
}

func (s *AuthService) Login(ctx context.Context, req transport.LoginRequest) (*transport.LoginResponse, error) {
	user, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	access, err := s.codec.Issue(user.Email, user.Authority())
	if err != nil {
		return nil, err
	}
	refresh, err := s.refresh.Create(ctx, user.Email)
	if err != nil {
		return nil, err
	}

	return &transport.LoginResponse{
		Email:        user.Email,
		Role:         user.Authority(),
		Token:        access,
		RefreshToken: refresh.Token,
	}, nil
}

// Refresh trades a valid refresh token for a new access token. The refresh
// token itself is returned unchanged; rotation on use is not performed.
func (s *AuthService) Refresh(ctx context.Context, req transport.RefreshTokenRequest) (*transport.RefreshTokenResponse, error) {
	stored, err := s.refresh.Verify(ctx, req.Token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user not found: %w", apperr.ErrNotFound)
		}
		return nil, err
	}

	access, err := s.codec.Issue(user.Email, user.Authority())
	if err != nil {
		return nil, err
	}

	return &transport.RefreshTokenResponse{
		NewToken:     access,
		RefreshToken: stored.Token,
	}, nil
}

func (s *AuthService) Logout(ctx context.Context, raw string) error {
	return s.refresh.Revoke(ctx, raw)
}

// authenticate fails the same way for an unknown email and a wrong password.
func (s *AuthService) authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("wrong email or password: %w", apperr.ErrBadCredentials)
		}
		return nil, err
	}

	if !hash.CheckPassword(user.Password, password) {
		return nil, fmt.Errorf("wrong email or password: %w", apperr.ErrBadCredentials)
	}
	return user, nil
}

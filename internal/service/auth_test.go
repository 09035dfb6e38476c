package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/eshop-dev/eshop-api/internal/apperr"
	"github.com/eshop-dev/eshop-api/internal/hash"
	"github.com/eshop-dev/eshop-api/internal/models"
	"github.com/eshop-dev/eshop-api/internal/repo"
	"github.com/eshop-dev/eshop-api/internal/transport"
	"gorm.io/gorm"
)

func newAuthService(t *testing.T, db *gorm.DB, now func() time.Time) *AuthService {
	t.Helper()

	users := repo.NewUserRepo(db)
	refresh := NewRefreshTokenService(users, repo.NewRefreshTokenRepo(db), now)
	return NewAuthService(users, refresh, newTestCodec(t, now))
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newAuthService(t, db, nil)

	resp, err := svc.Register(ctx, transport.RegisterRequest{Email: "new@example.com", Password: "secret123"})
	require.NoError(t, err)
	require.Equal(t, "new@example.com", resp.Email)
	require.Equal(t, models.RoleUser, resp.Role)

	var stored models.User
	require.NoError(t, db.Where("email = ?", "new@example.com").First(&stored).Error)
	require.NotEqual(t, "secret123", stored.Password)
	require.True(t, hash.CheckPassword(stored.Password, "secret123"))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newAuthService(t, db, nil)

	_, err := svc.Register(ctx, transport.RegisterRequest{Email: "dup@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, transport.RegisterRequest{Email: "dup@example.com", Password: "other456"})
	require.ErrorIs(t, err, apperr.ErrAlreadyExists)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newAuthService(t, db, func() time.Time { return now })
	seedUser(t, db, "user@example.com", "secret123", models.RoleUser)

	resp, err := svc.Login(ctx, transport.LoginRequest{Email: "user@example.com", Password: "secret123"})
	require.NoError(t, err)
	require.Equal(t, "user@example.com", resp.Email)
	require.Equal(t, "ROLE_USER", resp.Role)

	claims, err := svc.codec.Verify(resp.Token)
	require.NoError(t, err)
	require.Equal(t, "user@example.com", claims.Subject)
	require.Equal(t, "ROLE_USER", claims.Role)

	var stored models.RefreshToken
	require.NoError(t, db.Where("token = ?", resp.RefreshToken).First(&stored).Error)
	require.WithinDuration(t, now.Add(RefreshTTL), stored.ExpiryDate, time.Second)
}

func TestLoginBadCredentials(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newAuthService(t, db, nil)
	seedUser(t, db, "user@example.com", "secret123", models.RoleUser)

	_, err := svc.Login(ctx, transport.LoginRequest{Email: "user@example.com", Password: "wrong"})
	require.ErrorIs(t, err, apperr.ErrBadCredentials)

	_, unknownErr := svc.Login(ctx, transport.LoginRequest{Email: "ghost@example.com", Password: "secret123"})
	require.ErrorIs(t, unknownErr, apperr.ErrBadCredentials)
	require.Equal(t, err.Error(), unknownErr.Error())
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newAuthService(t, db, nil)
	seedUser(t, db, "user@example.com", "secret123", models.RoleUser)

	login, err := svc.Login(ctx, transport.LoginRequest{Email: "user@example.com", Password: "secret123"})
	require.NoError(t, err)

	resp, err := svc.Refresh(ctx, transport.RefreshTokenRequest{Token: login.RefreshToken})
	require.NoError(t, err)
	require.Equal(t, login.RefreshToken, resp.RefreshToken)

	claims, err := svc.codec.Verify(resp.NewToken)
	require.NoError(t, err)
	require.Equal(t, "user@example.com", claims.Subject)

	_, err = svc.Refresh(ctx, transport.RefreshTokenRequest{Token: "no-such-token"})
	require.ErrorIs(t, err, apperr.ErrInvalidRefreshToken)
}

func TestRefreshExpiredTokenDeleted(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := func() time.Time { return clock }

	users := repo.NewUserRepo(db)
	refresh := NewRefreshTokenService(users, repo.NewRefreshTokenRepo(db), now)
	seedUser(t, db, "user@example.com", "secret123", models.RoleUser)

	created, err := refresh.Create(ctx, "user@example.com")
	require.NoError(t, err)

	clock = clock.Add(RefreshTTL + time.Hour)
	_, err = refresh.Verify(ctx, created.Token)
	require.ErrorIs(t, err, apperr.ErrInvalidRefreshToken)

	var count int64
	require.NoError(t, db.Model(&models.RefreshToken{}).Where("token = ?", created.Token).Count(&count).Error)
	require.Zero(t, count)

	_, err = refresh.Verify(ctx, created.Token)
	require.ErrorIs(t, err, apperr.ErrInvalidRefreshToken)
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newAuthService(t, db, nil)
	seedUser(t, db, "user@example.com", "secret123", models.RoleUser)

	login, err := svc.Login(ctx, transport.LoginRequest{Email: "user@example.com", Password: "secret123"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, login.RefreshToken))

	_, err = svc.Refresh(ctx, transport.RefreshTokenRequest{Token: login.RefreshToken})
	require.ErrorIs(t, err, apperr.ErrInvalidRefreshToken)

	// revoking an already revoked token stays quiet
	require.NoError(t, svc.Logout(ctx, login.RefreshToken))
}

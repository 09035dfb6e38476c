package service

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/eshop-dev/eshop-api/internal/hash"
	"github.com/eshop-dev/eshop-api/internal/models"
	"github.com/eshop-dev/eshop-api/internal/token"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.RefreshToken{},
		&models.CartItem{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
	))
	return db
}

func newTestCodec(t *testing.T, now func() time.Time) *token.Codec {
	t.Helper()

	secret := base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))
	codec, err := token.NewCodec(secret, now)
	require.NoError(t, err)
	return codec
}

func seedUser(t *testing.T, db *gorm.DB, email, password, role string) *models.User {
	t.Helper()

	hashed, err := hash.HashPassword(password)
	require.NoError(t, err)

	user := models.User{Email: email, Password: hashed, Role: role}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) *models.Product {
	t.Helper()

	product := models.Product{
		Name:       name,
		Price:      price,
		Stock:      stock,
		CategoryID: 1,
		Brand:      "acme",
	}
	require.NoError(t, db.Create(&product).Error)
	return &product
}

package httpserver

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/eshop-dev/eshop-api/internal/cache"
	"github.com/eshop-dev/eshop-api/internal/hash"
	"github.com/eshop-dev/eshop-api/internal/models"
	"github.com/eshop-dev/eshop-api/internal/repo"
	"github.com/eshop-dev/eshop-api/internal/service"
	"github.com/eshop-dev/eshop-api/internal/token"
)

type testEnv struct {
	e  *echo.Echo
	db *gorm.DB
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Profile{}, &models.RefreshToken{},
		&models.CartItem{}, &models.Product{}, &models.Order{}, &models.OrderItem{},
	))

	secret := base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))
	codec, err := token.NewCodec(secret, nil)
	require.NoError(t, err)

	store := cache.NewMemory()
	users := repo.NewUserRepo(db)
	refreshSvc := service.NewRefreshTokenService(users, repo.NewRefreshTokenRepo(db), nil)
	authSvc := service.NewAuthService(users, refreshSvc, codec)
	cartSvc := service.NewCartService(repo.NewCartRepo(db), repo.NewProductRepo(db), store, 30*time.Minute)
	publicSvc := service.NewPublicProductService(repo.NewProductRepo(db), store, nil, time.Hour)
	adminSvc := service.NewAdminProductService(repo.NewProductRepo(db), store, nil)
	orderSvc := service.NewUserOrderService(db, store)
	adminOrderSvc := service.NewAdminOrderService(repo.NewOrderRepo(db))
	profileSvc := service.NewProfileService(repo.NewProfileRepo(db), store, time.Hour)

	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler
	Register(e, Deps{
		Codec:         codec,
		Users:         users,
		Auth:          &AuthHandler{Auth: authSvc},
		Cart:          &CartHandler{Cart: cartSvc},
		Profile:       &ProfileHandler{Profiles: profileSvc},
		Orders:        &OrderHandler{Orders: orderSvc},
		PublicProduct: &PublicProductHandler{Products: publicSvc},
		AdminProduct:  &AdminProductHandler{Products: adminSvc},
		AdminOrders:   &AdminOrderHandler{Orders: adminOrderSvc},
	})

	return &testEnv{e: e, db: db}
}

func (env *testEnv) do(t *testing.T, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) seedUser(t *testing.T, email, password, role string) *models.User {
	t.Helper()

	hashed, err := hash.HashPassword(password)
	require.NoError(t, err)
	user := models.User{Email: email, Password: hashed, Role: role}
	require.NoError(t, env.db.Create(&user).Error)
	return &user
}

func (env *testEnv) login(t *testing.T, email, password string) string {
	t.Helper()

	rec := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ApiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	return data["token"].(string)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "new@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp ApiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, http.StatusCreated, resp.Status)

	rec = env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "new@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusConflict, rec.Code)

	body := decodeError(t, rec)
	require.Equal(t, http.StatusConflict, body.Status)
	require.Equal(t, "email already exists in system", body.Message)
	require.Equal(t, "/api/auth/register", body.Path)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "not-an-email", "password": "secret123",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeError(t, rec)
	require.Equal(t, "Validation failed", body.Message)
	require.NotEmpty(t, body.Errors)
	require.Contains(t, body.Errors[0], "email")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/user/cart", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	body := decodeError(t, rec)
	require.Equal(t, http.StatusUnauthorized, body.Status)
	require.Equal(t, "/api/user/cart", body.Path)

	rec = env.do(t, http.MethodGet, "/api/user/cart", "garbage.token.value", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCartFlow(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "user@example.com", "secret123", models.RoleUser)
	product := models.Product{Name: "phone", Price: 500, Stock: 10, CategoryID: 1, Brand: "acme"}
	require.NoError(t, env.db.Create(&product).Error)

	bearer := env.login(t, "user@example.com", "secret123")

	rec := env.do(t, http.MethodPost, "/api/user/cart/items", bearer, map[string]any{"productId": product.ID})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/user/cart", bearer, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ApiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	data := resp.Data.(map[string]any)
	require.InDelta(t, 500, data["totalPrice"].(float64), 0.001)
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "user@example.com", "secret123", models.RoleUser)
	env.seedUser(t, "admin@example.com", "secret123", models.RoleAdmin)

	payload := map[string]any{
		"name": "phone", "description": "a phone", "price": 500.0,
		"stock": 10, "categoryId": 1, "brand": "acme",
	}

	userBearer := env.login(t, "user@example.com", "secret123")
	rec := env.do(t, http.MethodPost, "/api/admin/products", userBearer, payload)
	require.Equal(t, http.StatusForbidden, rec.Code)

	adminBearer := env.login(t, "admin@example.com", "secret123")
	rec = env.do(t, http.MethodPost, "/api/admin/products", adminBearer, payload)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/public/products/1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

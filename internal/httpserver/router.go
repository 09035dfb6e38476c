package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eshop-dev/eshop-api/internal/middleware/auth"
	"github.com/eshop-dev/eshop-api/internal/repo"
	"github.com/eshop-dev/eshop-api/internal/token"
)

// Deps bundles everything the router needs to wire the API surface.
type Deps struct {
	Codec *token.Codec
	Users *repo.UserRepo

	Auth          *AuthHandler
	Cart          *CartHandler
	Profile       *ProfileHandler
	Orders        *OrderHandler
	PublicProduct *PublicProductHandler
	AdminProduct  *AdminProductHandler
	AdminOrders   *AdminOrderHandler
}

func Register(e *echo.Echo, d Deps) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := e.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", d.Auth.Register)
	authGroup.POST("/login", d.Auth.Login)
	authGroup.POST("/refresh", d.Auth.Refresh)
	authGroup.POST("/logout", d.Auth.Logout)

	public := api.Group("/public/products")
	public.GET("", d.PublicProduct.List)
	public.GET("/search", d.PublicProduct.Search)
	public.GET("/:id", d.PublicProduct.Get)

	requireLogin := auth.RequireLogin(d.Codec, d.Users)

	user := api.Group("/user", requireLogin)
	user.GET("/cart", d.Cart.Get)
	user.POST("/cart/items", d.Cart.AddItem)
	user.PATCH("/cart/items", d.Cart.UpdateItem)
	user.DELETE("/cart/items/:id", d.Cart.RemoveItem)
	user.GET("/profile", d.Profile.Get)
	user.PUT("/profile", d.Profile.Update)
	user.POST("/orders", d.Orders.Create)
	user.GET("/orders", d.Orders.List)
	user.GET("/orders/:id/items", d.Orders.Detail)

	admin := api.Group("/admin", requireLogin, auth.AdminOnly)
	admin.POST("/products", d.AdminProduct.Create)
	admin.PUT("/products/:id", d.AdminProduct.Update)
	admin.DELETE("/products/:id", d.AdminProduct.Delete)
	admin.GET("/products/:id/stock", d.AdminProduct.StockInfo)
	admin.PATCH("/products/:id/stock", d.AdminProduct.UpdateStock)
	admin.GET("/orders", d.AdminOrders.ListByStatus)
	admin.PUT("/orders", d.AdminOrders.UpdateStatus)
}

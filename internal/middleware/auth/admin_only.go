package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eshop-dev/eshop-api/internal/models"
)

// AdminOnly rejects callers whose role claim does not grant admin rights.
// It must run after RequireLogin.
func AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, ok := FromContext(c)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
		}
		if p.Role != "ROLE_"+models.RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "you don't have enough rights")
		}
		return next(c)
	}
}

package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/eshop-dev/eshop-api/internal/middleware/auth"
	"github.com/eshop-dev/eshop-api/internal/service"
	"github.com/eshop-dev/eshop-api/internal/transport"
)

type ProfileHandler struct {
	Profiles *service.ProfileService
}

func (h *ProfileHandler) Get(c echo.Context) error {
	p, _ := auth.FromContext(c)

	resp, err := h.Profiles.GetProfile(c.Request().Context(), p.ID)
	if err != nil {
		return err
	}

	return ok(c, "Profile fetched successfully", resp)
}

func (h *ProfileHandler) Update(c echo.Context) error {
	p, _ := auth.FromContext(c)

	var req transport.ProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	resp, err := h.Profiles.UpdateProfile(c.Request().Context(), p.ID, req)
	if err != nil {
		return err
	}

	return ok(c, "Profile updated successfully", resp)
}

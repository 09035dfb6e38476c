package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/eshop-dev/eshop-api/internal/middleware/auth"
	"github.com/eshop-dev/eshop-api/internal/service"
	"github.com/eshop-dev/eshop-api/internal/transport"
)

type CartHandler struct {
	Cart *service.CartService
}

func (h *CartHandler) Get(c echo.Context) error {
	p, _ := auth.FromContext(c)

	resp, err := h.Cart.GetByUser(c.Request().Context(), p.ID)
	if err != nil {
		return err
	}

	return ok(c, "Cart fetched successfully", resp)
}

func (h *CartHandler) AddItem(c echo.Context) error {
	p, _ := auth.FromContext(c)

	var req transport.AddItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	resp, err := h.Cart.AddItem(c.Request().Context(), p.ID, req.ProductID)
	if err != nil {
		return err
	}

	return ok(c, "Item added to cart", resp)
}

func (h *CartHandler) UpdateItem(c echo.Context) error {
	p, _ := auth.FromContext(c)

	var req transport.UpdateItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	resp, err := h.Cart.UpdateQuantity(c.Request().Context(), p.ID, req)
	if err != nil {
		return err
	}

	return ok(c, "Cart item updated", resp)
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	p, _ := auth.FromContext(c)

	itemID, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	resp, err := h.Cart.RemoveItem(c.Request().Context(), p.ID, itemID)
	if err != nil {
		return err
	}

	return ok(c, "Item removed from cart", resp)
}

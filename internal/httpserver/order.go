package httpserver

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eshop-dev/eshop-api/internal/logging"
	"github.com/eshop-dev/eshop-api/internal/middleware/auth"
	"github.com/eshop-dev/eshop-api/internal/mykafka"
	"github.com/eshop-dev/eshop-api/internal/service"
	"github.com/eshop-dev/eshop-api/internal/transport"
)

type OrderHandler struct {
	Orders   *service.UserOrderService
	Producer *mykafka.Producer
}

func (h *OrderHandler) Create(c echo.Context) error {
	p, _ := auth.FromContext(c)

	var req transport.OrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	resp, err := h.Orders.Create(c.Request().Context(), p.ID, req)
	if err != nil {
		return err
	}

	h.publish(c, resp.ID, map[string]interface{}{
		"type":        "order_created",
		"orderId":     resp.ID,
		"userId":      p.ID,
		"totalAmount": resp.TotalAmount,
	})

	return created(c, "Order created successfully", resp)
}

func (h *OrderHandler) List(c echo.Context) error {
	p, _ := auth.FromContext(c)
	page, size := pageParams(c)

	resp, err := h.Orders.List(c.Request().Context(), p.ID, page, size)
	if err != nil {
		return err
	}

	return ok(c, "Orders fetched successfully", resp)
}

func (h *OrderHandler) Detail(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	page, size := pageParams(c)

	resp, err := h.Orders.Detail(c.Request().Context(), id, page, size)
	if err != nil {
		return err
	}

	return ok(c, "Order items fetched successfully", resp)
}

func (h *OrderHandler) publish(c echo.Context, orderID uint, event map[string]interface{}) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Producer.PublishEvent(ctx, mykafka.TopicOrderEvents, fmt.Sprint(orderID), event); err != nil {
		logging.FromContext(c.Request().Context()).Warn("failed to publish event", "topic", mykafka.TopicOrderEvents, "error", err)
	}
}

type AdminOrderHandler struct {
	Orders *service.AdminOrderService
}

func (h *AdminOrderHandler) ListByStatus(c echo.Context) error {
	status := c.QueryParam("status")
	page, size := pageParams(c)

	resp, err := h.Orders.ListByStatus(c.Request().Context(), status, page, size)
	if err != nil {
		return err
	}

	return ok(c, "Orders fetched successfully", resp)
}

func (h *AdminOrderHandler) UpdateStatus(c echo.Context) error {
	var req transport.UpdateOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	resp, err := h.Orders.UpdateStatus(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return ok(c, "Order updated successfully", resp)
}

package httpserver

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eshop-dev/eshop-api/internal/apperr"
	"github.com/eshop-dev/eshop-api/internal/logging"
	"github.com/eshop-dev/eshop-api/internal/mykafka"
	"github.com/eshop-dev/eshop-api/internal/service"
	"github.com/eshop-dev/eshop-api/internal/transport"
)

type PublicProductHandler struct {
	Products *service.PublicProductService
}

func (h *PublicProductHandler) List(c echo.Context) error {
	page, size := pageParams(c)

	resp, err := h.Products.List(c.Request().Context(), page, size)
	if err != nil {
		return err
	}

	return ok(c, "Products fetched successfully", resp)
}

func (h *PublicProductHandler) Get(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	resp, err := h.Products.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return ok(c, "Product fetched successfully", resp)
}

func (h *PublicProductHandler) Search(c echo.Context) error {
	name := c.QueryParam("name")
	if name == "" {
		return apperr.Validation(map[string]string{"name": "query parameter is required"})
	}
	page, size := pageParams(c)

	resp, err := h.Products.SearchByName(c.Request().Context(), name, page, size)
	if err != nil {
		return err
	}

	return ok(c, "Products fetched successfully", resp)
}

type AdminProductHandler struct {
	Products *service.AdminProductService
	Producer *mykafka.Producer
}

func (h *AdminProductHandler) Create(c echo.Context) error {
	var req transport.CreateProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	resp, err := h.Products.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}

	h.publish(c, resp.ID, map[string]interface{}{
		"type":      "product_created",
		"productId": resp.ID,
		"name":      resp.Name,
	})

	return created(c, "Product created successfully", resp)
}

func (h *AdminProductHandler) Update(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	var req transport.UpdateProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	resp, err := h.Products.Update(c.Request().Context(), id, req)
	if err != nil {
		return err
	}

	h.publish(c, resp.ID, map[string]interface{}{
		"type":      "product_updated",
		"productId": resp.ID,
	})

	return ok(c, "Product updated successfully", resp)
}

func (h *AdminProductHandler) UpdateStock(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	var req transport.StockRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	resp, err := h.Products.UpdateStock(c.Request().Context(), id, req)
	if err != nil {
		return err
	}

	return ok(c, "Stock updated successfully", resp)
}

func (h *AdminProductHandler) StockInfo(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	resp, err := h.Products.StockInfo(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return ok(c, "Stock fetched successfully", resp)
}

func (h *AdminProductHandler) Delete(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.Products.Remove(c.Request().Context(), id); err != nil {
		return err
	}

	h.publish(c, id, map[string]interface{}{
		"type":      "product_deleted",
		"productId": id,
	})

	return ok(c, "Product deleted successfully", nil)
}

func (h *AdminProductHandler) publish(c echo.Context, productID uint, event map[string]interface{}) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Producer.PublishEvent(ctx, mykafka.TopicProductEvents, fmt.Sprint(productID), event); err != nil {
		logging.FromContext(c.Request().Context()).Warn("failed to publish event", "topic", mykafka.TopicProductEvents, "error", err)
	}
}

package httpserver

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eshop-dev/eshop-api/internal/logging"
	"github.com/eshop-dev/eshop-api/internal/mykafka"
	"github.com/eshop-dev/eshop-api/internal/service"
	"github.com/eshop-dev/eshop-api/internal/transport"
)

type AuthHandler struct {
	Auth     *service.AuthService
	Producer *mykafka.Producer
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req transport.RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	resp, err := h.Auth.Register(c.Request().Context(), req)
	if err != nil {
		return err
	}

	h.publish(c, mykafka.TopicUserEvents, resp.Email, map[string]interface{}{
		"type":  "user_registered",
		"email": resp.Email,
	})

	return created(c, "User registered successfully", resp)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req transport.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	resp, err := h.Auth.Login(c.Request().Context(), req)
	if err != nil {
		return err
	}

	h.publish(c, mykafka.TopicUserEvents, resp.Email, map[string]interface{}{
		"type":  "user_logged_in",
		"email": resp.Email,
	})

	return ok(c, "Login successful", resp)
}

func (h *AuthHandler) Refresh(c echo.Context) error {
	var req transport.RefreshTokenRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	resp, err := h.Auth.Refresh(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return ok(c, "Token refreshed successfully", resp)
}

func (h *AuthHandler) Logout(c echo.Context) error {
	var req transport.RefreshTokenRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.Auth.Logout(c.Request().Context(), req.Token); err != nil {
		return err
	}

	return ok(c, "Logged out successfully", nil)
}

func (h *AuthHandler) publish(c echo.Context, topic, key string, event map[string]interface{}) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Producer.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Warn("failed to publish event", "topic", topic, "error", err)
	}
}

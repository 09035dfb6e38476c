package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ApiResponse is the envelope every successful endpoint returns.
type ApiResponse struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse is the uniform body returned for every failed request.
type ErrorResponse struct {
	Status  int      `json:"status"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
	Path    string   `json:"path"`
}

func ok(c echo.Context, message string, data interface{}) error {
	return c.JSON(http.StatusOK, ApiResponse{Status: http.StatusOK, Message: message, Data: data})
}

func created(c echo.Context, message string, data interface{}) error {
	return c.JSON(http.StatusCreated, ApiResponse{Status: http.StatusCreated, Message: message, Data: data})
}

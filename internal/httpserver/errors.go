package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eshop-dev/eshop-api/internal/apperr"
	"github.com/eshop-dev/eshop-api/internal/logging"
)

// ErrorHandler converts any error escaping a handler into the uniform
// error body. Service errors wrap one of the apperr sentinels; everything
// else becomes a 500 without leaking internals to the client.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	resp := ErrorResponse{
		Status:  http.StatusInternalServerError,
		Message: "An unexpected error occurred",
		Path:    c.Request().URL.Path,
	}

	var ve *apperr.ValidationError
	var he *echo.HTTPError

	switch {
	case errors.As(err, &ve):
		resp.Status = http.StatusBadRequest
		resp.Message = "Validation failed"
		resp.Errors = fieldMessages(ve.Fields)
	case errors.As(err, &he):
		resp.Status = he.Code
		resp.Message = fmt.Sprint(he.Message)
	case errors.Is(err, apperr.ErrNotFound):
		resp.Status = http.StatusNotFound
		resp.Message = trimSentinel(err, apperr.ErrNotFound)
	case errors.Is(err, apperr.ErrCartItemNotFound):
		resp.Status = http.StatusNotFound
		resp.Message = trimSentinel(err, apperr.ErrCartItemNotFound)
	case errors.Is(err, apperr.ErrAlreadyExists):
		resp.Status = http.StatusConflict
		resp.Message = trimSentinel(err, apperr.ErrAlreadyExists)
	case errors.Is(err, apperr.ErrBadCredentials):
		resp.Status = http.StatusUnauthorized
		resp.Message = trimSentinel(err, apperr.ErrBadCredentials)
	case errors.Is(err, apperr.ErrInvalidRefreshToken):
		resp.Status = http.StatusUnauthorized
		resp.Message = trimSentinel(err, apperr.ErrInvalidRefreshToken)
	case errors.Is(err, apperr.ErrValidation):
		resp.Status = http.StatusBadRequest
		resp.Message = trimSentinel(err, apperr.ErrValidation)
	default:
		log := logging.FromContext(c.Request().Context())
		log.Error("unhandled error", "error", err, "path", resp.Path)
	}

	if writeErr := c.JSON(resp.Status, resp); writeErr != nil {
		log := logging.FromContext(c.Request().Context())
		log.Error("failed to write error response", "error", writeErr)
	}
}

// trimSentinel strips the wrapped sentinel suffix so the client sees only
// the human readable part of the message.
func trimSentinel(err error, sentinel error) string {
	return strings.TrimSuffix(err.Error(), ": "+sentinel.Error())
}

func fieldMessages(fields map[string]string) []string {
	out := make([]string, 0, len(fields))
	for field, msg := range fields {
		out = append(out, field+": "+msg)
	}
	sort.Strings(out)
	return out
}

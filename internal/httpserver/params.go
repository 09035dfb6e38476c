package httpserver

import (
	"fmt"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/eshop-dev/eshop-api/internal/apperr"
	"github.com/eshop-dev/eshop-api/internal/util"
	"github.com/eshop-dev/eshop-api/internal/validation"
)

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return apperr.Validation(map[string]string{"body": "malformed request body"})
	}
	if fields := validation.Check(req); fields != nil {
		return apperr.Validation(fields)
	}
	return nil
}

func uintParam(c echo.Context, name string) (uint, error) {
	raw := c.Param(name)
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return 0, apperr.Validation(map[string]string{name: fmt.Sprintf("%q is not a valid id", raw)})
	}
	return uint(v), nil
}

func pageParams(c echo.Context) (page, size int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	size, _ = strconv.Atoi(c.QueryParam("size"))
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = util.DefaultPageSize
	}
	return page, size
}

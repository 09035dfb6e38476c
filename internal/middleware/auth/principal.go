package auth

import (
	"github.com/labstack/echo/v4"
)

const principalKey = "principal"

// Principal identifies the authenticated caller of a request.
type Principal struct {
	ID    uint
	Email string
	Role  string
}

func FromContext(c echo.Context) (Principal, bool) {
	p, ok := c.Get(principalKey).(Principal)
	return p, ok
}

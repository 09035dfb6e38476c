package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/eshop-dev/eshop-api/internal/apperr"
	"github.com/eshop-dev/eshop-api/internal/repo"
	"github.com/eshop-dev/eshop-api/internal/token"
)

// RequireLogin validates the bearer access token and resolves the caller
// into a Principal stored in the request context. Requests without a valid
// token never reach the handler.
func RequireLogin(codec *token.Codec, users *repo.UserRepo) echo.MiddlewareFunc {
	verify := echojwt.WithConfig(echojwt.Config{
		KeyFunc: codec.Keyfunc,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return &token.AccessClaims{}
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return fmt.Errorf("invalid or missing access token: %w", apperr.ErrBadCredentials)
		},
		SuccessHandler: func(c echo.Context) {
			tok, _ := c.Get("user").(*jwt.Token)
			if tok == nil {
				return
			}
			claims, ok := tok.Claims.(*token.AccessClaims)
			if !ok {
				return
			}
			user, err := users.FindByEmail(c.Request().Context(), claims.Subject)
			if err != nil {
				return
			}
			c.Set(principalKey, Principal{ID: user.ID, Email: user.Email, Role: claims.Role})
		},
	})

	ensure := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := FromContext(c); !ok {
				return fmt.Errorf("unknown token subject: %w", apperr.ErrBadCredentials)
			}
			return next(c)
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return verify(ensure(next))
	}
}

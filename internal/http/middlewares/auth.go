package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"task-manager.com/task-manager/internal/services"
)

const (
	ContextUserKey  = "user"
	ContextTokenKey = "token"
)

// BearerAuth resolves the Authorization bearer token to a user and stores
// both on the request context. Requests without a valid token get 401.
func BearerAuth(authService *services.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)

			const prefix = "Bearer "
			if !strings.HasPrefix(header, prefix) {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
			}

			token := strings.TrimPrefix(header, prefix)

			user, err := authService.UserFromToken(c.Request().Context(), token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
			}

			c.Set(ContextUserKey, user)
			c.Set(ContextTokenKey, token)

			return next(c)
		}
	}
}

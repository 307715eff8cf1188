package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// RequireAuthenticated stops requests that reached the handler chain without
// an identity.
func RequireAuthenticated(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := IdentityFrom(c); ok {
			return next(c)
		}
		if strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization)) == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{
				"error":   ErrMissingAuthToken,
				"message": "Authorization header is required",
			})
		}
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error":   ErrInvalidAuthToken,
			"message": "Invalid or expired token",
		})
	}
}

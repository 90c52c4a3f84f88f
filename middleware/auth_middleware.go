// middleware/auth_middleware.go
package middleware

import (
	"net/http"

	"github.com/harisapp/haris_backend/models"
	"github.com/labstack/echo/v4"
)

// RequireUserType checks if the authenticated user has one of the allowed user types
func RequireUserType(allowedTypes ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userType := ExtractUserType(c)

			// If no user type found, deny access
			if userType == "" {
				c.Logger().Error("Authentication failed: user type not found")
				return c.JSON(http.StatusUnauthorized, models.Response{
					Status:  http.StatusUnauthorized,
					Message: "Authentication failed: user type not found",
				})
			}

			for _, allowedType := range allowedTypes {
				if userType == allowedType {
					return next(c)
				}
			}

			c.Logger().Errorf("Access denied for user type: %s, allowed types: %v", userType, allowedTypes)
			return c.JSON(http.StatusForbidden, models.Response{
				Status:  http.StatusForbidden,
				Message: "Access denied for your user type",
			})
		}
	}
}

// RequireAdmin is shorthand for the admin-only route groups
func RequireAdmin() echo.MiddlewareFunc {
	return RequireUserType(models.UserTypeAdmin)
}

// IsAdmin reports whether the current request carries an admin session
func IsAdmin(c echo.Context) bool {
	return ExtractUserType(c) == models.UserTypeAdmin
}

// controllers/reminder_controller.go
package controllers

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"

	"github.com/harisapp/haris_backend/middleware"
	"github.com/harisapp/haris_backend/models"
	"github.com/harisapp/haris_backend/services"
)

// ReminderController triggers the reminder sweep. The endpoint is meant to be
// hit by a cron job carrying the shared secret, but a logged-in admin can run
// it by hand too.
type ReminderController struct {
	reminders *services.ReminderService
}

func NewReminderController(reminders *services.ReminderService) *ReminderController {
	return &ReminderController{reminders: reminders}
}

// Sweep handles GET /api/reminders/run. It is meant to be hit by a cron job
// carrying the shared secret, but an admin can trigger it manually too.
func (rc *ReminderController) Sweep(c echo.Context) error {
	if !rc.authorized(c) {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	result, err := rc.reminders.Sweep(c.Request().Context())
	if err != nil {
		if errors.Is(err, services.ErrSweepInProgress) {
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "A reminder sweep is already running",
			})
		}
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Reminder sweep completed",
		Data:    result,
	})
}

// authorized accepts either the cron secret or an admin bearer token. The
// route is registered outside the JWT middleware so the cron job does not
// need an account.
func (rc *ReminderController) authorized(c echo.Context) bool {
	secret := os.Getenv("REMINDER_SECRET")
	if secret != "" {
		if c.Request().Header.Get("X-Reminder-Secret") == secret {
			return true
		}
		if c.QueryParam("secret") == secret {
			return true
		}
	}

	authHeader := c.Request().Header.Get("Authorization")
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == "" || tokenString == authHeader {
		return false
	}
	if middleware.IsTokenBlacklisted(tokenString) {
		return false
	}

	claims := &middleware.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(middleware.GetJWTSecret()), nil
	})
	if err != nil || !token.Valid {
		return false
	}
	return claims.UserType == models.UserTypeAdmin
}

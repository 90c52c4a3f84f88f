package routes

import (
	"github.com/harisapp/haris_backend/controllers"
	"github.com/labstack/echo/v4"
)

// RegisterReminderRoutes sets up the cron-facing sweep trigger. It stays
// outside the JWT group; the controller checks the shared secret or an admin
// token itself.
func RegisterReminderRoutes(e *echo.Echo, reminderController *controllers.ReminderController) {
	e.GET("/api/reminders/run", reminderController.Sweep)
}

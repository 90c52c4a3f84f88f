// controllers/activity_log_controller.go
package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/harisapp/haris_backend/models"
	"github.com/harisapp/haris_backend/repositories"
)

// ActivityLogController serves the admin audit viewer.
type ActivityLogController struct {
	logs *repositories.ActivityRepository
}

func NewActivityLogController(logs *repositories.ActivityRepository) *ActivityLogController {
	return &ActivityLogController{logs: logs}
}

// List handles GET /api/admin/activity
func (alc *ActivityLogController) List(c echo.Context) error {
	filter := models.ActivityLogFilter{
		EntityType: c.QueryParam("entityType"),
		EntityID:   c.QueryParam("entityId"),
		Action:     c.QueryParam("action"),
	}
	if raw := c.QueryParam("limit"); raw != "" {
		if limit, err := strconv.ParseInt(raw, 10, 64); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}

	entries, err := alc.logs.List(c.Request().Context(), filter)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Activity retrieved",
		Data: map[string]interface{}{
			"entries": entries,
			"count":   len(entries),
		},
	})
}

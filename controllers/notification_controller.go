// controllers/notification_controller.go
package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harisapp/haris_backend/models"
	"github.com/harisapp/haris_backend/repositories"
	"github.com/harisapp/haris_backend/websocket"
)

// NotificationController serves each user's in-app notification feed and the
// websocket endpoint the portal listens on.
type NotificationController struct {
	notifications *repositories.NotificationRepository
	hub           *websocket.Hub
}

func NewNotificationController(notifications *repositories.NotificationRepository, hub *websocket.Hub) *NotificationController {
	return &NotificationController{notifications: notifications, hub: hub}
}

// List handles GET /api/notifications
func (nc *NotificationController) List(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	unreadOnly := c.QueryParam("unread") == "true"
	notifications, err := nc.notifications.ListByUser(c.Request().Context(), actor.ID, unreadOnly)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Notifications retrieved",
		Data: map[string]interface{}{
			"notifications": notifications,
			"count":         len(notifications),
		},
	})
}

// MarkRead handles PUT /api/notifications/:id/read
func (nc *NotificationController) MarkRead(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid notification ID",
		})
	}

	updated, err := nc.notifications.MarkRead(c.Request().Context(), id, actor.ID)
	if err != nil {
		return respondServiceError(c, err)
	}
	if updated == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Notification not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Notification marked as read",
	})
}

// MarkAllRead handles PUT /api/notifications/read-all
func (nc *NotificationController) MarkAllRead(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	updated, err := nc.notifications.MarkAllRead(c.Request().Context(), actor.ID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Notifications marked as read",
		Data:    map[string]interface{}{"updated": updated},
	})
}

// Subscribe handles GET /api/ws, upgrading to a websocket for live pushes
func (nc *NotificationController) Subscribe(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	userType := models.UserTypeClient
	if actor.IsAdmin {
		userType = models.UserTypeAdmin
	}

	return websocket.HandleWebSocket(c, nc.hub, actor.ID, userType)
}

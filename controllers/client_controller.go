// controllers/client_controller.go
package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/harisapp/haris_backend/models"
	"github.com/harisapp/haris_backend/repositories"
	"github.com/harisapp/haris_backend/services"
)

// ClientController is the admin-side view of user accounts: list clients,
// inspect one, flip activation and remove accounts. Routes sit behind
// RequireAdmin.
type ClientController struct {
	users    *repositories.UserRepository
	activity *services.ActivityService
}

func NewClientController(users *repositories.UserRepository, activity *services.ActivityService) *ClientController {
	return &ClientController{users: users, activity: activity}
}

// List handles GET /api/admin/clients
func (cc *ClientController) List(c echo.Context) error {
	userType := c.QueryParam("userType")
	if userType == "" {
		userType = models.UserTypeClient
	}

	users, err := cc.users.List(c.Request().Context(), userType)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Clients retrieved",
		Data: map[string]interface{}{
			"users": users,
			"count": len(users),
		},
	})
}

// Get handles GET /api/admin/clients/:id
func (cc *ClientController) Get(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	user, err := cc.users.FindByID(c.Request().Context(), id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "User not found",
			})
		}
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Client retrieved",
		Data:    user,
	})
}

// SetActive handles PUT /api/admin/clients/:id/active
func (cc *ClientController) SetActive(c echo.Context) error {
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
			Message: "Invalid user ID",
		})
	}

	var req struct {
		IsActive *bool `json:"isActive"`
	}
	if err := c.Bind(&req); err != nil || req.IsActive == nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "isActive is required",
		})
	}

	if err := cc.users.SetActive(c.Request().Context(), id, *req.IsActive); err != nil {
		return respondServiceError(c, err)
	}

	operation := "deactivate"
	if *req.IsActive {
		operation = "activate"
	}
	cc.activity.Log(c.Request().Context(), models.ActivityLog{
		EntityType: "user",
		EntityID:   id.Hex(),
		Action:     models.ActionAdminAction,
		ActorID:    actor.ID.Hex(),
		Metadata:   map[string]interface{}{"operation": operation},
	})

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Account updated",
	})
}

// Delete handles DELETE /api/admin/clients/:id
func (cc *ClientController) Delete(c echo.Context) error {
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
			Message: "Invalid user ID",
		})
	}
	if id == actor.ID {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "You cannot delete your own account",
		})
	}

	deleted, err := cc.users.Delete(c.Request().Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	if deleted == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	cc.activity.Log(c.Request().Context(), models.ActivityLog{
		EntityType: "user",
		EntityID:   id.Hex(),
		Action:     models.ActionAdminAction,
		ActorID:    actor.ID.Hex(),
		Metadata:   map[string]interface{}{"operation": "delete"},
	})

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Account deleted",
	})
}

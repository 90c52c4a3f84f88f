// controllers/service_controller.go
package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/harisapp/haris_backend/models"
	"github.com/harisapp/haris_backend/repositories"
	"github.com/harisapp/haris_backend/services"
	"github.com/harisapp/haris_backend/utils"
)

// ServiceController manages the service catalog. Reads are open to any
// authenticated user; writes sit behind the admin route group.
type ServiceController struct {
	catalog  *repositories.ServiceRepository
	activity *services.ActivityService
}

func NewServiceController(catalog *repositories.ServiceRepository, activity *services.ActivityService) *ServiceController {
	return &ServiceController{catalog: catalog, activity: activity}
}

func validCategory(category string) bool {
	switch category {
	case models.ServiceCategoryBodyguard, models.ServiceCategoryCCTV, models.ServiceCategoryEvent,
		models.ServiceCategoryCleaning, models.ServiceCategoryConsulting, models.ServiceCategoryTraining:
		return true
	}
	return false
}

// List handles GET /api/services. Non-admins only see active entries.
func (sc *ServiceController) List(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	activeOnly := !actor.IsAdmin || c.QueryParam("activeOnly") == "true"
	catalogEntries, err := sc.catalog.List(c.Request().Context(), activeOnly)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Services retrieved",
		Data: map[string]interface{}{
			"services": catalogEntries,
			"count":    len(catalogEntries),
		},
	})
}

// Get handles GET /api/services/:id
func (sc *ServiceController) Get(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid service ID",
		})
	}

	service, err := sc.catalog.FindByID(c.Request().Context(), id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Service not found",
			})
		}
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Service retrieved",
		Data:    service,
	})
}

// Create handles POST /api/admin/services
func (sc *ServiceController) Create(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	var payload models.ServicePayload
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Name and category are required",
		})
	}
	if !validCategory(payload.Category) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Unknown service category",
		})
	}
	if payload.Price != nil && *payload.Price < 0 {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Price must be non-negative",
		})
	}

	isActive := true
	if payload.IsActive != nil {
		isActive = *payload.IsActive
	}

	service := &models.Service{
		Name:          utils.SanitizeInput(payload.Name),
		NameEn:        utils.SanitizeInput(payload.NameEn),
		Description:   utils.SanitizeInput(payload.Description),
		DescriptionEn: utils.SanitizeInput(payload.DescriptionEn),
		Category:      payload.Category,
		Price:         payload.Price,
		IsActive:      isActive,
	}

	if err := sc.catalog.Insert(c.Request().Context(), service); err != nil {
		return respondServiceError(c, err)
	}

	sc.activity.Log(c.Request().Context(), models.ActivityLog{
		EntityType: "service",
		EntityID:   service.ID.Hex(),
		Action:     models.ActionAdminAction,
		ActorID:    actor.ID.Hex(),
		Metadata:   map[string]interface{}{"operation": "create"},
	})

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Service created",
		Data:    service,
	})
}

// Update handles PUT /api/admin/services/:id
func (sc *ServiceController) Update(c echo.Context) error {
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
			Message: "Invalid service ID",
		})
	}

	service, err := sc.catalog.FindByID(c.Request().Context(), id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Service not found",
			})
		}
		return respondServiceError(c, err)
	}

	var payload models.ServicePayload
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if payload.Name != "" {
		service.Name = utils.SanitizeInput(payload.Name)
	}
	if payload.NameEn != "" {
		service.NameEn = utils.SanitizeInput(payload.NameEn)
	}
	if payload.Description != "" {
		service.Description = utils.SanitizeInput(payload.Description)
	}
	if payload.DescriptionEn != "" {
		service.DescriptionEn = utils.SanitizeInput(payload.DescriptionEn)
	}
	if payload.Category != "" {
		if !validCategory(payload.Category) {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Unknown service category",
			})
		}
		service.Category = payload.Category
	}
	if payload.Price != nil {
		if *payload.Price < 0 {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Price must be non-negative",
			})
		}
		service.Price = payload.Price
	}
	if payload.IsActive != nil {
		service.IsActive = *payload.IsActive
	}

	if err := sc.catalog.Update(c.Request().Context(), service); err != nil {
		return respondServiceError(c, err)
	}

	sc.activity.Log(c.Request().Context(), models.ActivityLog{
		EntityType: "service",
		EntityID:   service.ID.Hex(),
		Action:     models.ActionAdminAction,
		ActorID:    actor.ID.Hex(),
		Metadata:   map[string]interface{}{"operation": "update"},
	})

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Service updated",
		Data:    service,
	})
}

// Delete handles DELETE /api/admin/services/:id
func (sc *ServiceController) Delete(c echo.Context) error {
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
			Message: "Invalid service ID",
		})
	}

	deleted, err := sc.catalog.Delete(c.Request().Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	if deleted == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Service not found",
		})
	}

	sc.activity.Log(c.Request().Context(), models.ActivityLog{
		EntityType: "service",
		EntityID:   id.Hex(),
		Action:     models.ActionAdminAction,
		ActorID:    actor.ID.Hex(),
		Metadata:   map[string]interface{}{"operation": "delete"},
	})

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Service deleted",
	})
}

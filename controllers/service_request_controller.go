// controllers/service_request_controller.go
package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harisapp/haris_backend/models"
	"github.com/harisapp/haris_backend/services"
	"github.com/harisapp/haris_backend/utils"
)

// ServiceRequestController exposes the request lifecycle over HTTP. All
// authorization decisions live in the service; this layer only parses.
type ServiceRequestController struct {
	requests *services.RequestService
}

func NewServiceRequestController(requests *services.RequestService) *ServiceRequestController {
	return &ServiceRequestController{requests: requests}
}

// Create handles POST /api/requests
func (rc *ServiceRequestController) Create(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	var payload models.CreateServiceRequestRequest
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	request, err := rc.requests.Create(c.Request().Context(), actor, &payload)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Service request created",
		Data:    request,
	})
}

// Get handles GET /api/requests/:id
func (rc *ServiceRequestController) Get(c echo.Context) error {
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
			Message: "Invalid request ID",
		})
	}

	request, err := rc.requests.Get(c.Request().Context(), actor, id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Service request retrieved",
		Data:    request,
	})
}

// List handles GET /api/requests. Admins may filter by userId; everyone else
// only ever sees their own requests.
func (rc *ServiceRequestController) List(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	opts := services.ListOptions{
		ArmamentLevel: c.QueryParam("armament"),
		ServiceType:   c.QueryParam("serviceType"),
		Extended:      c.QueryParam("extended") == "true",
	}

	if raw := c.QueryParam("userId"); raw != "" {
		userID, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid userId filter",
			})
		}
		opts.UserID = &userID
	}
	if raw := c.QueryParam("draft"); raw != "" {
		draft := raw == "true"
		opts.Draft = &draft
	}
	if raw := c.QueryParam("from"); raw != "" {
		from, ok := utils.ParseFlexibleTime(raw)
		if !ok {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid from date",
			})
		}
		opts.From = &from
	}
	if raw := c.QueryParam("to"); raw != "" {
		to, ok := utils.ParseFlexibleTime(raw)
		if !ok {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid to date",
			})
		}
		opts.To = &to
	}
	if raw := c.QueryParam("limit"); raw != "" {
		if limit, err := strconv.ParseInt(raw, 10, 64); err == nil && limit > 0 {
			opts.Limit = limit
		}
	}

	requests, err := rc.requests.List(c.Request().Context(), actor, opts)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Service requests retrieved",
		Data: map[string]interface{}{
			"requests": requests,
			"count":    len(requests),
		},
	})
}

// Update handles PUT /api/requests/:id, dispatching on role: admins may edit
// anything, owners only their own drafts.
func (rc *ServiceRequestController) Update(c echo.Context) error {
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
			Message: "Invalid request ID",
		})
	}

	var payload models.UpdateServiceRequestRequest
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	var request *models.ServiceRequest
	if actor.IsAdmin {
		request, err = rc.requests.AdminUpdate(c.Request().Context(), actor, id, &payload)
	} else {
		request, err = rc.requests.OwnerUpdate(c.Request().Context(), actor, id, &payload)
	}
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Service request updated",
		Data:    request,
	})
}

// Delete handles DELETE /api/requests/:id. Admin only.
func (rc *ServiceRequestController) Delete(c echo.Context) error {
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
			Message: "Invalid request ID",
		})
	}

	if err := rc.requests.Delete(c.Request().Context(), actor, id); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Service request deleted",
	})
}

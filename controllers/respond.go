package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/harisapp/haris_backend/middleware"
	"github.com/harisapp/haris_backend/models"
	"github.com/harisapp/haris_backend/services"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// respondServiceError maps the service layer's typed errors to HTTP statuses.
// Anything untyped is a 500 and gets logged here, once.
func respondServiceError(c echo.Context, err error) error {
	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: validationErr.Message,
			Data:    map[string]interface{}{"fields": validationErr.Fields},
		})
	}

	var notFoundErr *services.NotFoundError
	if errors.As(err, &notFoundErr) {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: notFoundErr.Error(),
		})
	}

	var forbiddenErr *services.ForbiddenError
	if errors.As(err, &forbiddenErr) {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: forbiddenErr.Error(),
		})
	}

	var invalidStateErr *services.InvalidStateError
	if errors.As(err, &invalidStateErr) {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: invalidStateErr.Error(),
		})
	}

	log.Printf("Internal error on %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	return c.JSON(http.StatusInternalServerError, models.Response{
		Status:  http.StatusInternalServerError,
		Message: "Something went wrong",
	})
}

// actorFromContext builds the service-layer actor from the JWT claims the
// middleware stored on the context.
func actorFromContext(c echo.Context) (services.Actor, error) {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return services.Actor{}, errors.New("missing token claims")
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return services.Actor{}, err
	}
	return services.Actor{
		ID:      id,
		IsAdmin: claims.UserType == models.UserTypeAdmin,
	}, nil
}

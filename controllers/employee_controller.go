// controllers/employee_controller.go
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

// EmployeeController manages the staffing roster. Admin only.
type EmployeeController struct {
	employees *repositories.EmployeeRepository
	activity  *services.ActivityService
}

func NewEmployeeController(employees *repositories.EmployeeRepository, activity *services.ActivityService) *EmployeeController {
	return &EmployeeController{employees: employees, activity: activity}
}

func validEmployeeRole(role string) bool {
	switch role {
	case models.EmployeeRoleGuard, models.EmployeeRoleSupervisor, models.EmployeeRoleTechnician,
		models.EmployeeRoleCleaner, models.EmployeeRoleConsultant, models.EmployeeRoleTrainer:
		return true
	}
	return false
}

// List handles GET /api/admin/employees
func (ec *EmployeeController) List(c echo.Context) error {
	role := c.QueryParam("role")
	if role != "" && !validEmployeeRole(role) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Unknown employee role",
		})
	}

	employees, err := ec.employees.List(c.Request().Context(), role)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Employees retrieved",
		Data: map[string]interface{}{
			"employees": employees,
			"count":     len(employees),
		},
	})
}

// Create handles POST /api/admin/employees
func (ec *EmployeeController) Create(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	var payload models.EmployeePayload
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Full name and role are required",
		})
	}
	if !validEmployeeRole(payload.Role) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Unknown employee role",
		})
	}
	if payload.ArmamentQualification != "" && !models.ValidArmamentLevel(payload.ArmamentQualification) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Unknown armament qualification",
		})
	}

	employee := &models.Employee{
		FullName:              utils.SanitizeInput(payload.FullName),
		Email:                 payload.Email,
		Phone:                 utils.SanitizeInput(payload.Phone),
		Role:                  payload.Role,
		ArmamentQualification: payload.ArmamentQualification,
		IsActive:              true,
	}
	if payload.IsActive != nil {
		employee.IsActive = *payload.IsActive
	}
	if payload.HiredAt != nil {
		hiredAt, ok := utils.ParseFlexibleTime(*payload.HiredAt)
		if !ok {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid hiredAt date",
			})
		}
		employee.HiredAt = &hiredAt
	}

	if err := ec.employees.Insert(c.Request().Context(), employee); err != nil {
		return respondServiceError(c, err)
	}

	ec.activity.Log(c.Request().Context(), models.ActivityLog{
		EntityType: "employee",
		EntityID:   employee.ID.Hex(),
		Action:     models.ActionAdminAction,
		ActorID:    actor.ID.Hex(),
		Metadata:   map[string]interface{}{"operation": "create"},
	})

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Employee created",
		Data:    employee,
	})
}

// Update handles PUT /api/admin/employees/:id
func (ec *EmployeeController) Update(c echo.Context) error {
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
			Message: "Invalid employee ID",
		})
	}

	employee, err := ec.employees.FindByID(c.Request().Context(), id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Employee not found",
			})
		}
		return respondServiceError(c, err)
	}

	var payload models.EmployeePayload
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if payload.FullName != "" {
		employee.FullName = utils.SanitizeInput(payload.FullName)
	}
	if payload.Email != "" {
		employee.Email = payload.Email
	}
	if payload.Phone != "" {
		employee.Phone = utils.SanitizeInput(payload.Phone)
	}
	if payload.Role != "" {
		if !validEmployeeRole(payload.Role) {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Unknown employee role",
			})
		}
		employee.Role = payload.Role
	}
	if payload.ArmamentQualification != "" {
		if !models.ValidArmamentLevel(payload.ArmamentQualification) {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Unknown armament qualification",
			})
		}
		employee.ArmamentQualification = payload.ArmamentQualification
	}
	if payload.IsActive != nil {
		employee.IsActive = *payload.IsActive
	}
	if payload.HiredAt != nil {
		hiredAt, ok := utils.ParseFlexibleTime(*payload.HiredAt)
		if !ok {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid hiredAt date",
			})
		}
		employee.HiredAt = &hiredAt
	}

	if err := ec.employees.Update(c.Request().Context(), employee); err != nil {
		return respondServiceError(c, err)
	}

	ec.activity.Log(c.Request().Context(), models.ActivityLog{
		EntityType: "employee",
		EntityID:   employee.ID.Hex(),
		Action:     models.ActionAdminAction,
		ActorID:    actor.ID.Hex(),
		Metadata:   map[string]interface{}{"operation": "update"},
	})

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Employee updated",
		Data:    employee,
	})
}

// Delete handles DELETE /api/admin/employees/:id
func (ec *EmployeeController) Delete(c echo.Context) error {
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
			Message: "Invalid employee ID",
		})
	}

	deleted, err := ec.employees.Delete(c.Request().Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	if deleted == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Employee not found",
		})
	}

	ec.activity.Log(c.Request().Context(), models.ActivityLog{
		EntityType: "employee",
		EntityID:   id.Hex(),
		Action:     models.ActionAdminAction,
		ActorID:    actor.ID.Hex(),
		Metadata:   map[string]interface{}{"operation": "delete"},
	})

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Employee deleted",
	})
}

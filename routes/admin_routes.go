package routes

import (
	"github.com/harisapp/haris_backend/controllers"
	"github.com/harisapp/haris_backend/middleware"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"
)

// RegisterAdminRoutes sets up the admin-only route group
func RegisterAdminRoutes(
	e *echo.Echo,
	db *mongo.Client,
	requestController *controllers.ServiceRequestController,
	serviceController *controllers.ServiceController,
	invoiceController *controllers.InvoiceController,
	clientController *controllers.ClientController,
	employeeController *controllers.EmployeeController,
	activityController *controllers.ActivityLogController,
) {
	admin := e.Group("/api/admin")
	admin.Use(middleware.JWTMiddleware())
	admin.Use(middleware.RequireAdmin())
	admin.Use(middleware.ActivityTracker(db))

	// Request administration (create/list/update share the user routes;
	// only delete is admin-scoped at the route level)
	admin.DELETE("/requests/:id", requestController.Delete)

	// Catalog management
	admin.POST("/services", serviceController.Create)
	admin.PUT("/services/:id", serviceController.Update)
	admin.DELETE("/services/:id", serviceController.Delete)

	// Invoice administration
	admin.PUT("/invoices/:id/status", invoiceController.UpdateStatus)

	// Client accounts
	admin.GET("/clients", clientController.List)
	admin.GET("/clients/:id", clientController.Get)
	admin.PUT("/clients/:id/active", clientController.SetActive)
	admin.DELETE("/clients/:id", clientController.Delete)

	// Staffing roster
	admin.GET("/employees", employeeController.List)
	admin.POST("/employees", employeeController.Create)
	admin.PUT("/employees/:id", employeeController.Update)
	admin.DELETE("/employees/:id", employeeController.Delete)

	// Audit trail
	admin.GET("/activity", activityController.List)
}

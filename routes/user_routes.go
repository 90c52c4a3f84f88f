package routes

import (
	"github.com/harisapp/haris_backend/controllers"
	"github.com/harisapp/haris_backend/middleware"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"
)

// RegisterUserRoutes sets up the authenticated portal routes shared by
// clients and admins
func RegisterUserRoutes(
	e *echo.Echo,
	db *mongo.Client,
	requestController *controllers.ServiceRequestController,
	serviceController *controllers.ServiceController,
	invoiceController *controllers.InvoiceController,
	notificationController *controllers.NotificationController,
	uploadController *controllers.UploadController,
	authController *controllers.AuthController,
) {
	r := e.Group("/api")
	r.Use(middleware.JWTMiddleware())
	r.Use(middleware.ActivityTracker(db))

	// Profile
	r.GET("/users/profile", authController.GetProfile)

	// Service requests
	r.POST("/requests", requestController.Create)
	r.GET("/requests", requestController.List)
	r.GET("/requests/:id", requestController.Get)
	r.PUT("/requests/:id", requestController.Update)

	// Service catalog (read only here, writes are admin routes)
	r.GET("/services", serviceController.List)
	r.GET("/services/:id", serviceController.Get)

	// Invoices
	r.GET("/invoices", invoiceController.List)
	r.GET("/invoices/:id", invoiceController.Get)

	// Notifications
	r.GET("/notifications", notificationController.List)
	r.PUT("/notifications/:id/read", notificationController.MarkRead)
	r.PUT("/notifications/read-all", notificationController.MarkAllRead)
	r.GET("/ws", notificationController.Subscribe)

	// Attachments
	r.POST("/uploads", uploadController.Upload)
}

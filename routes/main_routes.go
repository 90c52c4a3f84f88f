package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/harisapp/haris_backend/config"
	"github.com/harisapp/haris_backend/controllers"
	"github.com/harisapp/haris_backend/repositories"
	"github.com/harisapp/haris_backend/services"
	"github.com/harisapp/haris_backend/websocket"
)

// SetupRoutes wires the repositories, services and controllers together and
// registers every route group
func SetupRoutes(e *echo.Echo, db *mongo.Client, hub *websocket.Hub) {
	userRepo := repositories.NewUserRepository(db)
	requestRepo := repositories.NewServiceRequestRepository(db)
	serviceRepo := repositories.NewServiceRepository(db)
	invoiceRepo := repositories.NewInvoiceRepository(db)
	activityRepo := repositories.NewActivityRepository(db)
	employeeRepo := repositories.NewEmployeeRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)

	activityService := services.NewActivityService(activityRepo)
	notifier := services.NewPortalNotifier(db, hub)

	invoiceService := services.NewInvoiceService(invoiceRepo, serviceRepo, activityService)

	requestService := services.NewRequestService(requestRepo, serviceRepo, userRepo, invoiceService, activityService)
	requestService.SetNotifier(notifier)

	var locker services.SweepLocker
	if config.RedisClient != nil {
		locker = services.NewRedisSweepLock(config.RedisClient)
	}
	reminderService := services.NewReminderService(requestRepo, userRepo, activityService, notifier, locker)

	authController := controllers.NewAuthController(db, activityService)
	requestController := controllers.NewServiceRequestController(requestService)
	serviceController := controllers.NewServiceController(serviceRepo, activityService)
	invoiceController := controllers.NewInvoiceController(invoiceService)
	reminderController := controllers.NewReminderController(reminderService)
	clientController := controllers.NewClientController(userRepo, activityService)
	employeeController := controllers.NewEmployeeController(employeeRepo, activityService)
	activityController := controllers.NewActivityLogController(activityRepo)
	notificationController := controllers.NewNotificationController(notificationRepo, hub)
	uploadController := controllers.NewUploadController()

	RegisterAuthRoutes(e, authController)
	RegisterUserRoutes(e, db, requestController, serviceController, invoiceController, notificationController, uploadController, authController)
	RegisterAdminRoutes(e, db, requestController, serviceController, invoiceController, clientController, employeeController, activityController)
	RegisterReminderRoutes(e, reminderController)
	RegisterFileRoutes(e)
}

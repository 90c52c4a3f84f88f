package routes

import (
	"github.com/harisapp/haris_backend/controllers"
	"github.com/labstack/echo/v4"
)

// RegisterAuthRoutes sets up the public authentication routes
func RegisterAuthRoutes(e *echo.Echo, authController *controllers.AuthController) {
	e.POST("/api/auth/signup", authController.Signup)
	e.POST("/api/auth/login", authController.Login)
	e.POST("/api/auth/logout", authController.Logout)
	e.GET("/api/auth/validate-token", authController.ValidateToken)
	e.POST("/api/auth/refresh-token", authController.RefreshToken)
	e.POST("/api/auth/forgot-password", authController.ForgotPassword)
	e.POST("/api/auth/reset-password", authController.ResetPassword)
}

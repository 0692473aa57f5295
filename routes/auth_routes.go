package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/dudhkela/dudhkela_backend/controllers"
)

// RegisterAuthRoutes sets up all authentication routes
func RegisterAuthRoutes(e *echo.Echo, authController *controllers.AuthController, passwordController *controllers.PasswordController) {
	e.POST("/api/auth/signup", authController.Signup)
	e.POST("/api/auth/verify-email", authController.VerifyEmail)
	e.POST("/api/auth/login", authController.Login)
	e.POST("/api/auth/forgot-password", passwordController.ForgotPassword)
	e.POST("/api/auth/reset-password", passwordController.ResetPassword)
}

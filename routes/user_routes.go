package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/dudhkela/dudhkela_backend/controllers"
	"github.com/dudhkela/dudhkela_backend/middleware"
)

// RegisterUserRoutes sets up the protected routes shared by all
// authenticated users: profile, notifications, service requests and the
// live feed connection.
func RegisterUserRoutes(e *echo.Echo, userController *controllers.UserController, requestController *controllers.RequestController, applicationController *controllers.ApplicationController, wsController *controllers.WebSocketController) {
	r := e.Group("/api")
	r.Use(middleware.JWTMiddleware())

	// Profile
	r.GET("/users/profile", userController.GetProfile)
	r.PUT("/users/profile", userController.UpdateProfile)

	// Notifications
	r.GET("/users/notifications", userController.GetNotifications)
	r.PUT("/users/notifications/:id/read", userController.MarkNotificationRead)

	// Service requests placed by the customer
	r.POST("/requests", requestController.CreateRequest)
	r.GET("/requests/mine", requestController.GetMyRequests)
	r.GET("/requests/:id", requestController.GetRequest)

	// Provider application lifecycle for the applicant
	r.POST("/applications", applicationController.SubmitApplication)
	r.GET("/applications/mine", applicationController.GetMyApplication)

	// Live feed
	r.GET("/ws", wsController.Connect)
}

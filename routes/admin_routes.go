package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/dudhkela/dudhkela_backend/controllers"
	"github.com/dudhkela/dudhkela_backend/middleware"
	"github.com/dudhkela/dudhkela_backend/models"
)

// RegisterAdminRoutes sets up the admin review routes
func RegisterAdminRoutes(e *echo.Echo, applicationController *controllers.ApplicationController, serviceController *controllers.ServiceController, blogController *controllers.BlogController) {
	r := e.Group("/api/admin")
	r.Use(middleware.JWTMiddleware())
	r.Use(middleware.RequireRole(models.RoleAdmin))

	// Provider application review queue
	r.GET("/applications/pending", applicationController.GetPendingApplications)
	r.PUT("/applications/:id/review", applicationController.ReviewApplication)

	// Catalog management
	r.POST("/services", serviceController.CreateService)

	// Blog management
	r.POST("/blogs", blogController.CreateBlog)
	r.PUT("/blogs/:id", blogController.UpdateBlog)
	r.DELETE("/blogs/:id", blogController.DeleteBlog)
}

package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/dudhkela/dudhkela_backend/controllers"
	"github.com/dudhkela/dudhkela_backend/middleware"
	"github.com/dudhkela/dudhkela_backend/models"
)

// RegisterProviderRoutes sets up the provider dashboard routes. All of
// them require an authenticated user with the provider role.
func RegisterProviderRoutes(e *echo.Echo, providerController *controllers.ProviderController, requestController *controllers.RequestController) {
	r := e.Group("/api/provider")
	r.Use(middleware.JWTMiddleware())
	r.Use(middleware.RequireRole(models.RoleProvider))

	// Dashboard and profile
	r.GET("/dashboard", providerController.GetDashboard)
	r.POST("/profile", providerController.SaveProfile)

	// Service areas
	r.POST("/areas", providerController.AddServiceArea)
	r.DELETE("/areas/:pincode", providerController.RemoveServiceArea)

	// Request feeds
	r.GET("/requests/pending", providerController.GetPendingRequests)
	r.GET("/requests/accepted", providerController.GetAcceptedRequests)

	// Request lifecycle
	r.PUT("/requests/:id/accept", requestController.AcceptRequest)
	r.PUT("/requests/:id/reject", requestController.RejectRequest)
	r.PUT("/requests/:id/complete", requestController.CompleteRequest)
}

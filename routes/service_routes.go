package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/dudhkela/dudhkela_backend/controllers"
)

// RegisterServiceRoutes sets up the public catalog routes
func RegisterServiceRoutes(e *echo.Echo, serviceController *controllers.ServiceController) {
	e.GET("/api/services", serviceController.ListServices)
	e.GET("/api/services/:id", serviceController.GetService)
	e.GET("/api/providers/by-pincode/:pincode", serviceController.GetProvidersByPincode)
}

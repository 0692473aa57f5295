package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/dudhkela/dudhkela_backend/controllers"
)

// RegisterBlogRoutes sets up the public blog routes
func RegisterBlogRoutes(e *echo.Echo, blogController *controllers.BlogController) {
	e.GET("/api/blogs", blogController.ListBlogs)
	e.GET("/api/blogs/:id", blogController.GetBlog)
}

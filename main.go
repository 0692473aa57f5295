package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/dudhkela/dudhkela_backend/config"
	"github.com/dudhkela/dudhkela_backend/controllers"
	"github.com/dudhkela/dudhkela_backend/middleware"
	"github.com/dudhkela/dudhkela_backend/routes"
	"github.com/dudhkela/dudhkela_backend/utils"
	"github.com/dudhkela/dudhkela_backend/websocket"
)

// CustomValidator is a custom validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates the request body
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func main() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found")
	}

	// Connect to Redis (signup handoff and OTP throttling)
	rdb := config.ConnectRedis()
	if rdb == nil {
		log.Fatal("Redis connection is required for signup verification")
	}

	// Connect to database
	client := config.ConnectDB()

	// Shared services
	resolver := utils.NewPincodeResolver()
	mailer := utils.NewMailerFromEnv()

	// Create WebSocket hub for the live request feed
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Create a new Echo instance
	e := echo.New()

	// Initialize custom validator
	customValidator := &CustomValidator{validator: validator.New()}
	e.Validator = customValidator

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter()

	// Middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.GlobalCORS())
	e.Use(rateLimiter.RateLimit())
	e.Use(middleware.SecurityHeadersWithConfig(middleware.NewSecurityConfig()))

	e.Match([]string{"GET", "HEAD"}, "/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":  "OK",
			"message": "DudhKela Backend is running",
			"version": "1.0",
		})
	})

	e.Match([]string{"GET", "HEAD"}, "/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":   "healthy",
			"database": "connected",
		})
	})

	// Initialize controllers
	authController := controllers.NewAuthController(client, rdb, mailer)
	userController := controllers.NewUserController(client, resolver)
	providerController := controllers.NewProviderController(client, resolver, wsHub)
	requestController := controllers.NewRequestController(client, resolver, mailer, wsHub)
	applicationController := controllers.NewApplicationController(client, resolver, mailer)
	serviceController := controllers.NewServiceController(client)
	blogController := controllers.NewBlogController(client)
	passwordController := controllers.NewPasswordController(client, rdb, mailer)
	wsController := controllers.NewWebSocketController(client, wsHub)

	// Register routes
	routes.RegisterAuthRoutes(e, authController, passwordController)
	routes.RegisterServiceRoutes(e, serviceController)
	routes.RegisterBlogRoutes(e, blogController)
	routes.RegisterUserRoutes(e, userController, requestController, applicationController, wsController)
	routes.RegisterProviderRoutes(e, providerController, requestController)
	routes.RegisterAdminRoutes(e, applicationController, serviceController, blogController)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	e.Logger.Fatal(e.Start(":" + port))
}

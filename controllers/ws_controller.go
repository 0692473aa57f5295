package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dudhkela/dudhkela_backend/config"
	"github.com/dudhkela/dudhkela_backend/middleware"
	"github.com/dudhkela/dudhkela_backend/models"
	"github.com/dudhkela/dudhkela_backend/websocket"
)

// WebSocketController upgrades authenticated clients onto the feed hub
type WebSocketController struct {
	DB  *mongo.Client
	Hub *websocket.Hub
}

// NewWebSocketController creates a new WebSocket controller
func NewWebSocketController(db *mongo.Client, hub *websocket.Hub) *WebSocketController {
	return &WebSocketController{DB: db, Hub: hub}
}

// Connect joins the authenticated user to the live feed. Providers are
// subscribed with their declared service areas so new-request events reach
// only providers covering the customer's pincode.
func (wc *WebSocketController) Connect(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	claims := middleware.GetUserFromToken(c)
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	var areas []string
	if claims.Role == models.RoleProvider {
		var provider models.ServiceProvider
		err := config.GetCollection(wc.DB, "providers").
			FindOne(ctx, bson.M{"userId": userID}).Decode(&provider)
		if err == nil {
			areas = provider.AreaPincodes()
		}
	}

	return websocket.HandleWebSocket(c, wc.Hub, userID, claims.Role, areas)
}

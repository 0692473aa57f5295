package websocket

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWebSocket upgrades an authenticated HTTP request to a WebSocket
// connection and registers the client with the hub. The caller resolves the
// user's identity and, for providers, their service areas before upgrading.
func HandleWebSocket(c echo.Context, hub *Hub, userID primitive.ObjectID, role string, areaPincodes []string) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := &Client{
		UserID:       userID,
		Role:         role,
		AreaPincodes: areaPincodes,
		Conn:         conn,
	}

	hub.register <- client

	conn.WriteJSON(FeedEvent{
		Type:    "connected",
		Message: "WebSocket connection established",
	})

	// Drain incoming frames until the peer disconnects
	go func() {
		defer func() {
			hub.unregister <- client
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()

	return nil
}

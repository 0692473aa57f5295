package websocket

import (
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Feed event types pushed over WebSocket
const (
	EventTypeNewRequest      = "new_request"
	EventTypeRequestClaimed  = "request_claimed"
	EventTypeRequestAccepted = "request_accepted"
	EventTypeRequestRejected = "request_rejected"
)

// FeedEvent represents a message sent over WebSocket
type FeedEvent struct {
	Type      string      `json:"type"`
	Message   string      `json:"message"`
	RequestID string      `json:"requestId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
}

// Client represents a connected WebSocket client
type Client struct {
	UserID primitive.ObjectID
	Role   string
	// AreaPincodes is set for provider clients and routes pending-feed
	// events. Customers receive only events addressed to their user ID.
	AreaPincodes []string
	Conn         *websocket.Conn
}

// servesPincode reports whether the client's service areas cover a pincode.
func (c *Client) servesPincode(pincode string) bool {
	for _, area := range c.AreaPincodes {
		if area == pincode {
			return true
		}
	}
	return false
}

// Hub maintains the set of active clients and routes feed events
type Hub struct {
	clients    map[primitive.ObjectID]*Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[primitive.ObjectID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = client
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if current, ok := h.clients[client.UserID]; ok && current == client {
				delete(h.clients, client.UserID)
			}
			client.Conn.Close()
			h.mu.Unlock()
		}
	}
}

// SendToUser sends an event to a specific connected user
func (h *Hub) SendToUser(userID primitive.ObjectID, event FeedEvent) error {
	h.mu.RLock()
	client, ok := h.clients[userID]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("user not connected")
	}

	return client.Conn.WriteJSON(event)
}

// UpdateAreas replaces the service areas used to route feed events to a
// connected provider. No-op if the provider is not connected.
func (h *Hub) UpdateAreas(providerID primitive.ObjectID, pincodes []string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if client, ok := h.clients[providerID]; ok {
		client.AreaPincodes = pincodes
	}
}

// BroadcastNewRequest pushes a new pending request to every connected
// provider whose service areas cover the customer's pincode.
func (h *Hub) BroadcastNewRequest(customerPincode string, requestID primitive.ObjectID, data interface{}) {
	event := FeedEvent{
		Type:      EventTypeNewRequest,
		Message:   "New service request in your area",
		RequestID: requestID.Hex(),
		Data:      data,
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		if client.servesPincode(customerPincode) {
			client.Conn.WriteJSON(event)
		}
	}
}

// BroadcastRequestClaimed tells providers watching the customer's pincode
// that a request left the pending feed, so their lists stay current.
func (h *Hub) BroadcastRequestClaimed(customerPincode string, requestID, claimedBy primitive.ObjectID) {
	event := FeedEvent{
		Type:      EventTypeRequestClaimed,
		Message:   "Request no longer available",
		RequestID: requestID.Hex(),
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for userID, client := range h.clients {
		if userID == claimedBy {
			continue
		}
		if client.servesPincode(customerPincode) {
			client.Conn.WriteJSON(event)
		}
	}
}

// NotifyRequestAccepted tells the customer their request was accepted
func (h *Hub) NotifyRequestAccepted(customerID, requestID primitive.ObjectID, data interface{}) error {
	return h.SendToUser(customerID, FeedEvent{
		Type:      EventTypeRequestAccepted,
		Message:   "Your service request has been accepted",
		RequestID: requestID.Hex(),
		Data:      data,
	})
}

// NotifyRequestRejected tells the customer their request was rejected
func (h *Hub) NotifyRequestRejected(customerID, requestID primitive.ObjectID) error {
	return h.SendToUser(customerID, FeedEvent{
		Type:      EventTypeRequestRejected,
		Message:   "Your service request has been rejected",
		RequestID: requestID.Hex(),
	})
}

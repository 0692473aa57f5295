package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServiceRequest statuses
const (
	RequestStatusPending   = "pending"
	RequestStatusAccepted  = "accepted"
	RequestStatusRejected  = "rejected"
	RequestStatusCompleted = "completed"
)

// LineItem is one ordered service on a request
type LineItem struct {
	Name     string  `json:"name" bson:"name"`
	Quantity int     `json:"quantity" bson:"quantity"`
	Price    float64 `json:"price" bson:"price"` // unit price
}

// Subtotal returns quantity times unit price
func (li LineItem) Subtotal() float64 {
	return li.Price * float64(li.Quantity)
}

// ServiceRequest model. A request is created by a customer, routed to
// providers by pincode match, and transitioned by exactly one provider.
type ServiceRequest struct {
	ID              primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Reference       string              `json:"reference" bson:"reference"` // human-facing booking reference
	CustomerID      primitive.ObjectID  `json:"customerId" bson:"customerId"`
	CustomerName    string              `json:"customerName" bson:"customerName"`
	CustomerEmail   string              `json:"customerEmail" bson:"customerEmail"`
	CustomerAddress string              `json:"customerAddress" bson:"customerAddress"`
	CustomerPincode string              `json:"customerPincode" bson:"customerPincode"`
	CustomerCity    string              `json:"customerCity" bson:"customerCity"`
	Items           []LineItem          `json:"items" bson:"items"`
	Status          string              `json:"status" bson:"status"` // "pending", "accepted", "rejected", "completed"
	ProviderID      *primitive.ObjectID `json:"providerId,omitempty" bson:"providerId,omitempty"`
	ProviderName    string              `json:"providerName,omitempty" bson:"providerName,omitempty"`
	CreatedAt       time.Time           `json:"createdAt" bson:"createdAt"`
	AcceptedAt      *time.Time          `json:"acceptedAt,omitempty" bson:"acceptedAt,omitempty"`
	CompletedAt     *time.Time          `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
	UpdatedAt       time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// Total sums all line-item subtotals
func (r *ServiceRequest) Total() float64 {
	var sum float64
	for _, item := range r.Items {
		sum += item.Subtotal()
	}
	return sum
}

// CanTransition reports whether a status change is allowed. "rejected" and
// "completed" are terminal; "completed" is reachable only from "accepted".
func CanTransition(from, to string) bool {
	switch from {
	case RequestStatusPending:
		return to == RequestStatusAccepted || to == RequestStatusRejected
	case RequestStatusAccepted:
		return to == RequestStatusCompleted
	default:
		return false
	}
}

// MatchesPendingFeed reports whether a request belongs in the pending feed
// of a provider serving the given pincodes. Matching is exact string
// equality on the pincode, no radius or fuzzy matching.
func (r *ServiceRequest) MatchesPendingFeed(areaPincodes []string) bool {
	if r.Status != RequestStatusPending {
		return false
	}
	for _, code := range areaPincodes {
		if code == r.CustomerPincode {
			return true
		}
	}
	return false
}

// ServiceRequestInput is the request body for a customer booking
type ServiceRequestInput struct {
	CustomerName    string     `json:"customerName" validate:"required"`
	CustomerEmail   string     `json:"customerEmail" validate:"required,email"`
	CustomerAddress string     `json:"customerAddress" validate:"required"`
	CustomerPincode string     `json:"customerPincode" validate:"required,len=6"`
	CustomerCity    string     `json:"customerCity,omitempty"`
	Items           []LineItem `json:"items" validate:"required,min=1,dive"`
}

// ServiceRequestResponse model
type ServiceRequestResponse struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    *ServiceRequest `json:"data,omitempty"`
}

// ServiceRequestsResponse model for multiple requests
type ServiceRequestsResponse struct {
	Status  int              `json:"status"`
	Message string           `json:"message"`
	Data    []ServiceRequest `json:"data,omitempty"`
}

package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dudhkela/dudhkela_backend/config"
	"github.com/dudhkela/dudhkela_backend/middleware"
	"github.com/dudhkela/dudhkela_backend/models"
	"github.com/dudhkela/dudhkela_backend/repositories"
	"github.com/dudhkela/dudhkela_backend/utils"
	"github.com/dudhkela/dudhkela_backend/websocket"
)

// RequestController contains service request lifecycle logic
type RequestController struct {
	DB          *mongo.Client
	requestRepo *repositories.RequestRepository
	resolver    *utils.PincodeResolver
	mailer      *utils.Mailer
	hub         *websocket.Hub
	logger      *log.Logger
}

// NewRequestController creates a new request controller
func NewRequestController(db *mongo.Client, resolver *utils.PincodeResolver, mailer *utils.Mailer, hub *websocket.Hub) *RequestController {
	return &RequestController{
		DB:          db,
		requestRepo: repositories.NewRequestRepository(db),
		resolver:    resolver,
		mailer:      mailer,
		hub:         hub,
		logger:      log.New(os.Stdout, "[REQUEST] ", log.LstdFlags),
	}
}

// CreateRequest places a new service request for the authenticated customer
// and pushes it to providers watching the customer's pincode.
func (rc *RequestController) CreateRequest(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	claims := middleware.GetUserFromToken(c)
	customerID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	var input models.ServiceRequestInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&input); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Validation failed: " + err.Error(),
		})
	}

	if !utils.IsValidPincode(input.CustomerPincode) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Pincode must be exactly 6 digits",
		})
	}

	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Item quantity must be at least 1",
			})
		}
		if item.Price < 0 {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Item price cannot be negative",
			})
		}
	}

	city := input.CustomerCity
	if city == "" {
		// Best effort: an unreachable lookup leaves the city blank
		if result, err := rc.resolver.Resolve(ctx, input.CustomerPincode); err == nil && result != nil {
			city = result.City
		}
	}

	request := &models.ServiceRequest{
		CustomerID:      customerID,
		CustomerName:    utils.SanitizeInput(input.CustomerName),
		CustomerEmail:   input.CustomerEmail,
		CustomerAddress: utils.SanitizeInput(input.CustomerAddress),
		CustomerPincode: input.CustomerPincode,
		CustomerCity:    city,
		Items:           input.Items,
	}

	if err := rc.requestRepo.Create(ctx, request); err != nil {
		return c.JSON(http.StatusInternalServerError, models.ServiceRequestResponse{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create service request",
		})
	}

	rc.hub.BroadcastNewRequest(request.CustomerPincode, request.ID, request)

	return c.JSON(http.StatusCreated, models.ServiceRequestResponse{
		Status:  http.StatusCreated,
		Message: "Service request created successfully",
		Data:    request,
	})
}

// GetMyRequests returns all requests the authenticated customer has placed
func (rc *RequestController) GetMyRequests(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	claims := middleware.GetUserFromToken(c)
	customerID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	requests, err := rc.requestRepo.FindByCustomer(ctx, customerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch service requests",
		})
	}

	return c.JSON(http.StatusOK, models.ServiceRequestsResponse{
		Status:  http.StatusOK,
		Message: "Service requests retrieved successfully",
		Data:    requests,
	})
}

// GetRequest returns one request. Customers see their own requests; the
// provider who claimed a request sees it too.
func (rc *RequestController) GetRequest(c echo.Context) error {
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

	requestID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request ID",
		})
	}

	request, err := rc.requestRepo.GetByID(ctx, requestID)
	if err == repositories.ErrRequestNotFound {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Service request not found",
		})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch service request",
		})
	}

	isCustomer := request.CustomerID == userID
	isClaimingProvider := request.ProviderID != nil && *request.ProviderID == userID
	isPendingForProvider := claims.Role == models.RoleProvider && request.Status == models.RequestStatusPending
	if !isCustomer && !isClaimingProvider && !isPendingForProvider && claims.Role != models.RoleAdmin {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "You do not have access to this request",
		})
	}

	return c.JSON(http.StatusOK, models.ServiceRequestResponse{
		Status:  http.StatusOK,
		Message: "Service request retrieved successfully",
		Data:    request,
	})
}

// AcceptRequest claims a pending request for the authenticated provider.
// The claim is conditional on the request still being pending, so of two
// racing providers exactly one succeeds; the other gets a conflict.
func (rc *RequestController) AcceptRequest(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	claims := middleware.GetUserFromToken(c)
	providerID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	requestID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request ID",
		})
	}

	providerName := rc.lookupProviderName(ctx, providerID)

	request, err := rc.requestRepo.Claim(ctx, requestID, providerID, providerName)
	if err == repositories.ErrRequestNotFound {
		return c.JSON(http.StatusNotFound, models.ServiceRequestResponse{
			Status:  http.StatusNotFound,
			Message: "Service request not found",
		})
	}
	if errors.Is(err, repositories.ErrAlreadyClaimed) {
		return c.JSON(http.StatusConflict, models.ServiceRequestResponse{
			Status:  http.StatusConflict,
			Message: "This request has already been taken by another provider",
		})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.ServiceRequestResponse{
			Status:  http.StatusInternalServerError,
			Message: "Failed to accept service request",
		})
	}

	// Side effects after the claim are best effort; a failed email or
	// notification never rolls back an accepted request.
	emailSent := true
	if err := rc.mailer.SendRequestAcceptedEmail(request); err != nil {
		emailSent = false
		rc.logger.Printf("Failed to send acceptance email for request %s: %v", request.ID.Hex(), err)
	}

	if err := utils.SaveNotification(rc.DB, request.CustomerID,
		"Request Accepted",
		"Your service request has been accepted by "+providerName,
		models.NotificationTypeRequestAccepted,
		map[string]string{"requestId": request.ID.Hex()},
	); err != nil {
		rc.logger.Printf("Failed to save notification for request %s: %v", request.ID.Hex(), err)
	}

	// Errors here mean the customer is not connected; nothing to do
	_ = rc.hub.NotifyRequestAccepted(request.CustomerID, request.ID, request)
	rc.hub.BroadcastRequestClaimed(request.CustomerPincode, request.ID, providerID)

	message := "Service request accepted"
	if !emailSent {
		message = "Service request accepted, but the confirmation email could not be sent"
	}

	return c.JSON(http.StatusOK, models.ServiceRequestResponse{
		Status:  http.StatusOK,
		Message: message,
		Data:    request,
	})
}

// RejectRequest declines a pending request on behalf of the provider
func (rc *RequestController) RejectRequest(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	claims := middleware.GetUserFromToken(c)
	providerID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	requestID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request ID",
		})
	}

	providerName := rc.lookupProviderName(ctx, providerID)

	request, err := rc.requestRepo.Reject(ctx, requestID, providerID, providerName)
	if err == repositories.ErrRequestNotFound {
		return c.JSON(http.StatusNotFound, models.ServiceRequestResponse{
			Status:  http.StatusNotFound,
			Message: "Service request not found",
		})
	}
	if errors.Is(err, repositories.ErrInvalidTransition) {
		return c.JSON(http.StatusConflict, models.ServiceRequestResponse{
			Status:  http.StatusConflict,
			Message: "Only pending requests can be rejected",
		})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.ServiceRequestResponse{
			Status:  http.StatusInternalServerError,
			Message: "Failed to reject service request",
		})
	}

	_ = rc.hub.NotifyRequestRejected(request.CustomerID, request.ID)
	rc.hub.BroadcastRequestClaimed(request.CustomerPincode, request.ID, providerID)

	return c.JSON(http.StatusOK, models.ServiceRequestResponse{
		Status:  http.StatusOK,
		Message: "Service request rejected",
		Data:    request,
	})
}

// CompleteRequest closes out a request the provider previously accepted.
// Completion is only reachable from the accepted status.
func (rc *RequestController) CompleteRequest(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	claims := middleware.GetUserFromToken(c)
	providerID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	requestID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request ID",
		})
	}

	request, err := rc.requestRepo.Complete(ctx, requestID, providerID)
	if err == repositories.ErrRequestNotFound {
		return c.JSON(http.StatusNotFound, models.ServiceRequestResponse{
			Status:  http.StatusNotFound,
			Message: "Service request not found",
		})
	}
	if errors.Is(err, repositories.ErrInvalidTransition) {
		return c.JSON(http.StatusConflict, models.ServiceRequestResponse{
			Status:  http.StatusConflict,
			Message: "Only requests you have accepted can be completed",
		})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.ServiceRequestResponse{
			Status:  http.StatusInternalServerError,
			Message: "Failed to complete service request",
		})
	}

	return c.JSON(http.StatusOK, models.ServiceRequestResponse{
		Status:  http.StatusOK,
		Message: "Service request completed",
		Data:    request,
	})
}

// lookupProviderName resolves the display name stamped on claimed requests.
// Falls back to the user's full name when no provider document exists yet.
func (rc *RequestController) lookupProviderName(ctx context.Context, providerID primitive.ObjectID) string {
	var provider models.ServiceProvider
	err := config.GetCollection(rc.DB, "providers").
		FindOne(ctx, bson.M{"userId": providerID}).Decode(&provider)
	if err == nil && provider.ProviderName != "" {
		return provider.ProviderName
	}

	var user models.User
	err = config.GetCollection(rc.DB, "users").
		FindOne(ctx, bson.M{"_id": providerID}).Decode(&user)
	if err == nil {
		return user.FullName
	}

	return "a service provider"
}

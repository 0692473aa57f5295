package controllers

import (
	"context"
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

// ProviderController contains provider dashboard logic
type ProviderController struct {
	DB          *mongo.Client
	requestRepo *repositories.RequestRepository
	resolver    *utils.PincodeResolver
	hub         *websocket.Hub
	logger      *log.Logger
}

// NewProviderController creates a new provider controller
func NewProviderController(db *mongo.Client, resolver *utils.PincodeResolver, hub *websocket.Hub) *ProviderController {
	return &ProviderController{
		DB:          db,
		requestRepo: repositories.NewRequestRepository(db),
		resolver:    resolver,
		hub:         hub,
		logger:      log.New(os.Stdout, "[PROVIDER] ", log.LstdFlags),
	}
}

// getProvider loads the provider document for the authenticated user
func (pc *ProviderController) getProvider(ctx context.Context, c echo.Context) (*models.ServiceProvider, error) {
	claims := middleware.GetUserFromToken(c)
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, err
	}

	collection := config.GetCollection(pc.DB, "providers")
	var provider models.ServiceProvider
	if err := collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&provider); err != nil {
		return nil, err
	}
	return &provider, nil
}

// GetDashboard returns the provider's profile document
func (pc *ProviderController) GetDashboard(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	provider, err := pc.getProvider(ctx, c)
	if err == mongo.ErrNoDocuments {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Provider profile not found",
		})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch provider profile",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Provider profile retrieved successfully",
		Data:    provider,
	})
}

// AddServiceArea declares one new pincode as serviceable. The pincode is
// checked for format, then for duplication, then resolved to its region;
// each check fails with its own message and leaves the document unchanged.
func (pc *ProviderController) AddServiceArea(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var areaReq models.AddAreaRequest
	if err := c.Bind(&areaReq); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if !utils.IsValidPincode(areaReq.Pincode) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Pincode must be exactly 6 digits",
		})
	}

	provider, err := pc.getProvider(ctx, c)
	if err == mongo.ErrNoDocuments {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Provider profile not found",
		})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch provider profile",
		})
	}

	if provider.ServesPincode(areaReq.Pincode) {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "This pincode is already in your service areas",
		})
	}

	result, err := pc.resolver.Resolve(ctx, areaReq.Pincode)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Pincode must be exactly 6 digits",
		})
	}
	if result == nil {
		return c.JSON(http.StatusBadGateway, models.Response{
			Status:  http.StatusBadGateway,
			Message: "Could not verify this pincode right now, please try again",
		})
	}

	area := models.ServiceArea{
		Pincode: areaReq.Pincode,
		City:    result.City,
		State:   result.State,
	}

	// The filter re-checks absence so two concurrent adds of the same
	// pincode cannot both append it
	collection := config.GetCollection(pc.DB, "providers")
	res, err := collection.UpdateOne(ctx,
		bson.M{
			"_id":                     provider.ID,
			"servicePincodes.pincode": bson.M{"$ne": areaReq.Pincode},
		},
		bson.M{
			"$push": bson.M{"servicePincodes": area},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to add service area",
		})
	}
	if res.MatchedCount == 0 {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "This pincode is already in your service areas",
		})
	}

	// Keep the live feed routing in step with the stored areas
	pc.hub.UpdateAreas(provider.UserID, append(provider.AreaPincodes(), area.Pincode))

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Service area added successfully",
		Data:    area,
	})
}

// RemoveServiceArea drops one pincode from the provider's declared areas.
// Removal is unconditional; removing a pincode that is not declared is a
// no-op success.
func (pc *ProviderController) RemoveServiceArea(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pincode := c.Param("pincode")
	if !utils.IsValidPincode(pincode) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Pincode must be exactly 6 digits",
		})
	}

	provider, err := pc.getProvider(ctx, c)
	if err == mongo.ErrNoDocuments {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Provider profile not found",
		})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch provider profile",
		})
	}

	collection := config.GetCollection(pc.DB, "providers")
	_, err = collection.UpdateOne(ctx,
		bson.M{"_id": provider.ID},
		bson.M{
			"$pull": bson.M{"servicePincodes": bson.M{"pincode": pincode}},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to remove service area",
		})
	}

	remaining := []string{}
	for _, code := range provider.AreaPincodes() {
		if code != pincode {
			remaining = append(remaining, code)
		}
	}
	pc.hub.UpdateAreas(provider.UserID, remaining)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Service area removed successfully",
	})
}

// SaveProfile persists the provider's offered services and service areas
// together. Both lists are validated up front so a bad one rejects the
// whole save; the document is touched by a single update.
func (pc *ProviderController) SaveProfile(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var saveReq models.SaveProfileRequest
	if err := c.Bind(&saveReq); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if len(saveReq.Services) == 0 {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Please select at least one service",
		})
	}
	if len(saveReq.ServicePincodes) == 0 {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Please add at least one service area",
		})
	}
	for _, area := range saveReq.ServicePincodes {
		if !utils.IsValidPincode(area.Pincode) {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Pincode must be exactly 6 digits: " + area.Pincode,
			})
		}
	}

	provider, err := pc.getProvider(ctx, c)
	if err == mongo.ErrNoDocuments {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Provider profile not found",
		})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch provider profile",
		})
	}

	collection := config.GetCollection(pc.DB, "providers")
	_, err = collection.UpdateOne(ctx,
		bson.M{"_id": provider.ID},
		bson.M{"$set": bson.M{
			"services":        utils.SanitizeStringArray(saveReq.Services),
			"servicePincodes": saveReq.ServicePincodes,
			"updatedAt":       time.Now(),
		}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to save provider profile",
		})
	}

	pincodes := make([]string, 0, len(saveReq.ServicePincodes))
	for _, area := range saveReq.ServicePincodes {
		pincodes = append(pincodes, area.Pincode)
	}
	pc.hub.UpdateAreas(provider.UserID, pincodes)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Provider profile saved successfully",
	})
}

// GetPendingRequests returns pending requests whose customer pincode falls
// inside the provider's declared areas. A provider with no areas gets an
// empty feed, not an error.
func (pc *ProviderController) GetPendingRequests(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	provider, err := pc.getProvider(ctx, c)
	if err == mongo.ErrNoDocuments {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Provider profile not found",
		})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch provider profile",
		})
	}

	requests, err := pc.requestRepo.FindPendingByPincodes(ctx, provider.AreaPincodes())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch pending requests",
		})
	}

	return c.JSON(http.StatusOK, models.ServiceRequestsResponse{
		Status:  http.StatusOK,
		Message: "Pending requests retrieved successfully",
		Data:    requests,
	})
}

// GetAcceptedRequests returns the requests this provider has claimed and
// not yet completed
func (pc *ProviderController) GetAcceptedRequests(c echo.Context) error {
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

	requests, err := pc.requestRepo.FindAcceptedByProvider(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch accepted requests",
		})
	}

	return c.JSON(http.StatusOK, models.ServiceRequestsResponse{
		Status:  http.StatusOK,
		Message: "Accepted requests retrieved successfully",
		Data:    requests,
	})
}

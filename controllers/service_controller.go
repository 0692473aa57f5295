package controllers

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dudhkela/dudhkela_backend/config"
	"github.com/dudhkela/dudhkela_backend/models"
	"github.com/dudhkela/dudhkela_backend/utils"
)

// ServiceController contains service catalog logic
type ServiceController struct {
	DB     *mongo.Client
	logger *log.Logger
}

// NewServiceController creates a new service controller
func NewServiceController(db *mongo.Client) *ServiceController {
	return &ServiceController{
		DB:     db,
		logger: log.New(os.Stdout, "[SERVICE] ", log.LstdFlags),
	}
}

// ListServices returns the catalog, optionally filtered by category,
// maximum price, or serving pincode
func (sc *ServiceController) ListServices(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if category := c.QueryParam("category"); category != "" {
		filter["category"] = utils.SanitizeInput(category)
	}
	if maxPriceStr := c.QueryParam("maxPrice"); maxPriceStr != "" {
		maxPrice, err := strconv.ParseFloat(maxPriceStr, 64)
		if err != nil || maxPrice < 0 {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "maxPrice must be a non-negative number",
			})
		}
		filter["price"] = bson.M{"$lte": maxPrice}
	}
	if pincode := c.QueryParam("pincode"); pincode != "" {
		if !utils.IsValidPincode(pincode) {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Pincode must be exactly 6 digits",
			})
		}
		filter["providers.serviceAreas"] = pincode
	}

	collection := config.GetCollection(sc.DB, "services")
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch services",
		})
	}
	defer cursor.Close(ctx)

	services := []models.Service{}
	if err := cursor.All(ctx, &services); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode services",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Services retrieved successfully",
		Data:    services,
	})
}

// GetService returns one catalog entry by ID
func (sc *ServiceController) GetService(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	serviceID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid service ID",
		})
	}

	collection := config.GetCollection(sc.DB, "services")
	var service models.Service
	err = collection.FindOne(ctx, bson.M{"_id": serviceID}).Decode(&service)
	if err == mongo.ErrNoDocuments {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Service not found",
		})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch service",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Service retrieved successfully",
		Data:    service,
	})
}

// GetProvidersByPincode returns approved providers serving a pincode,
// optionally narrowed to those offering a named service
func (sc *ServiceController) GetProvidersByPincode(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pincode := c.Param("pincode")
	if !utils.IsValidPincode(pincode) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Pincode must be exactly 6 digits",
		})
	}

	filter := bson.M{"servicePincodes.pincode": pincode}
	if service := c.QueryParam("service"); service != "" {
		filter["services"] = utils.SanitizeInput(service)
	}

	collection := config.GetCollection(sc.DB, "providers")
	opts := options.Find().SetSort(bson.D{{Key: "rating", Value: -1}})
	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch providers",
		})
	}
	defer cursor.Close(ctx)

	providers := []models.ServiceProvider{}
	if err := cursor.All(ctx, &providers); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode providers",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Providers retrieved successfully",
		Data:    providers,
	})
}

// CreateService adds a catalog entry. Admin only.
func (sc *ServiceController) CreateService(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var service models.Service
	if err := c.Bind(&service); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if service.Name == "" || service.Category == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Service name and category are required",
		})
	}
	if service.Price < 0 {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Service price cannot be negative",
		})
	}

	now := time.Now()
	service.ID = primitive.NewObjectID()
	service.Name = utils.SanitizeInput(service.Name)
	service.Category = utils.SanitizeInput(service.Category)
	service.Providers = nil
	service.Reviews = nil
	service.Rating = 0
	service.CreatedAt = now
	service.UpdatedAt = now

	collection := config.GetCollection(sc.DB, "services")
	if _, err := collection.InsertOne(ctx, service); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create service",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Service created successfully",
		Data:    service,
	})
}

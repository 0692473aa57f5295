package controllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dudhkela/dudhkela_backend/config"
	"github.com/dudhkela/dudhkela_backend/middleware"
	"github.com/dudhkela/dudhkela_backend/models"
	"github.com/dudhkela/dudhkela_backend/utils"
)

// ErrAlreadyReviewed is returned when a review loses the race against a
// concurrent decision on the same application.
var ErrAlreadyReviewed = errors.New("application already reviewed")

// ApplicationController contains provider application logic
type ApplicationController struct {
	DB       *mongo.Client
	resolver *utils.PincodeResolver
	mailer   *utils.Mailer
	logger   *log.Logger
}

// NewApplicationController creates a new application controller
func NewApplicationController(db *mongo.Client, resolver *utils.PincodeResolver, mailer *utils.Mailer) *ApplicationController {
	return &ApplicationController{
		DB:       db,
		resolver: resolver,
		mailer:   mailer,
		logger:   log.New(os.Stdout, "[APPLICATION] ", log.LstdFlags),
	}
}

// SubmitApplication files a provider application for the authenticated
// user. One application per user; resubmitting while one exists is refused.
func (ac *ApplicationController) SubmitApplication(c echo.Context) error {
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

	var input models.ApplicationInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&input); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "At least one service and one service area are required",
		})
	}

	for _, area := range input.ServicePincodes {
		if !utils.IsValidPincode(area.Pincode) {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Pincode must be exactly 6 digits: " + area.Pincode,
			})
		}
	}

	usersCollection := config.GetCollection(ac.DB, "users")
	var user models.User
	if err := usersCollection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	if user.Role == models.RoleProvider {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "You are already a provider",
		})
	}

	// Fill in missing city and state per area, best effort
	areas := make([]models.ServiceArea, 0, len(input.ServicePincodes))
	for _, area := range input.ServicePincodes {
		if area.City == "" || area.State == "" {
			if result, err := ac.resolver.Resolve(ctx, area.Pincode); err == nil && result != nil {
				area.City = result.City
				area.State = result.State
			}
		}
		areas = append(areas, area)
	}

	application := models.ProviderApplication{
		ID:              primitive.NewObjectID(),
		UserID:          userID,
		UserName:        user.FullName,
		Email:           user.Email,
		Services:        utils.SanitizeStringArray(input.Services),
		ServicePincodes: areas,
		Status:          models.ApplicationStatusPending,
		ApplicationDate: time.Now(),
	}

	appsCollection := config.GetCollection(ac.DB, "provider-applications")
	if _, err := appsCollection.InsertOne(ctx, application); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "You have already submitted an application",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to submit application",
		})
	}

	if _, err := usersCollection.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{
			"applicationStatus": models.ApplicationStatusPending,
			"updatedAt":         time.Now(),
		}},
	); err != nil {
		ac.logger.Printf("Failed to stamp applicationStatus on user %s: %v", userID.Hex(), err)
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Application submitted successfully. You will be notified once it has been reviewed.",
		Data:    application,
	})
}

// GetMyApplication returns the authenticated user's application, if any
func (ac *ApplicationController) GetMyApplication(c echo.Context) error {
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

	collection := config.GetCollection(ac.DB, "provider-applications")
	var application models.ProviderApplication
	err = collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&application)
	if err == mongo.ErrNoDocuments {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "No application found",
		})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch application",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Application retrieved successfully",
		Data:    application,
	})
}

// GetPendingApplications returns all applications awaiting review,
// oldest first so the queue is worked in submission order
func (ac *ApplicationController) GetPendingApplications(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	applications, err := ac.fetchPendingApplications(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch pending applications",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Pending applications retrieved successfully",
		Data:    applications,
	})
}

func (ac *ApplicationController) fetchPendingApplications(ctx context.Context) ([]models.ProviderApplication, error) {
	collection := config.GetCollection(ac.DB, "provider-applications")
	opts := options.Find().SetSort(bson.D{{Key: "applicationDate", Value: 1}})
	cursor, err := collection.Find(ctx, bson.M{"status": models.ApplicationStatusPending}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	applications := []models.ProviderApplication{}
	if err := cursor.All(ctx, &applications); err != nil {
		return nil, err
	}
	return applications, nil
}

// reviewResult is the admin-facing summary of a review cascade
type reviewResult struct {
	Outcome             string                       `json:"outcome"` // "full_success", "partial_success", "aborted"
	FailedSteps         []string                     `json:"failedSteps,omitempty"`
	Application         *models.ProviderApplication  `json:"application,omitempty"`
	PendingApplications []models.ProviderApplication `json:"pendingApplications,omitempty"`
}

// ReviewApplication records the admin decision on a pending application.
// The review runs as an ordered cascade of separate writes: the
// application update and the user promotion are critical and abort the
// rest on failure; the approval email and the refreshed pending list are
// best effort. The response names any step that failed so the admin knows
// whether the decision itself stuck.
func (ac *ApplicationController) ReviewApplication(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	claims := middleware.GetUserFromToken(c)
	adminID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	applicationID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid application ID",
		})
	}

	var reviewReq models.ReviewRequest
	if err := c.Bind(&reviewReq); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&reviewReq); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Status must be either 'approved' or 'rejected'",
		})
	}

	appsCollection := config.GetCollection(ac.DB, "provider-applications")
	var application models.ProviderApplication
	err = appsCollection.FindOne(ctx, bson.M{"_id": applicationID}).Decode(&application)
	if err == mongo.ErrNoDocuments {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Application not found",
		})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch application",
		})
	}

	// An application is reviewed exactly once
	if application.Status != models.ApplicationStatusPending {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: fmt.Sprintf("This application has already been %s", application.Status),
		})
	}

	now := time.Now()
	usersCollection := config.GetCollection(ac.DB, "users")
	providersCollection := config.GetCollection(ac.DB, "providers")

	var reviewed models.ProviderApplication
	var pendingList []models.ProviderApplication

	steps := []utils.ReviewStep{
		{
			Name:     "update-application",
			Critical: true,
			Run: func(ctx context.Context) error {
				res, err := appsCollection.UpdateOne(ctx,
					bson.M{"_id": applicationID, "status": models.ApplicationStatusPending},
					bson.M{"$set": bson.M{
						"status":     reviewReq.Status,
						"reviewedBy": adminID,
						"reviewDate": now,
					}},
				)
				if err != nil {
					return err
				}
				// The status filter lost against a concurrent review:
				// abort before the user document is touched, so the
				// winning decision stands alone.
				if res.MatchedCount == 0 {
					return ErrAlreadyReviewed
				}
				return nil
			},
		},
		{
			Name:     "update-user",
			Critical: true,
			Run: func(ctx context.Context) error {
				if reviewReq.Status != models.ApplicationStatusApproved {
					_, err := usersCollection.UpdateOne(ctx,
						bson.M{"_id": application.UserID},
						bson.M{"$set": bson.M{
							"applicationStatus": models.ApplicationStatusRejected,
							"updatedAt":         now,
						}},
					)
					return err
				}

				set := bson.M{
					"role":              models.RoleProvider,
					"applicationStatus": models.ApplicationStatusApproved,
					"providerSince":     now,
					"updatedAt":         now,
				}
				if referralCode, err := utils.GenerateProviderReferralCode(); err == nil {
					set["referralCode"] = referralCode
				}

				if _, err := usersCollection.UpdateOne(ctx,
					bson.M{"_id": application.UserID},
					bson.M{"$set": set},
				); err != nil {
					return err
				}

				// Upsert keeps a re-approved provider from getting a
				// second document
				update := bson.M{
					"$set": bson.M{
						"userId":          application.UserID,
						"providerName":    application.UserName,
						"email":           application.Email,
						"services":        application.Services,
						"servicePincodes": application.ServicePincodes,
						"updatedAt":       now,
					},
					"$setOnInsert": bson.M{
						"rating":          0.0,
						"numberOfReviews": 0,
						"createdAt":       now,
					},
				}
				opts := options.Update().SetUpsert(true)
				_, err = providersCollection.UpdateOne(ctx, bson.M{"userId": application.UserID}, update, opts)
				return err
			},
		},
		{
			Name:     "send-approval-email",
			Critical: false,
			Run: func(ctx context.Context) error {
				// Re-fetch so the email reflects the stored decision,
				// not the in-memory copy
				if err := appsCollection.FindOne(ctx, bson.M{"_id": applicationID}).Decode(&reviewed); err != nil {
					return err
				}
				if reviewed.Status != models.ApplicationStatusApproved {
					return nil
				}
				if err := ac.mailer.SendProviderApprovalEmail(&reviewed); err != nil {
					return err
				}
				return utils.SaveNotification(ac.DB, application.UserID,
					"Application Approved",
					"Congratulations! Your provider application has been approved.",
					models.NotificationTypeProviderApproval,
					map[string]string{"applicationId": applicationID.Hex()},
				)
			},
		},
		{
			Name:     "refresh-pending-list",
			Critical: false,
			Run: func(ctx context.Context) error {
				list, err := ac.fetchPendingApplications(ctx)
				if err != nil {
					return err
				}
				pendingList = list
				return nil
			},
		},
	}

	outcome := utils.RunReviewCascade(ctx, steps)
	for _, step := range outcome.Steps {
		if step.Err != nil {
			ac.logger.Printf("Review step %s failed for application %s: %v", step.Name, applicationID.Hex(), step.Err)
		}
	}

	result := reviewResult{
		Outcome:             outcome.Kind,
		FailedSteps:         outcome.FailedSteps,
		PendingApplications: pendingList,
	}
	if reviewed.ID != primitive.NilObjectID {
		result.Application = &reviewed
	}

	if reviewLostRace(outcome) {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "This application was reviewed by someone else moments ago",
		})
	}

	switch outcome.Kind {
	case utils.ReviewAborted:
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Review failed; the application was not fully processed",
			Data:    result,
		})
	case utils.ReviewPartialSuccess:
		return c.JSON(http.StatusOK, models.Response{
			Status:  http.StatusOK,
			Message: "Application reviewed, but some follow-up steps failed",
			Data:    result,
		})
	default:
		return c.JSON(http.StatusOK, models.Response{
			Status:  http.StatusOK,
			Message: fmt.Sprintf("Application %s successfully", reviewReq.Status),
			Data:    result,
		})
	}
}

// reviewLostRace reports whether the cascade aborted because another
// review claimed the application first
func reviewLostRace(outcome utils.ReviewOutcome) bool {
	if outcome.Kind != utils.ReviewAborted {
		return false
	}
	for _, step := range outcome.Steps {
		if step.Name == "update-application" && errors.Is(step.Err, ErrAlreadyReviewed) {
			return true
		}
	}
	return false
}

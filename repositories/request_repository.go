package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dudhkela/dudhkela_backend/config"
	"github.com/dudhkela/dudhkela_backend/models"
)

// ErrAlreadyClaimed is returned when a provider tries to accept a request
// that another provider claimed first.
var ErrAlreadyClaimed = errors.New("request already claimed by another provider")

// ErrRequestNotFound is returned when the request does not exist.
var ErrRequestNotFound = errors.New("service request not found")

// ErrInvalidTransition is returned when the request is not in a status that
// permits the attempted update.
var ErrInvalidTransition = errors.New("request status does not allow this transition")

// RequestRepository wraps the serviceRequests collection.
type RequestRepository struct {
	collection *mongo.Collection
}

// NewRequestRepository creates a new request repository
func NewRequestRepository(db *mongo.Client) *RequestRepository {
	return &RequestRepository{
		collection: config.GetCollection(db, "serviceRequests"),
	}
}

// Create inserts a new pending service request and returns it with its ID set.
func (r *RequestRepository) Create(ctx context.Context, request *models.ServiceRequest) error {
	now := time.Now()
	request.ID = primitive.NewObjectID()
	request.Reference = uuid.NewString()
	request.Status = models.RequestStatusPending
	request.CreatedAt = now
	request.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, request)
	return err
}

// GetByID fetches a single request by its ID.
func (r *RequestRepository) GetByID(ctx context.Context, requestID primitive.ObjectID) (*models.ServiceRequest, error) {
	var request models.ServiceRequest
	err := r.collection.FindOne(ctx, bson.M{"_id": requestID}).Decode(&request)
	if err == mongo.ErrNoDocuments {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// Claim atomically moves a pending request to accepted on behalf of a
// provider. The status filter guarantees that when two providers race for
// the same request, exactly one wins; the loser gets ErrAlreadyClaimed.
func (r *RequestRepository) Claim(ctx context.Context, requestID, providerID primitive.ObjectID, providerName string) (*models.ServiceRequest, error) {
	now := time.Now()
	filter := bson.M{
		"_id":    requestID,
		"status": models.RequestStatusPending,
	}
	update := bson.M{
		"$set": bson.M{
			"status":       models.RequestStatusAccepted,
			"providerId":   providerID,
			"providerName": providerName,
			"acceptedAt":   now,
			"updatedAt":    now,
		},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.ServiceRequest
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		// Distinguish a request that never existed from one that was
		// claimed or resolved before this provider got to it.
		count, countErr := r.collection.CountDocuments(ctx, bson.M{"_id": requestID})
		if countErr != nil {
			return nil, countErr
		}
		if count == 0 {
			return nil, ErrRequestNotFound
		}
		return nil, ErrAlreadyClaimed
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Reject marks a pending request as rejected by the given provider.
func (r *RequestRepository) Reject(ctx context.Context, requestID, providerID primitive.ObjectID, providerName string) (*models.ServiceRequest, error) {
	now := time.Now()
	filter := bson.M{
		"_id":    requestID,
		"status": models.RequestStatusPending,
	}
	update := bson.M{
		"$set": bson.M{
			"status":       models.RequestStatusRejected,
			"providerId":   providerID,
			"providerName": providerName,
			"updatedAt":    now,
		},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.ServiceRequest
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		count, countErr := r.collection.CountDocuments(ctx, bson.M{"_id": requestID})
		if countErr != nil {
			return nil, countErr
		}
		if count == 0 {
			return nil, ErrRequestNotFound
		}
		return nil, ErrInvalidTransition
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Complete marks an accepted request as completed. Only the provider who
// claimed the request may complete it.
func (r *RequestRepository) Complete(ctx context.Context, requestID, providerID primitive.ObjectID) (*models.ServiceRequest, error) {
	now := time.Now()
	filter := bson.M{
		"_id":        requestID,
		"status":     models.RequestStatusAccepted,
		"providerId": providerID,
	}
	update := bson.M{
		"$set": bson.M{
			"status":      models.RequestStatusCompleted,
			"completedAt": now,
			"updatedAt":   now,
		},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.ServiceRequest
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		count, countErr := r.collection.CountDocuments(ctx, bson.M{"_id": requestID})
		if countErr != nil {
			return nil, countErr
		}
		if count == 0 {
			return nil, ErrRequestNotFound
		}
		return nil, ErrInvalidTransition
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// FindPendingByPincodes returns pending requests whose customer pincode
// falls inside the given set of service areas, newest first.
func (r *RequestRepository) FindPendingByPincodes(ctx context.Context, pincodes []string) ([]models.ServiceRequest, error) {
	if len(pincodes) == 0 {
		return []models.ServiceRequest{}, nil
	}

	filter := bson.M{
		"status":          models.RequestStatusPending,
		"customerPincode": bson.M{"$in": pincodes},
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	requests := []models.ServiceRequest{}
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// FindAcceptedByProvider returns requests the provider has claimed and not
// yet completed, newest first.
func (r *RequestRepository) FindAcceptedByProvider(ctx context.Context, providerID primitive.ObjectID) ([]models.ServiceRequest, error) {
	filter := bson.M{
		"status":     models.RequestStatusAccepted,
		"providerId": providerID,
	}
	opts := options.Find().SetSort(bson.D{{Key: "acceptedAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	requests := []models.ServiceRequest{}
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// FindByCustomer returns all requests a customer has placed, newest first.
func (r *RequestRepository) FindByCustomer(ctx context.Context, customerID primitive.ObjectID) ([]models.ServiceRequest, error) {
	filter := bson.M{"customerId": customerID}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	requests := []models.ServiceRequest{}
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

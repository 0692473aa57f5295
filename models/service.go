package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServiceProviderEntry links a provider to a catalog service in given areas
type ServiceProviderEntry struct {
	ProviderID   primitive.ObjectID `json:"providerId" bson:"providerId"`
	Price        *float64           `json:"price,omitempty" bson:"price,omitempty"` // overrides the service base price
	IsAvailable  bool               `json:"isAvailable" bson:"isAvailable"`
	ServiceAreas []string           `json:"serviceAreas" bson:"serviceAreas"` // pincodes
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
}

// ServiceReview is a customer review left on a service for a provider
type ServiceReview struct {
	ReviewerID primitive.ObjectID `json:"reviewerId" bson:"reviewerId"`
	ProviderID primitive.ObjectID `json:"providerId" bson:"providerId"`
	Rating     int                `json:"rating" bson:"rating"`
	Comment    string             `json:"comment" bson:"comment"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
}

// Service is a catalog entry. Read-mostly reference data for matching;
// not mutated by the request or application flows.
type Service struct {
	ID        primitive.ObjectID     `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string                 `json:"name" bson:"name"`
	Details   string                 `json:"details,omitempty" bson:"details,omitempty"`
	Price     float64                `json:"price" bson:"price"`
	Category  string                 `json:"category" bson:"category"`
	Rating    float64                `json:"rating" bson:"rating"`
	Providers []ServiceProviderEntry `json:"providers,omitempty" bson:"providers,omitempty"`
	Reviews   []ServiceReview        `json:"reviews,omitempty" bson:"reviews,omitempty"`
	CreatedAt time.Time              `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time              `json:"updatedAt" bson:"updatedAt"`
}

// ServiceProvider is the catalog-side provider entity with its declared
// areas, offered services and aggregate rating
type ServiceProvider struct {
	ID              primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID          primitive.ObjectID `json:"userId" bson:"userId"`
	ProviderName    string             `json:"providerName" bson:"providerName"`
	Email           string             `json:"email" bson:"email"`
	Phone           string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Address         string             `json:"address,omitempty" bson:"address,omitempty"`
	City            string             `json:"city,omitempty" bson:"city,omitempty"`
	State           string             `json:"state,omitempty" bson:"state,omitempty"`
	Pincode         string             `json:"pincode,omitempty" bson:"pincode,omitempty"`
	ServicePincodes []ServiceArea      `json:"servicePincodes" bson:"servicePincodes"`
	Services        []string           `json:"services" bson:"services"`
	Rating          float64            `json:"rating" bson:"rating"`
	NumberOfReviews int                `json:"numberOfReviews" bson:"numberOfReviews"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// ServesPincode reports whether the provider has declared the given
// pincode as a service area
func (p *ServiceProvider) ServesPincode(pincode string) bool {
	for _, area := range p.ServicePincodes {
		if area.Pincode == pincode {
			return true
		}
	}
	return false
}

// AreaPincodes returns the bare pincode values of all declared areas
func (p *ServiceProvider) AreaPincodes() []string {
	codes := make([]string, 0, len(p.ServicePincodes))
	for _, area := range p.ServicePincodes {
		codes = append(codes, area.Pincode)
	}
	return codes
}

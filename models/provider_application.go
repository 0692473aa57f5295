package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProviderApplication statuses
const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusApproved = "approved"
	ApplicationStatusRejected = "rejected"
)

// ServiceArea is one pincode a provider has declared as serviceable,
// resolved to its region at the time it was added
type ServiceArea struct {
	Pincode string `json:"pincode" bson:"pincode"`
	City    string `json:"city,omitempty" bson:"city,omitempty"`
	State   string `json:"state,omitempty" bson:"state,omitempty"`
}

// ProviderApplication represents an aspiring provider's submission,
// one per user, reviewed once by an admin
type ProviderApplication struct {
	ID              primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	UserID          primitive.ObjectID  `json:"userId" bson:"userId"`
	UserName        string              `json:"userName" bson:"userName"`
	Email           string              `json:"email" bson:"email"`
	Services        []string            `json:"services" bson:"services"`
	ServicePincodes []ServiceArea       `json:"servicePincodes" bson:"servicePincodes"`
	Status          string              `json:"status" bson:"status"` // "pending", "approved", "rejected"
	ApplicationDate time.Time           `json:"applicationDate" bson:"applicationDate"`
	ReviewedBy      *primitive.ObjectID `json:"reviewedBy,omitempty" bson:"reviewedBy,omitempty"`
	ReviewDate      *time.Time          `json:"reviewDate,omitempty" bson:"reviewDate,omitempty"`
}

// HasArea reports whether the given pincode is already declared
// (uniqueness is by pincode value)
func (a *ProviderApplication) HasArea(pincode string) bool {
	for _, area := range a.ServicePincodes {
		if area.Pincode == pincode {
			return true
		}
	}
	return false
}

// AreaPincodes returns the bare pincode values of all declared areas
func (a *ProviderApplication) AreaPincodes() []string {
	codes := make([]string, 0, len(a.ServicePincodes))
	for _, area := range a.ServicePincodes {
		codes = append(codes, area.Pincode)
	}
	return codes
}

// ApplicationInput is the request body for submitting an application
type ApplicationInput struct {
	Services        []string      `json:"services" validate:"required,min=1"`
	ServicePincodes []ServiceArea `json:"servicePincodes" validate:"required,min=1"`
}

// ReviewRequest is the admin decision on an application
type ReviewRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

// AddAreaRequest adds one pincode to a provider's declared service areas
type AddAreaRequest struct {
	Pincode string `json:"pincode" validate:"required"`
}

// SaveProfileRequest is the combined service-area and service-catalog
// update a provider persists from the dashboard
type SaveProfileRequest struct {
	Services        []string      `json:"services"`
	ServicePincodes []ServiceArea `json:"servicePincodes"`
}

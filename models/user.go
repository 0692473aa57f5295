// models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles
const (
	RoleCustomer = "customer"
	RoleProvider = "provider"
	RoleAdmin    = "admin"
)

// User model
type User struct {
	ID                primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Email             string             `json:"email" bson:"email"`
	Password          string             `json:"password,omitempty" bson:"password"`
	FullName          string             `json:"fullName" bson:"fullName"`
	Role              string             `json:"role" bson:"role"` // "customer", "provider", "admin"
	Phone             string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Address           string             `json:"address,omitempty" bson:"address,omitempty"`
	Pincode           string             `json:"pincode,omitempty" bson:"pincode,omitempty"`
	City              string             `json:"city,omitempty" bson:"city,omitempty"`
	State             string             `json:"state,omitempty" bson:"state,omitempty"`
	Points            int                `json:"points" bson:"points"`
	ReferralCode      string             `json:"referralCode,omitempty" bson:"referralCode,omitempty"`
	ApplicationStatus string             `json:"applicationStatus,omitempty" bson:"applicationStatus,omitempty"` // mirrors the provider application status
	ProviderSince     *time.Time         `json:"providerSince,omitempty" bson:"providerSince,omitempty"`
	IsActive          bool               `json:"isActive" bson:"isActive"`
	CreatedAt         time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// UpdateProfileRequest is the request body for profile edits
type UpdateProfileRequest struct {
	FullName string `json:"fullName,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
	Pincode  string `json:"pincode,omitempty"`
}

// Response model
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

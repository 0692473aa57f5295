// utils/signup_cache.go
package utils

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/dudhkela/dudhkela_backend/models"
)

const (
	signupKeyPrefix = "signup:"
	signupTTL       = 30 * time.Minute
)

// PendingSignup is the signup form data held in Redis across the email
// verification step. It is a best-effort handoff buffer, not a durable
// store; the key is cleared once the user document is created.
type PendingSignup struct {
	models.SignupRequest
	HashedPassword string    `json:"hashedPassword"`
	OTP            string    `json:"otp"`
	CreatedAt      time.Time `json:"createdAt"`
}

// SignupCache stores pending signups in Redis under one key per email
type SignupCache struct {
	rdb *redis.Client
}

// NewSignupCache creates a signup cache backed by the given Redis client
func NewSignupCache(rdb *redis.Client) *SignupCache {
	return &SignupCache{rdb: rdb}
}

// Store writes the pending signup, replacing any earlier attempt
func (c *SignupCache) Store(ctx context.Context, pending *PendingSignup) error {
	data, err := json.Marshal(pending)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, signupKeyPrefix+pending.Email, data, signupTTL).Err()
}

// Load returns the pending signup for an email, or nil when none exists
// or it has expired
func (c *SignupCache) Load(ctx context.Context, email string) (*PendingSignup, error) {
	data, err := c.rdb.Get(ctx, signupKeyPrefix+email).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var pending PendingSignup
	if err := json.Unmarshal(data, &pending); err != nil {
		return nil, err
	}
	return &pending, nil
}

// Clear removes the pending signup once the profile document exists
func (c *SignupCache) Clear(ctx context.Context, email string) error {
	return c.rdb.Del(ctx, signupKeyPrefix+email).Err()
}

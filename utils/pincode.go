// utils/pincode.go
package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"regexp"
	"time"
)

// ErrInvalidPincode is returned for input that is not exactly six digits.
// Malformed input never reaches the network.
var ErrInvalidPincode = errors.New("pincode must be exactly 6 digits")

var pincodePattern = regexp.MustCompile(`^[0-9]{6}$`)

// IsValidPincode reports whether the string is exactly six digits
func IsValidPincode(pincode string) bool {
	return pincodePattern.MatchString(pincode)
}

// PincodeResult is the resolved region for a pincode
type PincodeResult struct {
	City  string `json:"city"`
	State string `json:"state"`
}

// PincodeResolver looks up city/state for a 6-digit postal code against
// the postal pincode API
type PincodeResolver struct {
	BaseURL string
	Client  *http.Client
}

// NewPincodeResolver creates a resolver configured from the environment
func NewPincodeResolver() *PincodeResolver {
	baseURL := os.Getenv("PINCODE_API_URL")
	if baseURL == "" {
		baseURL = "https://api.postalpincode.in"
	}
	return &PincodeResolver{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// pincodeAPIResponse matches the upstream payload; only the first post
// office's district and state are consumed
type pincodeAPIResponse []struct {
	Status     string `json:"Status"`
	PostOffice []struct {
		District string `json:"District"`
		State    string `json:"State"`
	} `json:"PostOffice"`
}

// Resolve returns the city and state for a pincode, or nil when the code
// cannot be resolved. A failed lookup (network error, non-success status,
// empty result) degrades to a nil result rather than an error, so callers
// treat nil as "resolution failed". Only malformed input returns an error.
func (r *PincodeResolver) Resolve(ctx context.Context, pincode string) (*PincodeResult, error) {
	if !IsValidPincode(pincode) {
		return nil, ErrInvalidPincode
	}

	url := fmt.Sprintf("%s/pincode/%s", r.BaseURL, pincode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil
	}

	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	var payload pincodeAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, nil
	}

	if len(payload) == 0 || payload[0].Status != "Success" || len(payload[0].PostOffice) == 0 {
		return nil, nil
	}

	office := payload[0].PostOffice[0]
	return &PincodeResult{
		City:  office.District,
		State: office.State,
	}, nil
}

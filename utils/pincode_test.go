package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestResolver(baseURL string) *PincodeResolver {
	return &PincodeResolver{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 2 * time.Second},
	}
}

func TestIsValidPincode(t *testing.T) {
	valid := []string{"110001", "734001", "000000"}
	for _, code := range valid {
		if !IsValidPincode(code) {
			t.Fatalf("expected %q to be valid", code)
		}
	}

	invalid := []string{"", "12345", "1234567", "73400a", "734 01", "73-401", "७३४००१"}
	for _, code := range invalid {
		if IsValidPincode(code) {
			t.Fatalf("expected %q to be invalid", code)
		}
	}
}

func TestResolveRejectsMalformedInputBeforeNetwork(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		w.Write([]byte(`[{"Status":"Success","PostOffice":[{"District":"X","State":"Y"}]}]`))
	}))
	defer server.Close()

	resolver := newTestResolver(server.URL)
	for _, code := range []string{"12345", "73400a", "1234567"} {
		result, err := resolver.Resolve(context.Background(), code)
		if err != ErrInvalidPincode {
			t.Fatalf("expected ErrInvalidPincode for %q, got %v", code, err)
		}
		if result != nil {
			t.Fatalf("expected nil result for %q", code)
		}
	}

	if n := atomic.LoadInt64(&calls); n != 0 {
		t.Fatalf("malformed input reached the network %d times", n)
	}
}

func TestResolveSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pincode/734001" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`[{"Status":"Success","PostOffice":[{"District":"Darjeeling","State":"West Bengal"},{"District":"Other","State":"Other"}]}]`))
	}))
	defer server.Close()

	resolver := newTestResolver(server.URL)
	result, err := resolver.Resolve(context.Background(), "734001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil {
		t.Fatal("expected a result")
	}
	if result.City != "Darjeeling" || result.State != "West Bengal" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestResolveDegradesToNil(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "upstream error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`[{"Status":"Error","PostOffice":[]}]`))
			},
		},
		{
			name: "no post offices",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`[{"Status":"Success","PostOffice":[]}]`))
			},
		},
		{
			name: "http failure",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "malformed payload",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`not json`))
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(tc.handler)
			defer server.Close()

			resolver := newTestResolver(server.URL)
			result, err := resolver.Resolve(context.Background(), "110001")
			if err != nil {
				t.Fatalf("lookup failure should not be an error, got %v", err)
			}
			if result != nil {
				t.Fatalf("expected nil result, got %+v", result)
			}
		})
	}
}

func TestResolveUnreachableUpstream(t *testing.T) {
	// Closed port: connection refused
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	resolver := newTestResolver(server.URL)
	result, err := resolver.Resolve(context.Background(), "110001")
	if err != nil {
		t.Fatalf("network failure should not be an error, got %v", err)
	}
	if result != nil {
		t.Fatalf("expected nil result, got %+v", result)
	}
}

package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/dudhkela/dudhkela_backend/models"
)

// newProviderTestContext builds an echo context around a JSON body. The
// controller under test carries no database, resolver or hub, so any
// code path that reaches past the precondition checks panics the test.
func newProviderTestContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) models.Response {
	t.Helper()
	var resp models.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

func TestSaveProfileRejectsEmptyServices(t *testing.T) {
	pc := &ProviderController{}
	c, rec := newProviderTestContext(t, http.MethodPost, "/api/provider/profile",
		`{"services":[],"servicePincodes":[{"pincode":"734001"}]}`)

	if err := pc.SaveProfile(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	resp := decodeResponse(t, rec)
	if !strings.Contains(resp.Message, "at least one service") {
		t.Fatalf("expected the services precondition message, got %q", resp.Message)
	}
}

func TestSaveProfileRejectsEmptyAreas(t *testing.T) {
	pc := &ProviderController{}
	c, rec := newProviderTestContext(t, http.MethodPost, "/api/provider/profile",
		`{"services":["Cow Milk Delivery"],"servicePincodes":[]}`)

	if err := pc.SaveProfile(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	resp := decodeResponse(t, rec)
	if !strings.Contains(resp.Message, "at least one service area") {
		t.Fatalf("expected the areas precondition message, got %q", resp.Message)
	}
}

func TestSaveProfileRejectsMalformedAreaPincode(t *testing.T) {
	pc := &ProviderController{}
	c, rec := newProviderTestContext(t, http.MethodPost, "/api/provider/profile",
		`{"services":["Cow Milk Delivery"],"servicePincodes":[{"pincode":"73400"}]}`)

	if err := pc.SaveProfile(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	resp := decodeResponse(t, rec)
	if !strings.Contains(resp.Message, "exactly 6 digits") {
		t.Fatalf("expected the pincode format message, got %q", resp.Message)
	}
}

func TestAddServiceAreaRejectsMalformedPincodeBeforeAnyLookup(t *testing.T) {
	pc := &ProviderController{}
	c, rec := newProviderTestContext(t, http.MethodPost, "/api/provider/areas",
		`{"pincode":"73400a"}`)

	if err := pc.AddServiceArea(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	resp := decodeResponse(t, rec)
	if !strings.Contains(resp.Message, "exactly 6 digits") {
		t.Fatalf("expected the pincode format message, got %q", resp.Message)
	}
}

package utils

import (
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dudhkela/dudhkela_backend/models"
)

func TestFormatServiceDetails(t *testing.T) {
	items := []models.LineItem{
		{Name: "Cow Milk Delivery", Quantity: 2, Price: 100},
		{Name: "Plumbing Visit", Quantity: 1, Price: 300},
	}

	got := FormatServiceDetails(items)

	for _, want := range []string{
		"Cow Milk Delivery",
		"Quantity: 2",
		"Price: ₹100 per unit",
		"Subtotal: ₹200",
		"Plumbing Visit",
		"Quantity: 1",
		"Price: ₹300 per unit",
		"Subtotal: ₹300",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("details missing %q:\n%s", want, got)
		}
	}

	if n := strings.Count(got, "----------------------------------------"); n != 2 {
		t.Fatalf("expected one separator per item, got %d", n)
	}
}

func TestRequestAcceptedBody(t *testing.T) {
	request := &models.ServiceRequest{
		CustomerName: "Asha",
		ProviderName: "Ravi",
		Items: []models.LineItem{
			{Name: "Cow Milk Delivery", Quantity: 2, Price: 100},
			{Name: "Plumbing Visit", Quantity: 1, Price: 300},
		},
	}

	body := RequestAcceptedBody(request)

	if !strings.Contains(body, "Dear Asha,") {
		t.Fatalf("body missing customer greeting:\n%s", body)
	}
	if !strings.Contains(body, "accepted by Ravi") {
		t.Fatalf("body missing provider name:\n%s", body)
	}
	if !strings.Contains(body, "Total Amount: ₹500") {
		t.Fatalf("body missing computed total:\n%s", body)
	}
}

func TestRequestAcceptedBodySingleItem(t *testing.T) {
	request := &models.ServiceRequest{
		CustomerName:    "Meera",
		CustomerPincode: "400001",
		ProviderName:    "Suresh",
		Items: []models.LineItem{
			{Name: "AC Repair", Quantity: 1, Price: 500},
		},
	}

	body := RequestAcceptedBody(request)

	for _, want := range []string{
		"AC Repair",
		"Quantity: 1",
		"Price: ₹500 per unit",
		"Subtotal: ₹500",
		"Total Amount: ₹500",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %q:\n%s", want, body)
		}
	}
}

func TestPasswordResetBody(t *testing.T) {
	body := PasswordResetBody("Asha", "K7P2QX")

	for _, want := range []string{
		"Dear Asha,",
		"Your reset code is: K7P2QX",
		"expires in 15 minutes",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %q:\n%s", want, body)
		}
	}
}

func TestProviderApprovalBody(t *testing.T) {
	applicationDate := time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)
	approvalDate := time.Date(2026, 3, 9, 15, 30, 0, 0, time.UTC)

	app := &models.ProviderApplication{
		ID:       primitive.NewObjectID(),
		UserName: "Ravi",
		Email:    "ravi@example.com",
		Services: []string{"Cow Milk Delivery", "Plumbing"},
		ServicePincodes: []models.ServiceArea{
			{Pincode: "734001", City: "Darjeeling", State: "West Bengal"},
			{Pincode: "110001", City: "New Delhi", State: "Delhi"},
		},
		ApplicationDate: applicationDate,
	}

	body := ProviderApprovalBody(app, approvalDate)

	for _, want := range []string{
		"Dear Ravi,",
		"Services: Cow Milk Delivery, Plumbing",
		"Service Areas: 734001, 110001",
		"Application Date: 05/03/2026",
		"Approval Date: 09/03/2026",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %q:\n%s", want, body)
		}
	}
}

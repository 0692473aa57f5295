package models

import "testing"

func TestHasArea(t *testing.T) {
	app := &ProviderApplication{
		ServicePincodes: []ServiceArea{
			{Pincode: "734001", City: "Darjeeling"},
			{Pincode: "110001", City: "New Delhi"},
		},
	}

	if !app.HasArea("734001") {
		t.Fatal("expected declared pincode to be found")
	}
	if app.HasArea("560001") {
		t.Fatal("undeclared pincode must not be found")
	}

	// Uniqueness is by pincode value only, city differences do not matter
	if !app.HasArea("110001") {
		t.Fatal("expected second declared pincode to be found")
	}
}

func TestAreaPincodes(t *testing.T) {
	app := &ProviderApplication{
		ServicePincodes: []ServiceArea{
			{Pincode: "734001"},
			{Pincode: "110001"},
		},
	}

	codes := app.AreaPincodes()
	if len(codes) != 2 || codes[0] != "734001" || codes[1] != "110001" {
		t.Fatalf("unexpected pincodes %v", codes)
	}

	empty := &ProviderApplication{}
	if got := empty.AreaPincodes(); len(got) != 0 {
		t.Fatalf("expected no pincodes, got %v", got)
	}
}

func TestServiceProviderServesPincode(t *testing.T) {
	provider := &ServiceProvider{
		ServicePincodes: []ServiceArea{
			{Pincode: "734001"},
		},
	}

	if !provider.ServesPincode("734001") {
		t.Fatal("expected declared area to be served")
	}
	if provider.ServesPincode("734002") {
		t.Fatal("neighbouring pincode must not be served")
	}
}

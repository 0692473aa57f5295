package models

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{RequestStatusPending, RequestStatusAccepted, true},
		{RequestStatusPending, RequestStatusRejected, true},
		{RequestStatusPending, RequestStatusCompleted, false},
		{RequestStatusAccepted, RequestStatusCompleted, true},
		{RequestStatusAccepted, RequestStatusRejected, false},
		{RequestStatusAccepted, RequestStatusPending, false},
		{RequestStatusRejected, RequestStatusAccepted, false},
		{RequestStatusRejected, RequestStatusPending, false},
		{RequestStatusCompleted, RequestStatusAccepted, false},
		{RequestStatusCompleted, RequestStatusPending, false},
		{"bogus", RequestStatusAccepted, false},
	}

	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Fatalf("CanTransition(%q, %q) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestMatchesPendingFeed(t *testing.T) {
	request := &ServiceRequest{
		Status:          RequestStatusPending,
		CustomerPincode: "734001",
	}

	if !request.MatchesPendingFeed([]string{"110001", "734001"}) {
		t.Fatal("expected request to match a feed covering its pincode")
	}
	if request.MatchesPendingFeed([]string{"110001", "560001"}) {
		t.Fatal("request must not match a feed without its pincode")
	}
	if request.MatchesPendingFeed(nil) {
		t.Fatal("request must not match an empty feed")
	}

	// Matching is exact string equality, not prefix
	if request.MatchesPendingFeed([]string{"734"}) {
		t.Fatal("prefix must not match")
	}

	// Once claimed, the request leaves every pending feed
	request.Status = RequestStatusAccepted
	if request.MatchesPendingFeed([]string{"734001"}) {
		t.Fatal("accepted request must not appear in a pending feed")
	}
}

func TestLineItemTotals(t *testing.T) {
	item := LineItem{Name: "Cow Milk Delivery", Quantity: 3, Price: 50}
	if got := item.Subtotal(); got != 150 {
		t.Fatalf("Subtotal = %v, want 150", got)
	}

	request := &ServiceRequest{
		Items: []LineItem{
			{Name: "Cow Milk Delivery", Quantity: 2, Price: 100},
			{Name: "Plumbing Visit", Quantity: 1, Price: 300},
		},
	}
	if got := request.Total(); got != 500 {
		t.Fatalf("Total = %v, want 500", got)
	}

	empty := &ServiceRequest{}
	if got := empty.Total(); got != 0 {
		t.Fatalf("empty request Total = %v, want 0", got)
	}
}

package controllers

import (
	"context"
	"errors"
	"testing"

	"github.com/dudhkela/dudhkela_backend/utils"
)

func TestReviewCascadeAbortsWhenReviewLosesRace(t *testing.T) {
	var userWriteRan, emailRan bool

	// The losing reviewer's application update matches zero documents,
	// which must stop the cascade before the user document is touched
	// and before any approval email goes out.
	outcome := utils.RunReviewCascade(context.Background(), []utils.ReviewStep{
		{Name: "update-application", Critical: true, Run: func(ctx context.Context) error {
			return ErrAlreadyReviewed
		}},
		{Name: "update-user", Critical: true, Run: func(ctx context.Context) error {
			userWriteRan = true
			return nil
		}},
		{Name: "send-approval-email", Critical: false, Run: func(ctx context.Context) error {
			emailRan = true
			return nil
		}},
	})

	if outcome.Kind != utils.ReviewAborted {
		t.Fatalf("expected aborted outcome, got %q", outcome.Kind)
	}
	if userWriteRan {
		t.Fatal("losing review must not update the user document")
	}
	if emailRan {
		t.Fatal("losing review must not send an approval email")
	}
	if !reviewLostRace(outcome) {
		t.Fatal("expected the lost race to be detected for the conflict response")
	}
}

func TestReviewLostRaceOnlyMatchesTheReviewConflict(t *testing.T) {
	// A plain write failure aborts too, but is a server error, not a
	// conflict with another reviewer.
	outcome := utils.RunReviewCascade(context.Background(), []utils.ReviewStep{
		{Name: "update-application", Critical: true, Run: func(ctx context.Context) error {
			return errors.New("write failed")
		}},
	})
	if outcome.Kind != utils.ReviewAborted {
		t.Fatalf("expected aborted outcome, got %q", outcome.Kind)
	}
	if reviewLostRace(outcome) {
		t.Fatal("a generic write failure must not be reported as a review conflict")
	}

	// A conflict error in a non-critical follow-up step is not a lost race
	outcome = utils.RunReviewCascade(context.Background(), []utils.ReviewStep{
		{Name: "update-application", Critical: true, Run: func(ctx context.Context) error { return nil }},
		{Name: "send-approval-email", Critical: false, Run: func(ctx context.Context) error {
			return ErrAlreadyReviewed
		}},
	})
	if reviewLostRace(outcome) {
		t.Fatal("only the application update step signals a review conflict")
	}
}

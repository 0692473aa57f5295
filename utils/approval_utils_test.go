package utils

import (
	"context"
	"errors"
	"testing"
)

func TestRunReviewCascadeFullSuccess(t *testing.T) {
	var order []string
	step := func(name string, critical bool) ReviewStep {
		return ReviewStep{
			Name:     name,
			Critical: critical,
			Run: func(ctx context.Context) error {
				order = append(order, name)
				return nil
			},
		}
	}

	outcome := RunReviewCascade(context.Background(), []ReviewStep{
		step("update-application", true),
		step("update-user", true),
		step("send-approval-email", false),
		step("refresh-pending-list", false),
	})

	if outcome.Kind != ReviewFullSuccess {
		t.Fatalf("expected full success, got %q", outcome.Kind)
	}
	if len(outcome.FailedSteps) != 0 {
		t.Fatalf("unexpected failed steps %v", outcome.FailedSteps)
	}
	want := []string{"update-application", "update-user", "send-approval-email", "refresh-pending-list"}
	if len(order) != len(want) {
		t.Fatalf("expected %d steps to run, got %v", len(want), order)
	}
	for i, name := range want {
		if order[i] != name {
			t.Fatalf("step %d: expected %q, got %q", i, name, order[i])
		}
	}
}

func TestRunReviewCascadePartialSuccessOnNotifyFailure(t *testing.T) {
	var emailAttempts, refreshed int

	outcome := RunReviewCascade(context.Background(), []ReviewStep{
		{Name: "update-application", Critical: true, Run: func(ctx context.Context) error { return nil }},
		{Name: "update-user", Critical: true, Run: func(ctx context.Context) error { return nil }},
		{Name: "send-approval-email", Critical: false, Run: func(ctx context.Context) error {
			emailAttempts++
			return errors.New("smtp unreachable")
		}},
		{Name: "refresh-pending-list", Critical: false, Run: func(ctx context.Context) error {
			refreshed++
			return nil
		}},
	})

	if outcome.Kind != ReviewPartialSuccess {
		t.Fatalf("expected partial success, got %q", outcome.Kind)
	}
	if !outcome.Failed("send-approval-email") {
		t.Fatal("expected send-approval-email to be recorded as failed")
	}
	if outcome.Failed("update-user") {
		t.Fatal("update-user should not be recorded as failed")
	}
	if emailAttempts != 1 {
		t.Fatalf("expected exactly one email attempt, got %d", emailAttempts)
	}
	if refreshed != 1 {
		t.Fatal("a non-critical failure must not stop later steps")
	}
}

func TestRunReviewCascadeAbortsOnCriticalFailure(t *testing.T) {
	var ranAfter bool

	outcome := RunReviewCascade(context.Background(), []ReviewStep{
		{Name: "update-application", Critical: true, Run: func(ctx context.Context) error {
			return errors.New("write failed")
		}},
		{Name: "update-user", Critical: true, Run: func(ctx context.Context) error {
			ranAfter = true
			return nil
		}},
		{Name: "send-approval-email", Critical: false, Run: func(ctx context.Context) error {
			ranAfter = true
			return nil
		}},
	})

	if outcome.Kind != ReviewAborted {
		t.Fatalf("expected aborted, got %q", outcome.Kind)
	}
	if ranAfter {
		t.Fatal("no step may run after a critical failure")
	}
	if !outcome.Failed("update-application") {
		t.Fatal("expected update-application to be recorded as failed")
	}
	if len(outcome.Steps) != 1 {
		t.Fatalf("expected exactly one executed step, got %d", len(outcome.Steps))
	}
}

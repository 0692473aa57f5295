// utils/approval_utils.go
package utils

import "context"

// Review outcome kinds. PartialSuccess means the state change was written
// but a follow-up step (typically the notification) failed; Aborted means
// nothing past the failed step executed and the prior status is intact.
const (
	ReviewFullSuccess    = "full_success"
	ReviewPartialSuccess = "partial_success"
	ReviewAborted        = "aborted"
)

// ReviewStep is one named remote call in a review cascade. A critical
// step's failure aborts the remaining steps; a non-critical failure is
// recorded and the cascade continues.
type ReviewStep struct {
	Name     string
	Critical bool
	Run      func(ctx context.Context) error
}

// StepResult records the outcome of one executed step
type StepResult struct {
	Name string
	Err  error
}

// ReviewOutcome aggregates a cascade run into a single result so callers
// can distinguish "state changed, notification lost" from "nothing
// changed"
type ReviewOutcome struct {
	Kind        string
	Steps       []StepResult
	FailedSteps []string
}

// Failed reports whether the named step ran and failed
func (o ReviewOutcome) Failed(name string) bool {
	for _, failed := range o.FailedSteps {
		if failed == name {
			return true
		}
	}
	return false
}

// RunReviewCascade executes the steps in order. Each step is a separate
// remote call; there is no multi-record transaction and no partial-state
// cleanup on abort, because only the failed critical step's predecessors
// have executed.
func RunReviewCascade(ctx context.Context, steps []ReviewStep) ReviewOutcome {
	outcome := ReviewOutcome{Kind: ReviewFullSuccess}

	for _, step := range steps {
		err := step.Run(ctx)
		outcome.Steps = append(outcome.Steps, StepResult{Name: step.Name, Err: err})
		if err == nil {
			continue
		}
		outcome.FailedSteps = append(outcome.FailedSteps, step.Name)
		if step.Critical {
			outcome.Kind = ReviewAborted
			return outcome
		}
		outcome.Kind = ReviewPartialSuccess
	}

	return outcome
}

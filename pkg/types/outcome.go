package types

import "errors"

// ErrUpToDate is the sentinel an action returns to signal that prior
// results remain valid and no work was performed. The staleness check
// itself lives outside the engine.
var ErrUpToDate = errors.New("task is up-to-date")

// OutcomeStatus classifies a task's single execution attempt.
type OutcomeStatus string

const (
	// OutcomeSuccess indicates the action completed without error.
	OutcomeSuccess OutcomeStatus = "success"
	// OutcomeFailed indicates the action raised a failure.
	OutcomeFailed OutcomeStatus = "failed"
	// OutcomeSkipped indicates the action was never invoked.
	OutcomeSkipped OutcomeStatus = "skipped"
	// OutcomeUpToDate indicates the action reported prior results as valid.
	OutcomeUpToDate OutcomeStatus = "up-to-date"
)

// Outcome is the terminal classification of a task's execution attempt.
// It is immutable once produced by the executor.
type Outcome struct {
	Status OutcomeStatus
	// Output is the action's result value, if any.
	Output any
	// Cause carries the failure for OutcomeFailed.
	Cause error
	// Reason explains OutcomeSkipped.
	Reason string
	// Stdout and Stderr hold the output captured during the attempt.
	Stdout string
	Stderr string
}

// NewSuccessOutcome creates a success outcome carrying the action's output.
func NewSuccessOutcome(output any) *Outcome {
	return &Outcome{Status: OutcomeSuccess, Output: output}
}

// NewFailureOutcome creates a failure outcome carrying its cause.
func NewFailureOutcome(cause error) *Outcome {
	return &Outcome{Status: OutcomeFailed, Cause: cause}
}

// NewSkippedOutcome creates a skipped outcome with a reason.
func NewSkippedOutcome(reason string) *Outcome {
	return &Outcome{Status: OutcomeSkipped, Reason: reason}
}

// NewUpToDateOutcome creates an up-to-date outcome.
func NewUpToDateOutcome() *Outcome {
	return &Outcome{Status: OutcomeUpToDate}
}

// IsSuccess reports whether the outcome is a success.
func (o *Outcome) IsSuccess() bool { return o.Status == OutcomeSuccess }

// IsFailure reports whether the outcome is a failure.
func (o *Outcome) IsFailure() bool { return o.Status == OutcomeFailed }

// TerminalState maps the outcome to the task state it establishes.
func (o *Outcome) TerminalState() TaskState {
	switch o.Status {
	case OutcomeSuccess:
		return TaskSucceeded
	case OutcomeFailed:
		return TaskFailed
	case OutcomeSkipped:
		return TaskSkipped
	case OutcomeUpToDate:
		return TaskUpToDate
	default:
		return TaskFailed
	}
}

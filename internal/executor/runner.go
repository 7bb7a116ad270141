// Package executor runs a single task's action, captures its output and
// outcome, and never lets one task's failure corrupt sibling state.
package executor

import (
	"context"
	"errors"
	"fmt"

	"buildforge/internal/graph"
	"buildforge/pkg/logger"
	"buildforge/pkg/types"
)

// Runner executes one task at a time. It is stateless and safe for use
// from multiple worker goroutines.
type Runner struct {
	log *logger.Logger
}

// NewRunner creates a Runner. A nil logger is replaced with a no-op logger.
func NewRunner(log *logger.Logger) *Runner {
	if log == nil {
		log = logger.Nop()
	}
	return &Runner{log: log}
}

// Execute invokes the node's action with the given context.
//
// Failures raised by the action, including panics, are converted to a
// failure outcome; they never escape to the scheduler as a raised error.
// Resources tracked by the context's guard are released before returning:
// a release failure after a successful action demotes the outcome to a
// failure, a release failure after a failed action is logged only.
func (r *Runner) Execute(ctx context.Context, node *graph.TaskNode, ec *types.ExecutionContext) *types.Outcome {
	outcome := r.runAction(ctx, node, ec)

	if err := ec.Guard().ReleaseAll(); err != nil {
		if outcome.IsFailure() {
			r.log.Warn("task %s: resource release failed after task failure: %v", node.Name(), err)
		} else {
			outcome = types.NewFailureOutcome(fmt.Errorf("resource release failed: %w", err))
		}
	}

	outcome.Stdout = ec.CapturedStdout()
	outcome.Stderr = ec.CapturedStderr()
	return outcome
}

// runAction contains the actual action invocation so that the deferred
// panic recovery cannot swallow the guard release above.
func (r *Runner) runAction(ctx context.Context, node *graph.TaskNode, ec *types.ExecutionContext) (outcome *types.Outcome) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Error("task %s panicked: %v", node.Name(), p)
			outcome = types.NewFailureOutcome(NewExecutionError(node.Name(), fmt.Sprintf("action panicked: %v", p), nil))
		}
	}()

	r.log.Debug("executing task %s", node.Name())
	output, err := node.Action().Run(ctx, ec)

	switch {
	case err == nil:
		return types.NewSuccessOutcome(output)
	case errors.Is(err, types.ErrUpToDate):
		return types.NewUpToDateOutcome()
	default:
		failure := types.NewFailureOutcome(err)
		failure.Output = output
		return failure
	}
}

package types

import "context"

// Action is the opaque unit of work attached to a task.
//
// Run returns the action's output value, or an error on failure.
// Returning ErrUpToDate (possibly wrapped) signals that prior results
// remain valid and no work was performed.
type Action interface {
	Run(ctx context.Context, ec *ExecutionContext) (any, error)
}

// ActionFunc adapts a plain function to the Action interface.
type ActionFunc func(ctx context.Context, ec *ExecutionContext) (any, error)

// Run implements Action.
func (f ActionFunc) Run(ctx context.Context, ec *ExecutionContext) (any, error) {
	return f(ctx, ec)
}

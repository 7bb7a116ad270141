package executor

import (
	"context"
	"fmt"

	"buildforge/pkg/types"
)

// CompositeAction wraps a task's main action with pre and post actions.
// Pre actions run first; any failure fails the task without invoking the
// main action. Post actions run only after the main action succeeded.
// An up-to-date signal from the main action bypasses the post actions.
type CompositeAction struct {
	pre  []types.Action
	main types.Action
	post []types.Action
}

// NewCompositeAction builds a composite. The main action is required.
func NewCompositeAction(main types.Action, pre, post []types.Action) (*CompositeAction, error) {
	if main == nil {
		return nil, NewConfigError("composite action requires a main action", nil)
	}
	return &CompositeAction{pre: pre, main: main, post: post}, nil
}

// Run implements types.Action.
func (a *CompositeAction) Run(ctx context.Context, ec *types.ExecutionContext) (any, error) {
	for i, act := range a.pre {
		if _, err := act.Run(ctx, ec); err != nil {
			return nil, NewExecutionError(ec.TaskName, fmt.Sprintf("pre action %d failed", i), err)
		}
	}

	// An error from the main action, including the up-to-date signal,
	// bypasses the post actions.
	output, err := a.main.Run(ctx, ec)
	if err != nil {
		return output, err
	}

	for i, act := range a.post {
		if _, err := act.Run(ctx, ec); err != nil {
			return output, NewExecutionError(ec.TaskName, fmt.Sprintf("post action %d failed", i), err)
		}
	}
	return output, nil
}

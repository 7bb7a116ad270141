package executor

import (
	"context"

	"buildforge/pkg/types"
)

// NoopActionKind is the type identifier for the placeholder action.
const NoopActionKind = "noop"

// noopAction succeeds immediately. It serves as a hook point for tasks
// that only exist to group dependencies.
type noopAction struct{}

func newNoopAction(config map[string]any) (types.Action, error) {
	return noopAction{}, nil
}

func (noopAction) Run(ctx context.Context, ec *types.ExecutionContext) (any, error) {
	return nil, nil
}

func init() {
	MustRegister(NoopActionKind, newNoopAction)
}

package executor

import (
	"context"
	"fmt"
	"time"

	"buildforge/pkg/types"
)

// WaitActionKind is the type identifier for the wait action.
const WaitActionKind = "wait"

// waitAction sleeps for a configured duration. Useful for pacing against
// external systems that need settle time between build steps.
type waitAction struct {
	duration time.Duration
}

func newWaitAction(config map[string]any) (types.Action, error) {
	d := configDuration(config, "duration", 0)
	if d <= 0 {
		// "seconds" as a convenience alias
		if sec, ok := config["seconds"]; ok {
			switch n := sec.(type) {
			case int:
				d = time.Duration(n) * time.Second
			case int64:
				d = time.Duration(n) * time.Second
			case float64:
				d = time.Duration(n * float64(time.Second))
			}
		}
	}
	if d <= 0 {
		return nil, NewConfigError("wait action requires a positive 'duration' or 'seconds'", nil)
	}
	return &waitAction{duration: d}, nil
}

func (a *waitAction) Run(ctx context.Context, ec *types.ExecutionContext) (any, error) {
	timer := time.NewTimer(a.duration)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, NewExecutionError(ec.TaskName, "wait cancelled", ctx.Err())
	case <-timer.C:
		fmt.Fprintf(ec.Stdout(), "waited %s\n", a.duration)
		return a.duration.String(), nil
	}
}

func init() {
	MustRegister(WaitActionKind, newWaitAction)
	RegisterAlias("sleep", WaitActionKind)
}

package executor

import (
	"context"
	"fmt"
	"os"

	"github.com/dop251/goja"

	"buildforge/pkg/types"
)

// JsActionKind is the type identifier for in-process JavaScript actions.
const JsActionKind = "js"

// jsAction evaluates a JavaScript snippet with the Goja engine. Scripts
// get console.log wired to the task's stdout sink and getVar/setVar for
// the run-scoped variables.
type jsAction struct {
	source string
}

func newJsAction(config map[string]any) (types.Action, error) {
	source := configString(config, "script", "")
	file := configString(config, "file", "")

	if source == "" && file != "" {
		content, err := os.ReadFile(file)
		if err != nil {
			return nil, NewConfigError(fmt.Sprintf("failed to read script file: %s", file), err)
		}
		source = string(content)
	}
	if source == "" {
		return nil, NewConfigError("js action requires 'script' or 'file' configuration", nil)
	}

	return &jsAction{source: source}, nil
}

// Run executes the script. The exported value of the final expression
// becomes the action output.
func (a *jsAction) Run(ctx context.Context, ec *types.ExecutionContext) (any, error) {
	vm := goja.New()

	if err := a.setupEnvironment(vm, ec); err != nil {
		return nil, NewConfigError("failed to set up JS environment", err)
	}

	// Goja has no preemption; honor cancellation via its interrupt hook.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()

	val, err := vm.RunString(a.source)
	if err != nil {
		return nil, NewExecutionError(ec.TaskName, "script failed", err)
	}
	if val == nil || goja.IsUndefined(val) || goja.IsNull(val) {
		return nil, nil
	}
	return val.Export(), nil
}

func (a *jsAction) setupEnvironment(vm *goja.Runtime, ec *types.ExecutionContext) error {
	console := map[string]any{
		"log": func(args ...any) {
			fmt.Fprintln(ec.Stdout(), args...)
		},
		"error": func(args ...any) {
			fmt.Fprintln(ec.Stderr(), args...)
		},
	}
	if err := vm.Set("console", console); err != nil {
		return err
	}

	if err := vm.Set("getVar", func(name string) any {
		val, _ := ec.Vars().Get(name)
		return val
	}); err != nil {
		return err
	}
	return vm.Set("setVar", func(name string, value goja.Value) {
		ec.Vars().Set(name, value.Export())
	})
}

func init() {
	MustRegister(JsActionKind, newJsAction)
}

package executor

import (
	"context"
	"fmt"

	"buildforge/pkg/types"
)

// SetVarActionKind is the type identifier for the variable-setting action.
const SetVarActionKind = "set_var"

// setVarAction publishes a value into the run's shared variables, where
// later tasks can read it (exec env injection, js getVar, ${...} lookups
// resolved at action level).
type setVarAction struct {
	name  string
	value any
}

func newSetVarAction(config map[string]any) (types.Action, error) {
	name := configString(config, "name", "")
	if name == "" {
		return nil, NewConfigError("set_var action requires a 'name'", nil)
	}
	value, ok := config["value"]
	if !ok {
		return nil, NewConfigError("set_var action requires a 'value'", nil)
	}
	return &setVarAction{name: name, value: value}, nil
}

func (a *setVarAction) Run(ctx context.Context, ec *types.ExecutionContext) (any, error) {
	ec.Vars().Set(a.name, a.value)
	fmt.Fprintf(ec.Stdout(), "variable '%s' set to '%v'\n", a.name, a.value)
	return a.value, nil
}

func init() {
	MustRegister(SetVarActionKind, newSetVarAction)
	RegisterAlias("set_variable", SetVarActionKind)
}

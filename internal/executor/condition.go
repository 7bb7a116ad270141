package executor

import (
	"fmt"

	"github.com/dop251/goja"
)

// ConditionEvaluator evaluates only_if expressions against the run's
// variables. Expressions are JavaScript, evaluated in a fresh Goja
// runtime with the variables bound as globals and via vars['name'] for
// names that are not valid identifiers.
type ConditionEvaluator struct{}

// NewConditionEvaluator creates a ConditionEvaluator.
func NewConditionEvaluator() *ConditionEvaluator {
	return &ConditionEvaluator{}
}

// Eval evaluates the expression and coerces the result to a boolean
// using JavaScript truthiness.
func (e *ConditionEvaluator) Eval(expr string, vars map[string]any) (bool, error) {
	vm := goja.New()

	if err := vm.Set("vars", vars); err != nil {
		return false, NewConfigError("failed to bind condition variables", err)
	}
	for name, value := range vars {
		// Shadowing "vars" itself would break the bracket form.
		if name == "vars" {
			continue
		}
		if err := vm.Set(name, value); err != nil {
			return false, NewConfigError(fmt.Sprintf("failed to bind variable: %s", name), err)
		}
	}

	val, err := vm.RunString(expr)
	if err != nil {
		return false, NewConfigError(fmt.Sprintf("condition evaluation failed: %s", expr), err)
	}
	return val.ToBoolean(), nil
}

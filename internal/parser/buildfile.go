// Package parser reads YAML build files into BuildFile definitions,
// validating structure and resolving variable references in task configs.
package parser

// BuildFile is the top-level build definition.
type BuildFile struct {
	// Name identifies the build.
	Name string `yaml:"name"`
	// Description is an optional human-readable summary.
	Description string `yaml:"description,omitempty"`
	// Variables holds inline variables available to ${...} references
	// in task configs.
	Variables map[string]any `yaml:"variables,omitempty"`
	// Tasks lists the task definitions, in declaration order.
	Tasks []TaskDef `yaml:"tasks"`
}

// TaskDef is a single task declaration.
type TaskDef struct {
	// ID is the task's unique name within the build.
	ID string `yaml:"id"`
	// Type selects the registered action kind (exec, js, http, noop, ...).
	Type string `yaml:"type"`
	// DependsOn names the tasks that must complete before this one runs.
	DependsOn []string `yaml:"depends_on,omitempty"`
	// OnlyIf is a JavaScript expression over run variables. When it
	// evaluates to false the task is skipped instead of executed.
	OnlyIf string `yaml:"only_if,omitempty"`
	// Config carries action-specific settings.
	Config map[string]any `yaml:"config,omitempty"`
	// Pre lists actions that run before the main action. A pre failure
	// fails the task without running the main action.
	Pre []ActionDef `yaml:"pre,omitempty"`
	// Post lists actions that run after the main action succeeded.
	Post []ActionDef `yaml:"post,omitempty"`
}

// ActionDef declares a pre or post action of a task.
type ActionDef struct {
	Type   string         `yaml:"type"`
	Config map[string]any `yaml:"config,omitempty"`
}

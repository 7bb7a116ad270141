package types

import (
	"bytes"
	"io"
	"sync"

	"buildforge/pkg/guard"
)

// Variables is a run-scoped key/value store shared by all task executions
// in one run. It is safe for concurrent use.
type Variables struct {
	mu sync.RWMutex
	m  map[string]any
}

// NewVariables creates an empty Variables store.
func NewVariables() *Variables {
	return &Variables{m: make(map[string]any)}
}

// Set stores a value.
func (v *Variables) Set(name string, value any) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.m[name] = value
}

// Get retrieves a value.
func (v *Variables) Get(name string) (any, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	val, ok := v.m[name]
	return val, ok
}

// Snapshot returns a shallow copy of the current values.
func (v *Variables) Snapshot() map[string]any {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make(map[string]any, len(v.m))
	for k, val := range v.m {
		out[k] = val
	}
	return out
}

// ExecutionContext holds per-task scratch state for one execution attempt.
// It is owned exclusively by the executor for the duration of the attempt
// and released on completion.
type ExecutionContext struct {
	// TaskName is the name of the task being executed.
	TaskName string

	// RunID is the unique ID of the run this execution belongs to.
	RunID string

	// WorkDir is the working directory actions execute in.
	WorkDir string

	vars   *Variables
	guard  *guard.Guard
	stdout bytes.Buffer
	stderr bytes.Buffer
}

// NewExecutionContext creates an ExecutionContext for the named task.
func NewExecutionContext(taskName string) *ExecutionContext {
	return &ExecutionContext{
		TaskName: taskName,
		vars:     NewVariables(),
		guard:    guard.New(nil),
	}
}

// WithRunID sets the run ID.
func (c *ExecutionContext) WithRunID(id string) *ExecutionContext {
	c.RunID = id
	return c
}

// WithWorkDir sets the working directory.
func (c *ExecutionContext) WithWorkDir(dir string) *ExecutionContext {
	c.WorkDir = dir
	return c
}

// WithVariables sets the shared variables store.
func (c *ExecutionContext) WithVariables(vars *Variables) *ExecutionContext {
	if vars != nil {
		c.vars = vars
	}
	return c
}

// WithGuard sets the resource guard for this execution.
func (c *ExecutionContext) WithGuard(g *guard.Guard) *ExecutionContext {
	if g != nil {
		c.guard = g
	}
	return c
}

// Vars returns the run-scoped variables store.
func (c *ExecutionContext) Vars() *Variables { return c.vars }

// Guard returns the resource guard for this execution.
func (c *ExecutionContext) Guard() *guard.Guard { return c.guard }

// Stdout returns the sink actions write standard output to.
func (c *ExecutionContext) Stdout() io.Writer { return &c.stdout }

// Stderr returns the sink actions write standard error to.
func (c *ExecutionContext) Stderr() io.Writer { return &c.stderr }

// CapturedStdout returns everything written to the stdout sink so far.
func (c *ExecutionContext) CapturedStdout() string { return c.stdout.String() }

// CapturedStderr returns everything written to the stderr sink so far.
func (c *ExecutionContext) CapturedStderr() string { return c.stderr.String() }

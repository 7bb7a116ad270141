package graph

import (
	"fmt"
	"strings"
)

// GraphError represents an error raised while building a task graph.
// Graph-build errors are fatal: they abort the run before any execution.
type GraphError struct {
	Code       GraphErrorCode
	Task       string
	Dependency string
	Members    []string
}

// GraphErrorCode represents the type of graph error.
type GraphErrorCode string

const (
	// ErrCodeDuplicateTask indicates a task name was registered twice.
	ErrCodeDuplicateTask GraphErrorCode = "DUPLICATE_TASK"
	// ErrCodeUnknownDependency indicates a dependency was never registered.
	ErrCodeUnknownDependency GraphErrorCode = "UNKNOWN_DEPENDENCY"
	// ErrCodeCycle indicates the dependencies form a cycle.
	ErrCodeCycle GraphErrorCode = "CYCLE"
	// ErrCodeFinalized indicates a mutation after Finalize.
	ErrCodeFinalized GraphErrorCode = "GRAPH_FINALIZED"
	// ErrCodeInvalidTask indicates a malformed task registration.
	ErrCodeInvalidTask GraphErrorCode = "INVALID_TASK"
)

// Error implements the error interface.
func (e *GraphError) Error() string {
	switch e.Code {
	case ErrCodeDuplicateTask:
		return fmt.Sprintf("[%s] task already registered: %s", e.Code, e.Task)
	case ErrCodeUnknownDependency:
		return fmt.Sprintf("[%s] task %s depends on unknown task: %s", e.Code, e.Task, e.Dependency)
	case ErrCodeCycle:
		return fmt.Sprintf("[%s] dependency cycle among tasks: %s", e.Code, strings.Join(e.Members, " -> "))
	case ErrCodeFinalized:
		return fmt.Sprintf("[%s] graph is finalized and read-only", e.Code)
	default:
		return fmt.Sprintf("[%s] %s", e.Code, e.Task)
	}
}

// NewDuplicateTaskError creates an error for a twice-registered task name.
func NewDuplicateTaskError(name string) *GraphError {
	return &GraphError{Code: ErrCodeDuplicateTask, Task: name}
}

// NewUnknownDependencyError creates an error for an unresolved dependency.
func NewUnknownDependencyError(task, dependency string) *GraphError {
	return &GraphError{Code: ErrCodeUnknownDependency, Task: task, Dependency: dependency}
}

// NewCycleError creates an error naming the cycle's member tasks.
func NewCycleError(members []string) *GraphError {
	return &GraphError{Code: ErrCodeCycle, Members: members}
}

// IsDuplicateTaskError checks if the error is a duplicate task error.
func IsDuplicateTaskError(err error) bool {
	if gerr, ok := err.(*GraphError); ok {
		return gerr.Code == ErrCodeDuplicateTask
	}
	return false
}

// IsUnknownDependencyError checks if the error is an unknown dependency error.
func IsUnknownDependencyError(err error) bool {
	if gerr, ok := err.(*GraphError); ok {
		return gerr.Code == ErrCodeUnknownDependency
	}
	return false
}

// IsCycleError checks if the error is a cycle error.
func IsCycleError(err error) bool {
	if gerr, ok := err.(*GraphError); ok {
		return gerr.Code == ErrCodeCycle
	}
	return false
}

package executor

import (
	"fmt"
	"time"
)

// ExecutorError represents an error during executor operations.
type ExecutorError struct {
	Code     ErrorCode
	Message  string
	TaskName string
	Cause    error
}

// ErrorCode represents the type of executor error.
type ErrorCode string

const (
	// ErrCodeActionNotFound indicates no action factory for the type.
	ErrCodeActionNotFound ErrorCode = "ACTION_NOT_FOUND"
	// ErrCodeExecution indicates an execution error.
	ErrCodeExecution ErrorCode = "EXECUTION_ERROR"
	// ErrCodeTimeout indicates a timeout error.
	ErrCodeTimeout ErrorCode = "TIMEOUT_ERROR"
	// ErrCodeConfig indicates a configuration error.
	ErrCodeConfig ErrorCode = "CONFIG_ERROR"
)

// Error implements the error interface.
func (e *ExecutorError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *ExecutorError) Unwrap() error {
	return e.Cause
}

// NewActionNotFoundError creates an error for a missing action factory.
func NewActionNotFoundError(kind string) *ExecutorError {
	return &ExecutorError{
		Code:    ErrCodeActionNotFound,
		Message: fmt.Sprintf("no action registered for type: %s", kind),
	}
}

// NewExecutionError creates an error for execution failures.
func NewExecutionError(taskName, message string, cause error) *ExecutorError {
	return &ExecutorError{
		Code:     ErrCodeExecution,
		Message:  message,
		TaskName: taskName,
		Cause:    cause,
	}
}

// NewTimeoutError creates an error for timeout.
func NewTimeoutError(taskName string, timeout time.Duration) *ExecutorError {
	return &ExecutorError{
		Code:     ErrCodeTimeout,
		Message:  fmt.Sprintf("task timed out after %v", timeout),
		TaskName: taskName,
	}
}

// NewConfigError creates an error for configuration issues.
func NewConfigError(message string, cause error) *ExecutorError {
	return &ExecutorError{
		Code:    ErrCodeConfig,
		Message: message,
		Cause:   cause,
	}
}

// IsActionNotFoundError checks if the error is an action not found error.
func IsActionNotFoundError(err error) bool {
	if execErr, ok := err.(*ExecutorError); ok {
		return execErr.Code == ErrCodeActionNotFound
	}
	return false
}

// IsTimeoutError checks if the error is a timeout error.
func IsTimeoutError(err error) bool {
	if execErr, ok := err.(*ExecutorError); ok {
		return execErr.Code == ErrCodeTimeout
	}
	return false
}

// IsConfigError checks if the error is a configuration error.
func IsConfigError(err error) bool {
	if execErr, ok := err.(*ExecutorError); ok {
		return execErr.Code == ErrCodeConfig
	}
	return false
}

package types

// TaskState represents the execution state of a task within one run.
type TaskState string

const (
	// TaskPending indicates the task has not been considered yet.
	TaskPending TaskState = "pending"
	// TaskReady indicates all dependencies are satisfied and the task is
	// about to be dispatched.
	TaskReady TaskState = "ready"
	// TaskRunning indicates the task's action is executing.
	TaskRunning TaskState = "running"
	// TaskSucceeded indicates the action completed successfully.
	TaskSucceeded TaskState = "succeeded"
	// TaskFailed indicates the action raised a failure.
	TaskFailed TaskState = "failed"
	// TaskSkipped indicates the task was never dispatched, because a
	// dependency failed or the run was aborted.
	TaskSkipped TaskState = "skipped"
	// TaskUpToDate indicates prior results remain valid and the action was
	// intentionally not re-run.
	TaskUpToDate TaskState = "up-to-date"
)

// IsTerminal reports whether the state is terminal for the current run.
func (s TaskState) IsTerminal() bool {
	switch s {
	case TaskSucceeded, TaskFailed, TaskSkipped, TaskUpToDate:
		return true
	default:
		return false
	}
}

// Satisfies reports whether a dependency in this state allows its
// dependents to run.
func (s TaskState) Satisfies() bool {
	switch s {
	case TaskSucceeded, TaskUpToDate:
		return true
	default:
		return false
	}
}

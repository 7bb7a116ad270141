// Package types defines the core data structures for the build task
// execution engine.
//
// This package contains the fundamental types used throughout buildforge,
// including:
//   - Task states and the action capability
//   - Outcomes (the terminal classification of a task execution attempt)
//   - The per-task execution context
//   - The execution report aggregated over one run
package types

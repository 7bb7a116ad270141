package types

import (
	"fmt"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/google/uuid"
)

// TaskRecord is one finished task's entry in the execution report.
type TaskRecord struct {
	Name      string        `json:"name"`
	Outcome   *Outcome      `json:"-"`
	Status    OutcomeStatus `json:"status"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Error     string        `json:"error,omitempty"`
	Stdout    string        `json:"stdout,omitempty"`
	Stderr    string        `json:"stderr,omitempty"`
}

// ReportError represents an error raised by the execution report.
type ReportError struct {
	Code     ReportErrorCode
	TaskName string
	Message  string
}

// ReportErrorCode represents the type of report error.
type ReportErrorCode string

const (
	// ErrCodeDuplicateRecord indicates the same task was recorded twice.
	ErrCodeDuplicateRecord ReportErrorCode = "DUPLICATE_RECORD"
	// ErrCodeReportFinalized indicates a record arrived after finalization.
	ErrCodeReportFinalized ReportErrorCode = "REPORT_FINALIZED"
)

// Error implements the error interface.
func (e *ReportError) Error() string {
	if e.TaskName != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.TaskName)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// NewDuplicateRecordError creates an error for a twice-recorded task.
func NewDuplicateRecordError(name string) *ReportError {
	return &ReportError{Code: ErrCodeDuplicateRecord, TaskName: name, Message: "task already recorded in this run"}
}

// IsDuplicateRecordError checks if the error is a duplicate record error.
func IsDuplicateRecordError(err error) bool {
	if repErr, ok := err.(*ReportError); ok {
		return repErr.Code == ErrCodeDuplicateRecord
	}
	return false
}

// ExecutionReport aggregates per-task outcomes for one run.
//
// Records are append-only and safe for concurrent appends from parallel
// executions as long as each append is for a distinct task name. The
// scheduler finalizes the report when the run reaches a terminal state;
// callers read it after that.
type ExecutionReport struct {
	mu        sync.Mutex
	runID     string
	records   []TaskRecord
	index     map[string]int
	finalized bool
	startTime time.Time
	endTime   time.Time
}

// NewExecutionReport creates an empty report with a fresh run ID.
func NewExecutionReport() *ExecutionReport {
	return &ExecutionReport{
		runID:     uuid.NewString(),
		index:     make(map[string]int),
		startTime: time.Now(),
	}
}

// RunID returns the unique ID of this run.
func (r *ExecutionReport) RunID() string { return r.runID }

// Record appends the outcome of one task.
//
// It fails with a duplicate record error if the same task name was already
// recorded in this run, and with a finalized error after Finalize.
func (r *ExecutionReport) Record(name string, outcome *Outcome, start, end time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.finalized {
		return &ReportError{Code: ErrCodeReportFinalized, TaskName: name, Message: "report is finalized"}
	}
	if _, exists := r.index[name]; exists {
		return NewDuplicateRecordError(name)
	}

	rec := TaskRecord{
		Name:      name,
		Outcome:   outcome,
		Status:    outcome.Status,
		StartTime: start,
		EndTime:   end,
		Duration:  end.Sub(start),
		Stdout:    outcome.Stdout,
		Stderr:    outcome.Stderr,
	}
	if outcome.Cause != nil {
		rec.Error = outcome.Cause.Error()
	}

	r.index[name] = len(r.records)
	r.records = append(r.records, rec)
	return nil
}

// Finalize freezes the report. Further records are rejected.
func (r *ExecutionReport) Finalize() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.finalized {
		r.finalized = true
		r.endTime = time.Now()
	}
}

// Finalized reports whether the report has been frozen.
func (r *ExecutionReport) Finalized() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.finalized
}

// OverallStatus is OutcomeFailed if any recorded outcome failed, else
// OutcomeSuccess.
func (r *ExecutionReport) OverallStatus() OutcomeStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.Status == OutcomeFailed {
			return OutcomeFailed
		}
	}
	return OutcomeSuccess
}

// Records returns the recorded tasks in record order.
func (r *ExecutionReport) Records() []TaskRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]TaskRecord, len(r.records))
	copy(out, r.records)
	return out
}

// Lookup returns the record for a task name.
func (r *ExecutionReport) Lookup(name string) (TaskRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx, ok := r.index[name]
	if !ok {
		return TaskRecord{}, false
	}
	return r.records[idx], true
}

// Summary aggregates the report into per-status counts and wall-time
// percentiles of executed tasks.
type Summary struct {
	RunID     string        `json:"run_id"`
	Total     int           `json:"total"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Skipped   int           `json:"skipped"`
	UpToDate  int           `json:"up_to_date"`
	Overall   OutcomeStatus `json:"overall"`
	WallTime  time.Duration `json:"wall_time"`
	P50       time.Duration `json:"p50"`
	P95       time.Duration `json:"p95"`
	P99       time.Duration `json:"p99"`
	Max       time.Duration `json:"max"`
}

// maxTrackableTaskMicros bounds the duration histogram at one hour.
const maxTrackableTaskMicros = int64(time.Hour / time.Microsecond)

// Summarize computes the report summary. Percentiles cover tasks whose
// action actually ran (succeeded or failed).
func (r *ExecutionReport) Summarize() *Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := &Summary{RunID: r.runID, Total: len(r.records), Overall: OutcomeSuccess}
	if !r.endTime.IsZero() {
		s.WallTime = r.endTime.Sub(r.startTime)
	}

	hist := hdrhistogram.New(1, maxTrackableTaskMicros, 3)
	for _, rec := range r.records {
		switch rec.Status {
		case OutcomeSuccess:
			s.Succeeded++
		case OutcomeFailed:
			s.Failed++
			s.Overall = OutcomeFailed
		case OutcomeSkipped:
			s.Skipped++
		case OutcomeUpToDate:
			s.UpToDate++
		}

		if rec.Status == OutcomeSuccess || rec.Status == OutcomeFailed {
			micros := rec.Duration.Microseconds()
			if micros < 1 {
				micros = 1
			}
			if micros > maxTrackableTaskMicros {
				micros = maxTrackableTaskMicros
			}
			_ = hist.RecordValue(micros)
		}
	}

	if hist.TotalCount() > 0 {
		s.P50 = time.Duration(hist.ValueAtQuantile(50)) * time.Microsecond
		s.P95 = time.Duration(hist.ValueAtQuantile(95)) * time.Microsecond
		s.P99 = time.Duration(hist.ValueAtQuantile(99)) * time.Microsecond
		s.Max = time.Duration(hist.Max()) * time.Microsecond
	}
	return s
}

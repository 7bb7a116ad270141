package types

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport_RecordAndLookup(t *testing.T) {
	r := NewExecutionReport()
	require.NotEmpty(t, r.RunID())

	start := time.Now()
	end := start.Add(120 * time.Millisecond)
	require.NoError(t, r.Record("compile", NewSuccessOutcome("ok"), start, end))

	rec, ok := r.Lookup("compile")
	require.True(t, ok)
	assert.Equal(t, "compile", rec.Name)
	assert.Equal(t, OutcomeSuccess, rec.Status)
	assert.Equal(t, 120*time.Millisecond, rec.Duration)

	_, ok = r.Lookup("missing")
	assert.False(t, ok)
}

func TestReport_DuplicateRecord(t *testing.T) {
	r := NewExecutionReport()
	now := time.Now()

	require.NoError(t, r.Record("compile", NewSuccessOutcome(nil), now, now))
	err := r.Record("compile", NewFailureOutcome(errors.New("boom")), now, now)
	require.Error(t, err)
	assert.True(t, IsDuplicateRecordError(err))

	// The original record is untouched.
	rec, ok := r.Lookup("compile")
	require.True(t, ok)
	assert.Equal(t, OutcomeSuccess, rec.Status)
}

func TestReport_RecordAfterFinalize(t *testing.T) {
	r := NewExecutionReport()
	r.Finalize()
	require.True(t, r.Finalized())

	err := r.Record("late", NewSuccessOutcome(nil), time.Now(), time.Now())
	require.Error(t, err)
	assert.False(t, IsDuplicateRecordError(err))
}

func TestReport_OverallStatus(t *testing.T) {
	r := NewExecutionReport()
	now := time.Now()

	require.NoError(t, r.Record("a", NewSuccessOutcome(nil), now, now))
	require.NoError(t, r.Record("b", NewSkippedOutcome("dependency failed"), now, now))
	require.NoError(t, r.Record("c", NewUpToDateOutcome(), now, now))
	assert.Equal(t, OutcomeSuccess, r.OverallStatus(), "skips and up-to-date do not fail the run")

	require.NoError(t, r.Record("d", NewFailureOutcome(errors.New("boom")), now, now))
	assert.Equal(t, OutcomeFailed, r.OverallStatus())
}

func TestReport_RecordCapturesError(t *testing.T) {
	r := NewExecutionReport()
	now := time.Now()

	outcome := NewFailureOutcome(errors.New("exit status 1"))
	outcome.Stdout = "partial output"
	require.NoError(t, r.Record("test", outcome, now, now))

	rec, _ := r.Lookup("test")
	assert.Equal(t, "exit status 1", rec.Error)
	assert.Equal(t, "partial output", rec.Stdout)
}

func TestSummarize_Counts(t *testing.T) {
	r := NewExecutionReport()
	now := time.Now()

	require.NoError(t, r.Record("a", NewSuccessOutcome(nil), now, now.Add(10*time.Millisecond)))
	require.NoError(t, r.Record("b", NewFailureOutcome(errors.New("x")), now, now.Add(20*time.Millisecond)))
	require.NoError(t, r.Record("c", NewSkippedOutcome("dep"), now, now))
	require.NoError(t, r.Record("d", NewUpToDateOutcome(), now, now))
	r.Finalize()

	s := r.Summarize()
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 1, s.Succeeded)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 1, s.Skipped)
	assert.Equal(t, 1, s.UpToDate)
	assert.Equal(t, OutcomeFailed, s.Overall)
	assert.Equal(t, r.RunID(), s.RunID)
	assert.Greater(t, s.WallTime, time.Duration(0))
}

func TestSummarize_Percentiles(t *testing.T) {
	r := NewExecutionReport()
	base := time.Now()

	// 100 executed tasks with durations 1ms..100ms.
	for i := 1; i <= 100; i++ {
		name := fmt.Sprintf("task%03d", i)
		d := time.Duration(i) * time.Millisecond
		require.NoError(t, r.Record(name, NewSuccessOutcome(nil), base, base.Add(d)))
	}
	// Skipped tasks must not influence the percentiles.
	require.NoError(t, r.Record("skipped", NewSkippedOutcome("dep"), base, base))
	r.Finalize()

	s := r.Summarize()
	assert.InDelta(t, float64(50*time.Millisecond), float64(s.P50), float64(time.Millisecond))
	assert.InDelta(t, float64(95*time.Millisecond), float64(s.P95), float64(time.Millisecond))
	assert.InDelta(t, float64(99*time.Millisecond), float64(s.P99), float64(time.Millisecond))
	assert.InDelta(t, float64(100*time.Millisecond), float64(s.Max), float64(time.Millisecond))
}

func TestSummarize_NoExecutedTasks(t *testing.T) {
	r := NewExecutionReport()
	now := time.Now()
	require.NoError(t, r.Record("a", NewSkippedOutcome("aborted"), now, now))
	r.Finalize()

	s := r.Summarize()
	assert.Zero(t, s.P50)
	assert.Zero(t, s.Max)
}

func TestOutcome_TerminalState(t *testing.T) {
	assert.Equal(t, TaskSucceeded, NewSuccessOutcome(nil).TerminalState())
	assert.Equal(t, TaskFailed, NewFailureOutcome(errors.New("x")).TerminalState())
	assert.Equal(t, TaskSkipped, NewSkippedOutcome("r").TerminalState())
	assert.Equal(t, TaskUpToDate, NewUpToDateOutcome().TerminalState())
}

func TestTaskState_Satisfies(t *testing.T) {
	assert.True(t, TaskSucceeded.Satisfies())
	assert.True(t, TaskUpToDate.Satisfies())
	assert.False(t, TaskFailed.Satisfies())
	assert.False(t, TaskSkipped.Satisfies())
	assert.False(t, TaskRunning.Satisfies())
}

func TestTaskState_IsTerminal(t *testing.T) {
	for _, st := range []TaskState{TaskSucceeded, TaskFailed, TaskSkipped, TaskUpToDate} {
		assert.True(t, st.IsTerminal(), st)
	}
	for _, st := range []TaskState{TaskPending, TaskReady, TaskRunning} {
		assert.False(t, st.IsTerminal(), st)
	}
}

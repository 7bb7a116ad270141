// Package scheduler walks a finalized task graph in dependency order,
// dispatches ready tasks to the executor and records outcomes.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"buildforge/internal/graph"
	"buildforge/pkg/guard"
	"buildforge/pkg/logger"
	"buildforge/pkg/types"
)

// RunState represents the state of one scheduler run.
type RunState string

const (
	// RunNotStarted indicates Run has not been called.
	RunNotStarted RunState = "not-started"
	// RunRunning indicates the run is in progress.
	RunRunning RunState = "running"
	// RunCompleted indicates every task reached a terminal state.
	RunCompleted RunState = "completed"
	// RunAborted indicates the run was cancelled or hit an internal error.
	RunAborted RunState = "aborted"
)

// TaskRunner executes a single task and returns its outcome as data.
type TaskRunner interface {
	Execute(ctx context.Context, node *graph.TaskNode, ec *types.ExecutionContext) *types.Outcome
}

// ConditionEvaluator decides whether a conditional task should run,
// given a snapshot of the run's variables.
type ConditionEvaluator interface {
	Eval(expr string, vars map[string]any) (bool, error)
}

// Config holds scheduler options.
type Config struct {
	// Concurrency is the maximum number of tasks executing at once.
	// Values below 1 mean sequential execution.
	Concurrency int
	// WorkDir is the default working directory for task actions.
	WorkDir string
	// Cond evaluates task only-if expressions. Required only when the
	// graph contains conditional tasks.
	Cond ConditionEvaluator
}

// Scheduler coordinates one run over a task graph.
//
// Dispatch decisions are made by the single goroutine inside Run, so
// per-node state transitions are race-free even when independent branches
// execute concurrently on worker goroutines.
type Scheduler struct {
	cfg Config
	log *logger.Logger

	mu    sync.Mutex
	state RunState
}

// New creates a Scheduler. A nil logger is replaced with a no-op logger.
func New(cfg Config, log *logger.Logger) *Scheduler {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Scheduler{cfg: cfg, log: log, state: RunNotStarted}
}

// State returns the scheduler's run state.
func (s *Scheduler) State() RunState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Scheduler) setState(state RunState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

// taskResult carries a finished task's outcome back to the dispatch loop.
type taskResult struct {
	node    *graph.TaskNode
	outcome *types.Outcome
	start   time.Time
	end     time.Time
}

// Run executes the graph. Each task's action is invoked at most once, and
// never before all its dependencies reached a terminal state. Tasks whose
// dependencies failed or were skipped are skipped transitively without
// invoking their action.
//
// Cancellation is cooperative: in-flight tasks run to completion, then all
// remaining tasks are skipped and the run ends Aborted. The returned error
// is non-nil only for misuse or an internal invariant violation; task
// failures are reported through the report, not as an error.
func (s *Scheduler) Run(ctx context.Context, g *graph.TaskGraph, runner TaskRunner, report *types.ExecutionReport) (RunState, error) {
	if g == nil || runner == nil || report == nil {
		return RunNotStarted, fmt.Errorf("scheduler: graph, runner and report are required")
	}
	if !g.Finalized() {
		return RunNotStarted, fmt.Errorf("scheduler: graph must be finalized before running")
	}

	s.mu.Lock()
	if s.state != RunNotStarted {
		s.mu.Unlock()
		return s.state, fmt.Errorf("scheduler: run already started")
	}
	s.state = RunRunning
	s.mu.Unlock()

	order := g.Order()
	vars := types.NewVariables()
	results := make(chan taskResult)

	// In-flight actions must survive cancellation of the run context.
	actionCtx := context.WithoutCancel(ctx)
	cancelCh := ctx.Done()

	remaining := len(order)
	inflight := 0
	aborted := false
	var internalErr error

	s.log.Debug("run %s: %d tasks, concurrency %d", report.RunID(), remaining, s.cfg.Concurrency)

	for remaining > 0 && internalErr == nil {
		if !aborted {
			for _, node := range order {
				if node.State() != types.TaskPending {
					continue
				}
				ready, skipReason := s.dependencyStatus(g, node)
				if skipReason != "" {
					if err := s.skip(node, skipReason, report); err != nil {
						internalErr = err
						break
					}
					remaining--
					continue
				}
				if ready && inflight < s.cfg.Concurrency {
					if expr := node.Condition(); expr != "" {
						run, err := s.evalCondition(expr, vars)
						if err != nil {
							if ferr := s.failWithoutRun(node, err, report); ferr != nil {
								internalErr = ferr
								break
							}
							remaining--
							continue
						}
						if !run {
							if err := s.skip(node, "condition not met", report); err != nil {
								internalErr = err
								break
							}
							remaining--
							continue
						}
					}
					if err := dispatchTransition(node); err != nil {
						internalErr = err
						break
					}
					inflight++
					go s.runTask(actionCtx, runner, node, vars, report.RunID(), results)
				}
			}
		}
		if remaining == 0 || internalErr != nil {
			break
		}

		if inflight == 0 {
			if aborted {
				internalErr = s.skipRemaining(order, report)
				break
			}
			// A finalized DAG always has a dispatchable task when nothing
			// is running, so this is unreachable unless state was corrupted.
			internalErr = fmt.Errorf("scheduler: stalled with %d tasks remaining", remaining)
			break
		}

		select {
		case res := <-results:
			inflight--
			remaining--
			internalErr = s.finish(res, report)
		case <-cancelCh:
			s.log.Info("cancellation requested, letting in-flight tasks finish")
			aborted = true
			cancelCh = nil
		}
	}

	// Drain whatever is still running before returning.
	for inflight > 0 {
		res := <-results
		inflight--
		remaining--
		if err := s.finish(res, report); err != nil && internalErr == nil {
			internalErr = err
		}
	}
	if aborted && internalErr == nil && remaining > 0 {
		internalErr = s.skipRemaining(order, report)
	}

	report.Finalize()

	switch {
	case internalErr != nil:
		s.setState(RunAborted)
		return RunAborted, internalErr
	case aborted:
		s.setState(RunAborted)
		return RunAborted, nil
	default:
		s.setState(RunCompleted)
		return RunCompleted, nil
	}
}

// dependencyStatus reports whether the node is dispatchable, or the reason
// it must be skipped. Both are false/empty while dependencies are still
// pending or running.
func (s *Scheduler) dependencyStatus(g *graph.TaskGraph, node *graph.TaskNode) (ready bool, skipReason string) {
	for _, dep := range node.Dependencies() {
		depNode, ok := g.Node(dep)
		if !ok {
			// Finalize rejects dangling references; defensive only.
			return false, fmt.Sprintf("dependency %s missing", dep)
		}
		st := depNode.State()
		if !st.IsTerminal() {
			return false, ""
		}
		if !st.Satisfies() {
			return false, fmt.Sprintf("dependency %s %s", dep, st)
		}
	}
	return true, ""
}

// evalCondition evaluates a task's only-if expression against the
// current variables.
func (s *Scheduler) evalCondition(expr string, vars *types.Variables) (bool, error) {
	if s.cfg.Cond == nil {
		return false, fmt.Errorf("scheduler: no condition evaluator configured for expression %q", expr)
	}
	return s.cfg.Cond.Eval(expr, vars.Snapshot())
}

// failWithoutRun records a task as failed without invoking its action,
// for tasks whose only-if expression could not be evaluated.
func (s *Scheduler) failWithoutRun(node *graph.TaskNode, cause error, report *types.ExecutionReport) error {
	if err := dispatchTransition(node); err != nil {
		return err
	}
	if err := node.Transition(types.TaskFailed); err != nil {
		return err
	}
	s.log.Debug("task %s failed before dispatch: %v", node.Name(), cause)
	now := time.Now()
	if err := report.Record(node.Name(), types.NewFailureOutcome(cause), now, now); err != nil {
		return fmt.Errorf("scheduler: recording %s: %w", node.Name(), err)
	}
	return nil
}

func dispatchTransition(node *graph.TaskNode) error {
	if err := node.Transition(types.TaskReady); err != nil {
		return err
	}
	return node.Transition(types.TaskRunning)
}

func (s *Scheduler) runTask(ctx context.Context, runner TaskRunner, node *graph.TaskNode, vars *types.Variables, runID string, results chan<- taskResult) {
	ec := types.NewExecutionContext(node.Name()).
		WithRunID(runID).
		WithWorkDir(s.cfg.WorkDir).
		WithVariables(vars).
		WithGuard(guard.New(s.log))

	start := time.Now()
	outcome := runner.Execute(ctx, node, ec)
	results <- taskResult{node: node, outcome: outcome, start: start, end: time.Now()}
}

func (s *Scheduler) finish(res taskResult, report *types.ExecutionReport) error {
	if err := res.node.Transition(res.outcome.TerminalState()); err != nil {
		return err
	}
	s.log.Debug("task %s finished: %s", res.node.Name(), res.outcome.Status)
	if err := report.Record(res.node.Name(), res.outcome, res.start, res.end); err != nil {
		return fmt.Errorf("scheduler: recording %s: %w", res.node.Name(), err)
	}
	return nil
}

func (s *Scheduler) skip(node *graph.TaskNode, reason string, report *types.ExecutionReport) error {
	if err := node.Transition(types.TaskSkipped); err != nil {
		return err
	}
	s.log.Debug("task %s skipped: %s", node.Name(), reason)
	now := time.Now()
	if err := report.Record(node.Name(), types.NewSkippedOutcome(reason), now, now); err != nil {
		return fmt.Errorf("scheduler: recording %s: %w", node.Name(), err)
	}
	return nil
}

func (s *Scheduler) skipRemaining(order []*graph.TaskNode, report *types.ExecutionReport) error {
	for _, node := range order {
		if node.State().IsTerminal() {
			continue
		}
		if node.State() != types.TaskPending {
			return fmt.Errorf("scheduler: task %s left in state %s at abort", node.Name(), node.State())
		}
		if err := s.skip(node, "run aborted", report); err != nil {
			return err
		}
	}
	return nil
}

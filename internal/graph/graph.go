// Package graph provides the directed acyclic graph of build tasks for one
// run: registration, validation and deterministic topological ordering.
package graph

import (
	"fmt"
	"sort"

	"buildforge/pkg/types"
)

// TaskNode couples a task's immutable identity with its mutable per-run
// execution state. State is mutated only by the scheduler (single writer).
type TaskNode struct {
	name      string
	action    types.Action
	deps      []string
	condition string
	index     int // registration order

	state types.TaskState
}

// Name returns the task's unique name.
func (n *TaskNode) Name() string { return n.name }

// Action returns the task's unit of work.
func (n *TaskNode) Action() types.Action { return n.action }

// Dependencies returns the names of the task's dependencies.
func (n *TaskNode) Dependencies() []string {
	out := make([]string, len(n.deps))
	copy(out, n.deps)
	return out
}

// Condition returns the task's only-if expression, empty when the task
// runs unconditionally.
func (n *TaskNode) Condition() string { return n.condition }

// SetCondition attaches an only-if expression, evaluated against the
// run's variables just before dispatch. A false result skips the task.
func (n *TaskNode) SetCondition(expr string) { n.condition = expr }

// State returns the task's current execution state.
func (n *TaskNode) State() types.TaskState { return n.state }

// Transition moves the node to a new state, validating the transition.
// A disallowed transition is an internal invariant violation.
func (n *TaskNode) Transition(to types.TaskState) error {
	if !allowedTransition(n.state, to) {
		return fmt.Errorf("invalid state transition for task %s: %s -> %s", n.name, n.state, to)
	}
	n.state = to
	return nil
}

func allowedTransition(from, to types.TaskState) bool {
	switch from {
	case types.TaskPending:
		return to == types.TaskReady || to == types.TaskSkipped
	case types.TaskReady:
		return to == types.TaskRunning || to == types.TaskSkipped
	case types.TaskRunning:
		return to == types.TaskSucceeded || to == types.TaskFailed || to == types.TaskUpToDate
	default:
		return false
	}
}

// TaskGraph maps unique task names to nodes and owns the dependency edges.
//
// Build it with AddTask, then Finalize to validate and compute the run
// order. The graph is read-only after Finalize; per-node state is the only
// thing that changes during a run.
type TaskGraph struct {
	nodes     map[string]*TaskNode
	regOrder  []*TaskNode
	order     []*TaskNode
	finalized bool
}

// New creates an empty TaskGraph.
func New() *TaskGraph {
	return &TaskGraph{nodes: make(map[string]*TaskNode)}
}

// AddTask registers a task. Duplicate names fail immediately; dependency
// references are resolved at Finalize, not here, so forward references
// are allowed.
func (g *TaskGraph) AddTask(name string, action types.Action, deps ...string) (*TaskNode, error) {
	if g.finalized {
		return nil, &GraphError{Code: ErrCodeFinalized}
	}
	if name == "" {
		return nil, &GraphError{Code: ErrCodeInvalidTask, Task: "task name is required"}
	}
	if action == nil {
		return nil, &GraphError{Code: ErrCodeInvalidTask, Task: name}
	}
	if _, exists := g.nodes[name]; exists {
		return nil, NewDuplicateTaskError(name)
	}

	node := &TaskNode{
		name:   name,
		action: action,
		deps:   append([]string(nil), deps...),
		index:  len(g.regOrder),
		state:  types.TaskPending,
	}
	g.nodes[name] = node
	g.regOrder = append(g.regOrder, node)
	return node, nil
}

// Finalize validates dependency references, rejects cycles and computes the
// deterministic topological order: among nodes whose dependencies are all
// satisfied, registration order breaks ties.
func (g *TaskGraph) Finalize() error {
	if g.finalized {
		return nil
	}

	for _, node := range g.regOrder {
		for _, dep := range node.deps {
			if _, ok := g.nodes[dep]; !ok {
				return NewUnknownDependencyError(node.name, dep)
			}
		}
	}

	indeg := make(map[string]int, len(g.nodes))
	dependents := make(map[string][]*TaskNode, len(g.nodes))
	for _, node := range g.regOrder {
		indeg[node.name] = len(node.deps)
		for _, dep := range node.deps {
			dependents[dep] = append(dependents[dep], node)
		}
	}

	emitted := make(map[string]bool, len(g.nodes))
	order := make([]*TaskNode, 0, len(g.nodes))
	for len(order) < len(g.regOrder) {
		progressed := false
		for _, node := range g.regOrder {
			if emitted[node.name] || indeg[node.name] > 0 {
				continue
			}
			emitted[node.name] = true
			order = append(order, node)
			for _, dep := range dependents[node.name] {
				indeg[dep.name]--
			}
			progressed = true
			break
		}
		if !progressed {
			return NewCycleError(g.cycleMembers(emitted))
		}
	}

	g.order = order
	g.finalized = true
	return nil
}

// cycleMembers isolates the tasks actually on a cycle from the leftover
// set a stalled topological sort leaves behind (which also contains the
// cycle's transitive dependents).
func (g *TaskGraph) cycleMembers(emitted map[string]bool) []string {
	leftover := make(map[string]bool)
	for name := range g.nodes {
		if !emitted[name] {
			leftover[name] = true
		}
	}

	// Iteratively strip leftover nodes nothing in the leftover set depends
	// on; what remains participates in a cycle.
	for {
		hasDependent := make(map[string]bool)
		for name := range leftover {
			for _, dep := range g.nodes[name].deps {
				if leftover[dep] {
					hasDependent[dep] = true
				}
			}
		}
		removed := false
		for name := range leftover {
			if !hasDependent[name] {
				delete(leftover, name)
				removed = true
			}
		}
		if !removed {
			break
		}
	}

	members := make([]string, 0, len(leftover))
	for name := range leftover {
		members = append(members, name)
	}
	sort.Slice(members, func(i, j int) bool {
		return g.nodes[members[i]].index < g.nodes[members[j]].index
	})
	return members
}

// Finalized reports whether the graph has been finalized.
func (g *TaskGraph) Finalized() bool { return g.finalized }

// Len returns the number of registered tasks.
func (g *TaskGraph) Len() int { return len(g.regOrder) }

// Node returns the node for a task name.
func (g *TaskGraph) Node(name string) (*TaskNode, bool) {
	n, ok := g.nodes[name]
	return n, ok
}

// Nodes returns the nodes in registration order.
func (g *TaskGraph) Nodes() []*TaskNode {
	out := make([]*TaskNode, len(g.regOrder))
	copy(out, g.regOrder)
	return out
}

// Order returns the topological run order. It is nil before Finalize.
func (g *TaskGraph) Order() []*TaskNode {
	if !g.finalized {
		return nil
	}
	out := make([]*TaskNode, len(g.order))
	copy(out, g.order)
	return out
}

// ResetStates returns every node to Pending so the graph can be reused for
// another run.
func (g *TaskGraph) ResetStates() {
	for _, node := range g.regOrder {
		node.state = types.TaskPending
	}
}

package graph

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"
)

// TestTopologicalOrderProperty generates random acyclic graphs and checks
// that the computed order is a valid topological sort and deterministic.
func TestTopologicalOrderProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 20).Draw(t, "n")

		// Edges only point to lower indices, so the graph is acyclic by
		// construction.
		deps := make([][]string, n)
		for i := 1; i < n; i++ {
			count := rapid.IntRange(0, i).Draw(t, fmt.Sprintf("deps%d", i))
			seen := make(map[int]bool)
			for j := 0; j < count; j++ {
				d := rapid.IntRange(0, i-1).Draw(t, fmt.Sprintf("dep%d_%d", i, j))
				if !seen[d] {
					seen[d] = true
					deps[i] = append(deps[i], taskName(d))
				}
			}
		}

		build := func() *TaskGraph {
			g := New()
			for i := 0; i < n; i++ {
				if _, err := g.AddTask(taskName(i), nopAction, deps[i]...); err != nil {
					t.Fatalf("AddTask: %v", err)
				}
			}
			if err := g.Finalize(); err != nil {
				t.Fatalf("Finalize: %v", err)
			}
			return g
		}

		g := build()
		order := g.Order()
		if len(order) != n {
			t.Fatalf("order has %d nodes, want %d", len(order), n)
		}

		// Every dependency appears before its dependent.
		position := make(map[string]int, n)
		for idx, node := range order {
			position[node.Name()] = idx
		}
		for _, node := range order {
			for _, dep := range node.Dependencies() {
				if position[dep] >= position[node.Name()] {
					t.Fatalf("dependency %s ordered after %s", dep, node.Name())
				}
			}
		}

		// Rebuilding the same graph yields the identical order.
		g2 := build()
		for idx, node := range g2.Order() {
			if node.Name() != order[idx].Name() {
				t.Fatalf("order not deterministic at index %d: %s vs %s", idx, node.Name(), order[idx].Name())
			}
		}
	})
}

// TestCycleDetectionProperty closes a random chain into a ring and checks
// that finalize rejects it.
func TestCycleDetectionProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(2, 10).Draw(t, "n")

		g := New()
		for i := 0; i < n; i++ {
			// Each task depends on its predecessor; the first closes the ring.
			dep := taskName((i + n - 1) % n)
			if _, err := g.AddTask(taskName(i), nopAction, dep); err != nil {
				t.Fatalf("AddTask: %v", err)
			}
		}

		err := g.Finalize()
		if !IsCycleError(err) {
			t.Fatalf("expected cycle error, got %v", err)
		}
		var graphErr *GraphError
		if !asGraphError(err, &graphErr) {
			t.Fatalf("expected *GraphError, got %T", err)
		}
		if len(graphErr.Members) != n {
			t.Fatalf("cycle has %d members, want %d", len(graphErr.Members), n)
		}
	})
}

func taskName(i int) string {
	return fmt.Sprintf("task%02d", i)
}

func asGraphError(err error, target **GraphError) bool {
	ge, ok := err.(*GraphError)
	if ok {
		*target = ge
	}
	return ok
}

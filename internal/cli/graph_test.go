package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buildforge/internal/executor"
	"buildforge/internal/graph"
	"buildforge/internal/parser"
	"buildforge/pkg/types"
)

func sampleBuild() *parser.BuildFile {
	return &parser.BuildFile{
		Name: "webapp",
		Tasks: []parser.TaskDef{
			{ID: "clean", Type: "noop"},
			{ID: "compile", Type: "noop", DependsOn: []string{"clean"}},
			{ID: "test", Type: "noop", DependsOn: []string{"compile"}},
			{ID: "docs", Type: "noop"},
			{ID: "package", Type: "noop", DependsOn: []string{"test", "docs"}},
		},
	}
}

func orderNames(g *graph.TaskGraph) []string {
	nodes := g.Order()
	names := make([]string, len(nodes))
	for i, n := range nodes {
		names[i] = n.Name()
	}
	return names
}

func TestBuildGraph_AllTasks(t *testing.T) {
	g, err := BuildGraph(sampleBuild(), nil)
	require.NoError(t, err)
	assert.Equal(t, 5, g.Len())
	assert.Equal(t, []string{"clean", "compile", "test", "docs", "package"}, orderNames(g))
}

func TestBuildGraph_TargetClosure(t *testing.T) {
	g, err := BuildGraph(sampleBuild(), []string{"test"})
	require.NoError(t, err)
	assert.Equal(t, []string{"clean", "compile", "test"}, orderNames(g),
		"a target pulls in its transitive dependencies and nothing else")
}

func TestBuildGraph_MultipleTargets(t *testing.T) {
	g, err := BuildGraph(sampleBuild(), []string{"docs", "compile"})
	require.NoError(t, err)
	assert.Equal(t, []string{"clean", "compile", "docs"}, orderNames(g))
}

func TestBuildGraph_UnknownTarget(t *testing.T) {
	_, err := BuildGraph(sampleBuild(), []string{"deploy"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deploy")
}

func TestBuildGraph_UnknownActionType(t *testing.T) {
	build := &parser.BuildFile{
		Name:  "broken",
		Tasks: []parser.TaskDef{{ID: "a", Type: "teleport"}},
	}
	_, err := BuildGraph(build, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a")
}

func TestBuildGraph_CycleRejected(t *testing.T) {
	build := &parser.BuildFile{
		Name: "loop",
		Tasks: []parser.TaskDef{
			{ID: "a", Type: "noop", DependsOn: []string{"b"}},
			{ID: "b", Type: "noop", DependsOn: []string{"a"}},
		},
	}
	_, err := BuildGraph(build, nil)
	require.Error(t, err)
	assert.True(t, graph.IsCycleError(err))
}

func TestBuildGraph_CarriesCondition(t *testing.T) {
	build := &parser.BuildFile{
		Name: "conditional",
		Tasks: []parser.TaskDef{
			{ID: "deploy", Type: "noop", OnlyIf: "vars.release === true"},
		},
	}
	g, err := BuildGraph(build, nil)
	require.NoError(t, err)

	node, ok := g.Node("deploy")
	require.True(t, ok)
	assert.Equal(t, "vars.release === true", node.Condition())
}

func TestBuildGraph_ComposesPrePostActions(t *testing.T) {
	build := &parser.BuildFile{
		Name: "hooks",
		Tasks: []parser.TaskDef{
			{
				ID:   "compile",
				Type: "set_var",
				Config: map[string]any{
					"name":  "phase",
					"value": "main",
				},
				Pre: []parser.ActionDef{
					{Type: "set_var", Config: map[string]any{"name": "before", "value": "yes"}},
				},
				Post: []parser.ActionDef{
					{Type: "set_var", Config: map[string]any{"name": "after", "value": "yes"}},
				},
			},
		},
	}
	g, err := BuildGraph(build, nil)
	require.NoError(t, err)

	node, ok := g.Node("compile")
	require.True(t, ok)

	ec := types.NewExecutionContext("compile")
	_, err = node.Action().Run(context.Background(), ec)
	require.NoError(t, err)

	for _, name := range []string{"before", "phase", "after"} {
		v, ok := ec.Vars().Get(name)
		assert.True(t, ok, "variable %s not set", name)
		assert.NotEmpty(t, v)
	}
}

func TestBuildGraph_UnknownHookActionType(t *testing.T) {
	build := &parser.BuildFile{
		Name: "hooks",
		Tasks: []parser.TaskDef{
			{
				ID:   "compile",
				Type: "noop",
				Pre:  []parser.ActionDef{{Type: "teleport"}},
			},
		},
	}
	_, err := BuildGraph(build, nil)
	require.Error(t, err)

	var execErr *executor.ExecutorError
	require.ErrorAs(t, err, &execErr)
	assert.True(t, executor.IsActionNotFoundError(execErr))
}

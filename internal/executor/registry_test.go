package executor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buildforge/pkg/types"
)

func mockFactory(config map[string]any) (types.Action, error) {
	return types.ActionFunc(func(ctx context.Context, ec *types.ExecutionContext) (any, error) {
		return "mock", nil
	}), nil
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register("mock", mockFactory))
	assert.True(t, r.Has("mock"))

	// Duplicate registration is rejected.
	assert.Error(t, r.Register("mock", mockFactory))

	// Nil factory and empty kind are rejected.
	assert.Error(t, r.Register("other", nil))
	assert.Error(t, r.Register("", mockFactory))
}

func TestRegistry_Get(t *testing.T) {
	r := NewRegistry()
	r.MustRegister("mock", mockFactory)

	factory, err := r.Get("mock")
	require.NoError(t, err)
	assert.NotNil(t, factory)

	_, err = r.Get("nonexistent")
	require.Error(t, err)
	assert.True(t, IsActionNotFoundError(err))
}

func TestRegistry_Alias(t *testing.T) {
	r := NewRegistry()
	r.MustRegister("mock", mockFactory)
	r.RegisterAlias("mock2", "mock")

	assert.True(t, r.Has("mock2"))

	// Alias for an unknown target is silently ignored.
	r.RegisterAlias("ghost", "nonexistent")
	assert.False(t, r.Has("ghost"))
}

func TestRegistry_Build(t *testing.T) {
	r := NewRegistry()
	r.MustRegister("mock", mockFactory)

	action, err := r.Build("mock", nil)
	require.NoError(t, err)

	out, err := action.Run(context.Background(), types.NewExecutionContext("t"))
	require.NoError(t, err)
	assert.Equal(t, "mock", out)
}

func TestRegistry_Kinds(t *testing.T) {
	r := NewRegistry()
	r.MustRegister("zeta", mockFactory)
	r.MustRegister("alpha", mockFactory)

	assert.Equal(t, []string{"alpha", "zeta"}, r.Kinds())
}

func TestDefaultRegistry_BuiltinActions(t *testing.T) {
	for _, kind := range []string{"exec", "shell", "js", "http", "noop", "wait", "sleep", "set_var", "set_variable"} {
		assert.True(t, DefaultRegistry.Has(kind), "built-in action %s must be registered", kind)
	}
}

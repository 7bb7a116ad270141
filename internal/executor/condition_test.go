package executor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConditionEvaluator_Booleans(t *testing.T) {
	e := NewConditionEvaluator()

	tests := []struct {
		expr string
		vars map[string]any
		want bool
	}{
		{"true", nil, true},
		{"false", nil, false},
		{"env == 'prod'", map[string]any{"env": "prod"}, true},
		{"env == 'prod'", map[string]any{"env": "dev"}, false},
		{"count > 3 && count < 10", map[string]any{"count": 5}, true},
		{"!skipTests", map[string]any{"skipTests": false}, true},
		{"vars['weird name'] == 1", map[string]any{"weird name": 1}, true},
	}

	for _, tt := range tests {
		got, err := e.Eval(tt.expr, tt.vars)
		require.NoError(t, err, tt.expr)
		assert.Equal(t, tt.want, got, tt.expr)
	}
}

func TestConditionEvaluator_Truthiness(t *testing.T) {
	e := NewConditionEvaluator()

	got, err := e.Eval("'non-empty'", nil)
	require.NoError(t, err)
	assert.True(t, got)

	got, err = e.Eval("0", nil)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestConditionEvaluator_MissingVariable(t *testing.T) {
	e := NewConditionEvaluator()

	// Unbound identifiers raise a ReferenceError rather than defaulting.
	_, err := e.Eval("nosuchvar == 1", nil)
	assert.Error(t, err)
}

func TestConditionEvaluator_SyntaxError(t *testing.T) {
	e := NewConditionEvaluator()

	_, err := e.Eval("this is not javascript", map[string]any{})
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
}

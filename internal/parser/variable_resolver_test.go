package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_Shorthand(t *testing.T) {
	r := NewVariableResolver().WithVariables(map[string]any{
		"version": "1.4.2",
		"workers": 8,
	})

	v, err := r.Resolve("version")
	require.NoError(t, err)
	assert.Equal(t, "1.4.2", v)

	v, err = r.Resolve("workers")
	require.NoError(t, err)
	assert.Equal(t, 8, v, "non-string variables keep their type")

	_, err = r.Resolve("missing")
	require.Error(t, err)
	var rerr *VariableResolutionError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "missing", rerr.Reference)
}

func TestResolve_VarPrefix(t *testing.T) {
	r := NewVariableResolver().WithVariables(map[string]any{"region": "eu-west-1"})

	v, err := r.Resolve("var:region")
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", v)

	_, err = r.Resolve("var:missing")
	assert.Error(t, err)
}

func TestResolve_EnvPrefix(t *testing.T) {
	t.Setenv("BUILD_NUMBER", "347")

	r := NewVariableResolver()
	v, err := r.Resolve("env:BUILD_NUMBER")
	require.NoError(t, err)
	assert.Equal(t, "347", v)

	_, err = r.Resolve("env:NO_SUCH_VARIABLE_SET")
	assert.Error(t, err)
}

func TestResolve_UnknownPrefix(t *testing.T) {
	_, err := NewVariableResolver().Resolve("secret:token")
	require.Error(t, err)
	var rerr *VariableResolutionError
	require.ErrorAs(t, err, &rerr)
	assert.Contains(t, rerr.Message, "secret")
}

func TestResolveString(t *testing.T) {
	t.Setenv("TARGET", "prod")
	r := NewVariableResolver().WithVariables(map[string]any{
		"version": "1.4.2",
		"name":    "webapp",
	})

	out, err := r.ResolveString("deploy ${name}-${version} to ${env:TARGET}")
	require.NoError(t, err)
	assert.Equal(t, "deploy webapp-1.4.2 to prod", out)

	out, err = r.ResolveString("no references here")
	require.NoError(t, err)
	assert.Equal(t, "no references here", out)

	_, err = r.ResolveString("prefix ${name} ${missing} suffix")
	assert.Error(t, err, "one bad reference fails the whole string")
}

func TestHasVariableReferences(t *testing.T) {
	assert.True(t, HasVariableReferences("build ${version}"))
	assert.True(t, HasVariableReferences("${env:HOME}"))
	assert.False(t, HasVariableReferences("plain string"))
	assert.False(t, HasVariableReferences("dollar $ but no braces"))
	assert.False(t, HasVariableReferences("unclosed ${ref"))
}

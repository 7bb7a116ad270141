package parser

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// variablePattern matches variable references like ${env:VAR} and ${name}
var variablePattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// VariableResolver resolves ${...} references against inline build
// variables and the process environment.
type VariableResolver struct {
	// Variables holds inline variable definitions from the build file
	Variables map[string]any
}

// NewVariableResolver creates a new VariableResolver.
func NewVariableResolver() *VariableResolver {
	return &VariableResolver{
		Variables: make(map[string]any),
	}
}

// WithVariables sets the variables map.
func (r *VariableResolver) WithVariables(variables map[string]any) *VariableResolver {
	r.Variables = variables
	return r
}

// Resolve resolves a variable reference.
// Supported formats:
//   - ${env:VAR_NAME} - resolves from environment variables
//   - ${var:name} - resolves from inline variables
//   - ${name} - resolves from inline variables (shorthand)
func (r *VariableResolver) Resolve(ref string) (any, error) {
	if strings.Contains(ref, ":") {
		parts := strings.SplitN(ref, ":", 2)
		prefix := strings.ToLower(parts[0])
		key := parts[1]

		switch prefix {
		case "env":
			value, exists := os.LookupEnv(key)
			if !exists {
				return nil, NewVariableResolutionError(ref, fmt.Sprintf("environment variable '%s' not found", key))
			}
			return value, nil

		case "var":
			value, exists := r.Variables[key]
			if !exists {
				return nil, NewVariableResolutionError(ref, fmt.Sprintf("variable '%s' not found", key))
			}
			return value, nil

		default:
			return nil, NewVariableResolutionError(ref, fmt.Sprintf("unknown variable prefix '%s'", prefix))
		}
	}

	// Shorthand: just the variable name
	value, exists := r.Variables[ref]
	if !exists {
		return nil, NewVariableResolutionError(ref, fmt.Sprintf("variable '%s' not found", ref))
	}
	return value, nil
}

// ResolveString resolves all variable references in a string.
func (r *VariableResolver) ResolveString(s string) (string, error) {
	var lastErr error
	result := variablePattern.ReplaceAllStringFunc(s, func(match string) string {
		ref := match[2 : len(match)-1]
		value, err := r.Resolve(ref)
		if err != nil {
			lastErr = err
			return match // Keep original on error
		}
		return fmt.Sprintf("%v", value)
	})

	if lastErr != nil {
		return "", lastErr
	}
	return result, nil
}

// HasVariableReferences checks if a string contains variable references.
func HasVariableReferences(s string) bool {
	return variablePattern.MatchString(s)
}

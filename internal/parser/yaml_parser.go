package parser

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// YAMLParser parses YAML build files.
type YAMLParser struct {
	resolver *VariableResolver
}

// NewYAMLParser creates a new YAMLParser.
func NewYAMLParser() *YAMLParser {
	return &YAMLParser{
		resolver: NewVariableResolver(),
	}
}

// WithResolver sets a custom variable resolver.
func (p *YAMLParser) WithResolver(resolver *VariableResolver) *YAMLParser {
	p.resolver = resolver
	return p
}

// Parse parses a build definition from bytes.
func (p *YAMLParser) Parse(data []byte) (*BuildFile, error) {
	var build BuildFile

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Strict mode: error on unknown fields

	if err := decoder.Decode(&build); err != nil {
		return nil, p.wrapYAMLError(err)
	}

	if err := p.validate(&build); err != nil {
		return nil, err
	}

	if build.Variables != nil {
		p.resolver.WithVariables(build.Variables)
	}
	if err := p.resolveVariables(&build); err != nil {
		return nil, err
	}

	return &build, nil
}

// ParseFile parses a build definition from a file.
func (p *YAMLParser) ParseFile(path string) (*BuildFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewParseError(0, 0, fmt.Sprintf("failed to read file: %s", path), err)
	}
	return p.Parse(data)
}

// wrapYAMLError converts a YAML error to a ParseError with line information.
func (p *YAMLParser) wrapYAMLError(err error) error {
	if err == nil {
		return nil
	}

	errStr := err.Error()
	line, column := extractLineColumn(errStr)
	message := cleanYAMLErrorMessage(errStr)

	return NewParseError(line, column, message, err)
}

// extractLineColumn attempts to extract line and column from YAML error message.
func extractLineColumn(errStr string) (int, int) {
	var line, column int

	if idx := strings.Index(errStr, "line "); idx != -1 {
		fmt.Sscanf(errStr[idx:], "line %d", &line)
	}
	if idx := strings.Index(errStr, "column "); idx != -1 {
		fmt.Sscanf(errStr[idx:], "column %d", &column)
	}

	return line, column
}

// cleanYAMLErrorMessage creates a cleaner error message.
func cleanYAMLErrorMessage(errStr string) string {
	errStr = strings.TrimPrefix(errStr, "yaml: ")
	if len(errStr) > 0 {
		errStr = strings.ToUpper(errStr[:1]) + errStr[1:]
	}
	return errStr
}

// validate validates a parsed build definition.
func (p *YAMLParser) validate(build *BuildFile) error {
	if build.Name == "" {
		return NewValidationError("name", "build name is required")
	}

	if len(build.Tasks) == 0 {
		return NewValidationError("tasks", "build must have at least one task")
	}

	taskIDs := make(map[string]bool)
	for i, task := range build.Tasks {
		if err := p.validateTask(&task, taskIDs, fmt.Sprintf("tasks[%d]", i)); err != nil {
			return err
		}
	}

	// Dangling depends_on references are caught here rather than at graph
	// assembly so the message carries the field path.
	for i, task := range build.Tasks {
		for j, dep := range task.DependsOn {
			if !taskIDs[dep] {
				return NewValidationError(
					fmt.Sprintf("tasks[%d].depends_on[%d]", i, j),
					fmt.Sprintf("unknown task: %s", dep))
			}
		}
	}

	return nil
}

// validateTask validates a single task definition.
func (p *YAMLParser) validateTask(task *TaskDef, taskIDs map[string]bool, path string) error {
	if task.ID == "" {
		return NewValidationError(path+".id", "task ID is required")
	}

	if taskIDs[task.ID] {
		return NewValidationError(path+".id", fmt.Sprintf("duplicate task ID: %s", task.ID))
	}
	taskIDs[task.ID] = true

	if task.Type == "" {
		return NewValidationError(path+".type", "task type is required")
	}

	for i, dep := range task.DependsOn {
		if dep == "" {
			return NewValidationError(fmt.Sprintf("%s.depends_on[%d]", path, i), "dependency name must not be empty")
		}
		if dep == task.ID {
			return NewValidationError(fmt.Sprintf("%s.depends_on[%d]", path, i), "task cannot depend on itself")
		}
	}

	for i, pre := range task.Pre {
		if pre.Type == "" {
			return NewValidationError(fmt.Sprintf("%s.pre[%d].type", path, i), "action type is required")
		}
	}
	for i, post := range task.Post {
		if post.Type == "" {
			return NewValidationError(fmt.Sprintf("%s.post[%d].type", path, i), "action type is required")
		}
	}

	return nil
}

// resolveVariables resolves all variable references in task configs.
// This modifies the build in place.
func (p *YAMLParser) resolveVariables(build *BuildFile) error {
	for i := range build.Tasks {
		task := &build.Tasks[i]
		if task.Config != nil {
			resolved, err := p.resolveMapVariables(task.Config)
			if err != nil {
				return err
			}
			task.Config = resolved
		}
		for j := range task.Pre {
			if err := p.resolveActionDef(&task.Pre[j]); err != nil {
				return err
			}
		}
		for j := range task.Post {
			if err := p.resolveActionDef(&task.Post[j]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *YAMLParser) resolveActionDef(def *ActionDef) error {
	if def.Config == nil {
		return nil
	}
	resolved, err := p.resolveMapVariables(def.Config)
	if err != nil {
		return err
	}
	def.Config = resolved
	return nil
}

// resolveMapVariables resolves variables in a map recursively.
func (p *YAMLParser) resolveMapVariables(m map[string]any) (map[string]any, error) {
	result := make(map[string]any)

	for k, v := range m {
		resolved, err := p.resolveValue(v)
		if err != nil {
			return nil, err
		}
		result[k] = resolved
	}

	return result, nil
}

// resolveValue resolves variables in a value recursively.
func (p *YAMLParser) resolveValue(v any) (any, error) {
	switch val := v.(type) {
	case string:
		if HasVariableReferences(val) {
			return p.resolver.ResolveString(val)
		}
		return val, nil

	case map[string]any:
		return p.resolveMapVariables(val)

	case []any:
		result := make([]any, len(val))
		for i, item := range val {
			resolved, err := p.resolveValue(item)
			if err != nil {
				return nil, err
			}
			result[i] = resolved
		}
		return result, nil

	default:
		return v, nil
	}
}

package workflow

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Flow represents a parsed workflow file.
type Flow struct {
	SourcePath string // Path to the source file
	Config     Config // Flow configuration (name, bundle, env)
	Steps      []Step // Steps to execute
}

// Config represents flow-level configuration, carried in an optional
// leading YAML document.
type Config struct {
	Name    string            `yaml:"name"`
	Bundle  string            `yaml:"bundle"`
	Ability string            `yaml:"ability"`
	Env     map[string]string `yaml:"env"`
}

// ParseError represents a parsing error with location info.
type ParseError struct {
	Path    string
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ParseFile parses a workflow YAML file.
func ParseFile(path string) (*Flow, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- path is user-provided flow file
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Parse(data, path)
}

// Parse parses workflow YAML content. The file is either a single
// document holding the step list, or a config document followed by the
// step list.
func Parse(data []byte, sourcePath string) (*Flow, error) {
	flow := &Flow{SourcePath: sourcePath}

	dec := yaml.NewDecoder(bytes.NewReader(data))

	var docs []yaml.Node
	for {
		var doc yaml.Node
		if err := dec.Decode(&doc); err != nil {
			if err == io.EOF {
				break
			}
			return nil, &ParseError{Path: sourcePath, Message: err.Error()}
		}
		docs = append(docs, doc)
	}

	switch len(docs) {
	case 0:
		return nil, &ParseError{Path: sourcePath, Line: 1, Message: "empty flow file"}
	case 1:
		if err := parseSteps(&docs[0], flow); err != nil {
			return nil, err
		}
	default:
		if err := docs[0].Decode(&flow.Config); err != nil {
			return nil, &ParseError{
				Path:    sourcePath,
				Line:    docs[0].Line,
				Message: fmt.Sprintf("invalid config: %v", err),
			}
		}
		if err := parseSteps(&docs[1], flow); err != nil {
			return nil, err
		}
	}

	return flow, nil
}

func parseSteps(doc *yaml.Node, flow *Flow) error {
	root := doc
	if root.Kind == yaml.DocumentNode && len(root.Content) == 1 {
		root = root.Content[0]
	}
	if root.Kind != yaml.SequenceNode {
		return &ParseError{
			Path:    flow.SourcePath,
			Line:    root.Line,
			Message: "flow must be a list of steps",
		}
	}

	for _, item := range root.Content {
		step, err := parseStep(item, flow.SourcePath)
		if err != nil {
			return err
		}
		flow.Steps = append(flow.Steps, step)
	}
	return nil
}

// parseStep parses one list item: a single-key mapping where the key is
// the step type and the value its parameters.
func parseStep(node *yaml.Node, sourcePath string) (Step, error) {
	if node.Kind != yaml.MappingNode || len(node.Content) < 2 {
		return nil, &ParseError{
			Path:    sourcePath,
			Line:    node.Line,
			Message: "step must be a single-key mapping",
		}
	}

	key := node.Content[0].Value
	value := node.Content[1]

	decode := func(out Step) (Step, error) {
		// A null value ("- delay:") leaves the zero struct.
		if value.Kind != 0 && value.Tag != "!!null" {
			if err := value.Decode(out); err != nil {
				return nil, &ParseError{
					Path:    sourcePath,
					Line:    value.Line,
					Message: fmt.Sprintf("invalid %s step: %v", key, err),
				}
			}
		}
		return out, nil
	}

	switch StepType(key) {
	case StepLaunchApp:
		step := &LaunchAppStep{BaseStep: BaseStep{StepType: StepLaunchApp}}
		if value.Kind == yaml.ScalarNode {
			step.Bundle = value.Value
			return step, nil
		}
		return decode(step)

	case StepScrollUntilVisible:
		step := &ScrollUntilVisibleStep{BaseStep: BaseStep{StepType: StepScrollUntilVisible}}
		if value.Kind == yaml.ScalarNode {
			step.Selector.Text = value.Value
			return step, nil
		}
		return decode(step)

	case StepAssertVisible:
		step := &AssertVisibleStep{BaseStep: BaseStep{StepType: StepAssertVisible}}
		if value.Kind == yaml.ScalarNode {
			step.Selector.Text = value.Value
			return step, nil
		}
		return decode(step)

	case StepAssertTextEquals:
		step := &AssertTextEqualsStep{BaseStep: BaseStep{StepType: StepAssertTextEquals}}
		return decode(step)

	case StepTapOn:
		step := &TapOnStep{BaseStep: BaseStep{StepType: StepTapOn}}
		if value.Kind == yaml.ScalarNode {
			step.Selector.Text = value.Value
			return step, nil
		}
		return decode(step)

	case StepInputText:
		step := &InputTextStep{BaseStep: BaseStep{StepType: StepInputText}}
		if value.Kind == yaml.ScalarNode {
			step.Text = value.Value
			return step, nil
		}
		return decode(step)

	case StepSwipe:
		step := &SwipeStep{BaseStep: BaseStep{StepType: StepSwipe}}
		return decode(step)

	case StepWaitUntil:
		step := &WaitUntilStep{BaseStep: BaseStep{StepType: StepWaitUntil}}
		if value.Kind == yaml.ScalarNode {
			step.Selector.Text = value.Value
			return step, nil
		}
		return decode(step)

	case StepDelay:
		step := &DelayStep{BaseStep: BaseStep{StepType: StepDelay}}
		if value.Kind == yaml.ScalarNode {
			var ms int
			if err := value.Decode(&ms); err != nil {
				return nil, &ParseError{
					Path:    sourcePath,
					Line:    value.Line,
					Message: fmt.Sprintf("invalid delay value: %v", err),
				}
			}
			step.Ms = ms
			return step, nil
		}
		return decode(step)

	default:
		return nil, &ParseError{
			Path:    sourcePath,
			Line:    node.Line,
			Message: fmt.Sprintf("unknown step type: %s", key),
		}
	}
}

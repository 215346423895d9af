// Package workflow executes scripted automation sequences against a
// device: parse the current render tree, resolve a target, act, verify.
package workflow

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// StepType represents the kind of a step.
type StepType string

// Step type constants.
const (
	StepLaunchApp          StepType = "launchApp"
	StepScrollUntilVisible StepType = "scrollUntilVisible"
	StepAssertVisible      StepType = "assertVisible"
	StepAssertTextEquals   StepType = "assertTextEquals"
	StepTapOn              StepType = "tapOn"
	StepInputText          StepType = "inputText"
	StepSwipe              StepType = "swipe"
	StepWaitUntil          StepType = "extendedWaitUntil"
	StepDelay              StepType = "delay"
)

// Step is the interface for all workflow steps.
type Step interface {
	Type() StepType
	Label() string
	Describe() string
}

// BaseStep contains common fields for all steps.
type BaseStep struct {
	StepType  StepType `yaml:"-"`
	StepLabel string   `yaml:"label"`
	TimeoutMs int      `yaml:"timeout"`
}

// Type returns the step type.
func (b *BaseStep) Type() StepType { return b.StepType }

// Label returns the step label.
func (b *BaseStep) Label() string { return b.StepLabel }

// Describe returns a human-readable description.
func (b *BaseStep) Describe() string { return string(b.StepType) }

// Selector names the element a step targets by display text.
type Selector struct {
	Text  string `yaml:"text"`
	Exact bool   `yaml:"exact"`
}

// UnmarshalYAML allows Selector to be unmarshaled from a bare string or a
// mapping.
func (s *Selector) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		s.Text = node.Value
		return nil
	}

	var raw struct {
		Text  string `yaml:"text"`
		Exact bool   `yaml:"exact"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	s.Text = raw.Text
	s.Exact = raw.Exact
	return nil
}

// IsEmpty returns true if no selector text is set.
func (s *Selector) IsEmpty() bool {
	return s.Text == ""
}

// DescribeQuoted returns a quoted description like text="value".
func (s *Selector) DescribeQuoted() string {
	return fmt.Sprintf("text=%q", s.Text)
}

// LaunchAppStep launches an app and taps the target element once it
// appears on screen.
type LaunchAppStep struct {
	BaseStep `yaml:",inline"`
	Bundle   string   `yaml:"bundle"`
	Ability  string   `yaml:"ability"`
	Selector Selector `yaml:",inline"`
}

// ScrollUntilVisibleStep scrolls until the target element is visible,
// then taps it.
type ScrollUntilVisibleStep struct {
	BaseStep   `yaml:",inline"`
	Selector   Selector `yaml:",inline"`
	MaxScrolls int      `yaml:"maxScrolls"`
}

// AssertVisibleStep asserts the target element exists on screen.
type AssertVisibleStep struct {
	BaseStep `yaml:",inline"`
	Selector Selector `yaml:",inline"`
}

// AssertTextEqualsStep locates the target element and asserts its display
// text equals the expected value exactly.
type AssertTextEqualsStep struct {
	BaseStep `yaml:",inline"`
	Selector Selector `yaml:",inline"`
	Expected string   `yaml:"expected"`
}

// TapOnStep taps an element by selector, or a raw point when no selector
// is given.
type TapOnStep struct {
	BaseStep `yaml:",inline"`
	Selector Selector `yaml:",inline"`
	X        int      `yaml:"x"`
	Y        int      `yaml:"y"`
}

// InputTextStep types text. Not supported on the current target; it
// always produces a failed result without touching the device.
type InputTextStep struct {
	BaseStep `yaml:",inline"`
	Text     string `yaml:"text"`
}

// SwipeStep performs a raw swipe gesture.
type SwipeStep struct {
	BaseStep `yaml:",inline"`
	StartX   int `yaml:"startX"`
	StartY   int `yaml:"startY"`
	EndX     int `yaml:"endX"`
	EndY     int `yaml:"endY"`
	Duration int `yaml:"duration"` // ms
}

// WaitUntilStep waits for the target element to appear, without acting
// on it.
type WaitUntilStep struct {
	BaseStep `yaml:",inline"`
	Selector Selector `yaml:",inline"`
}

// DelayStep pauses the sequence.
type DelayStep struct {
	BaseStep `yaml:",inline"`
	Ms       int `yaml:"ms"`
}

// Describe returns a human-readable description of the launch step.
func (s *LaunchAppStep) Describe() string {
	if s.Selector.IsEmpty() {
		return "launchApp: " + s.Bundle
	}
	return fmt.Sprintf("launchApp: %s then tap %s", s.Bundle, s.Selector.DescribeQuoted())
}

// Describe returns a human-readable description of the scroll step.
func (s *ScrollUntilVisibleStep) Describe() string {
	return "scrollUntilVisible: " + s.Selector.DescribeQuoted()
}

// Describe returns a human-readable description of the assert step.
func (s *AssertVisibleStep) Describe() string {
	return "assertVisible: " + s.Selector.DescribeQuoted()
}

// Describe returns a human-readable description of the text assert step.
func (s *AssertTextEqualsStep) Describe() string {
	return fmt.Sprintf("assertTextEquals: %s == %q", s.Selector.DescribeQuoted(), s.Expected)
}

// Describe returns a human-readable description of the tap step.
func (s *TapOnStep) Describe() string {
	if s.Selector.IsEmpty() {
		return fmt.Sprintf("tapOn: (%d, %d)", s.X, s.Y)
	}
	return "tapOn: " + s.Selector.DescribeQuoted()
}

// Describe returns a human-readable description of the input step.
func (s *InputTextStep) Describe() string {
	return fmt.Sprintf("inputText: %q", s.Text)
}

// Describe returns a human-readable description of the swipe step.
func (s *SwipeStep) Describe() string {
	return fmt.Sprintf("swipe: (%d, %d) -> (%d, %d)", s.StartX, s.StartY, s.EndX, s.EndY)
}

// Describe returns a human-readable description of the wait step.
func (s *WaitUntilStep) Describe() string {
	return "extendedWaitUntil: visible " + s.Selector.DescribeQuoted()
}

// Describe returns a human-readable description of the delay step.
func (s *DelayStep) Describe() string {
	return fmt.Sprintf("delay: %dms", s.Ms)
}

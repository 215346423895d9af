package workflow

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func TestSelector_UnmarshalScalar(t *testing.T) {
	var s Selector
	if err := yaml.Unmarshal([]byte(`"Login"`), &s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Text != "Login" || s.Exact {
		t.Errorf("selector = %+v", s)
	}
}

func TestSelector_UnmarshalMapping(t *testing.T) {
	var s Selector
	data := []byte("text: Login\nexact: true\n")
	if err := yaml.Unmarshal(data, &s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Text != "Login" || !s.Exact {
		t.Errorf("selector = %+v", s)
	}
}

func TestSelector_IsEmpty(t *testing.T) {
	if !(&Selector{}).IsEmpty() {
		t.Error("zero selector should be empty")
	}
	if (&Selector{Text: "x"}).IsEmpty() {
		t.Error("selector with text should not be empty")
	}
}

func TestStepDescribe(t *testing.T) {
	tests := []struct {
		step Step
		want string
	}{
		{&LaunchAppStep{Bundle: "com.example.shop"}, "launchApp: com.example.shop"},
		{
			&LaunchAppStep{Bundle: "com.example.shop", Selector: Selector{Text: "Home"}},
			`launchApp: com.example.shop then tap text="Home"`,
		},
		{&ScrollUntilVisibleStep{Selector: Selector{Text: "Reviews"}}, `scrollUntilVisible: text="Reviews"`},
		{&AssertVisibleStep{Selector: Selector{Text: "Cart"}}, `assertVisible: text="Cart"`},
		{
			&AssertTextEqualsStep{Selector: Selector{Text: "Total"}, Expected: "42"},
			`assertTextEquals: text="Total" == "42"`,
		},
		{&TapOnStep{X: 10, Y: 20}, "tapOn: (10, 20)"},
		{&TapOnStep{Selector: Selector{Text: "Submit"}}, `tapOn: text="Submit"`},
		{&InputTextStep{Text: "hi"}, `inputText: "hi"`},
		{&SwipeStep{StartX: 1, StartY: 2, EndX: 3, EndY: 4}, "swipe: (1, 2) -> (3, 4)"},
		{&WaitUntilStep{Selector: Selector{Text: "Spinner"}}, `extendedWaitUntil: visible text="Spinner"`},
		{&DelayStep{Ms: 250}, "delay: 250ms"},
	}

	for _, tt := range tests {
		if got := tt.step.Describe(); got != tt.want {
			t.Errorf("Describe() = %q, want %q", got, tt.want)
		}
	}
}

func TestBaseStep(t *testing.T) {
	b := &BaseStep{StepType: StepTapOn, StepLabel: "tap the button"}
	if b.Type() != StepTapOn {
		t.Errorf("type = %s", b.Type())
	}
	if b.Label() != "tap the button" {
		t.Errorf("label = %s", b.Label())
	}
}

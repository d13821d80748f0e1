package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/specstore/internal/journal"
)

// Scenario is one scripted run of the stack store.
type Scenario struct {
	// Name identifies the scenario and names its golden file.
	Name string `yaml:"name" json:"name"`

	// Description says what the scenario demonstrates.
	Description string `yaml:"description" json:"description"`

	// Session is the journal session id. Empty means a generated one.
	Session string `yaml:"session,omitempty" json:"session,omitempty"`

	// Initial is the starting stack, bottom first.
	Initial []any `yaml:"initial,omitempty" json:"initial,omitempty"`

	// Budget bounds every push_until loop that does not set its own.
	Budget int `yaml:"budget,omitempty" json:"budget,omitempty"`

	// Steps run in order against the root store.
	Steps []Step `yaml:"steps" json:"steps"`

	// FinalState, when present, must equal the stack after the last step.
	FinalState []any `yaml:"final_state,omitempty" json:"final_state,omitempty"`

	// Notifications, when present, is the exact number of listener calls on
	// the root store.
	Notifications *int `yaml:"notifications,omitempty" json:"notifications,omitempty"`

	// Assertions check the journal trace.
	Assertions []Assertion `yaml:"assertions,omitempty" json:"assertions,omitempty"`
}

// Step is either a plain dispatch or a speculative action. Exactly one field
// is set.
type Step struct {
	Dispatch  *DispatchStep  `yaml:"dispatch,omitempty" json:"dispatch,omitempty"`
	Speculate *SpeculateStep `yaml:"speculate,omitempty" json:"speculate,omitempty"`
}

// DispatchStep dispatches a plain PUSH or POP to the root store.
type DispatchStep struct {
	Type  string `yaml:"type" json:"type"`
	Value any    `yaml:"value,omitempty" json:"value,omitempty"`
}

// SpeculateStep builds a speculative action from ops.
type SpeculateStep struct {
	// Branch selects isolated evaluation. Defaults to true.
	Branch *bool `yaml:"branch,omitempty" json:"branch,omitempty"`

	// DeepEqual selects structural comparison. Defaults to true.
	DeepEqual *bool `yaml:"deep_equal,omitempty" json:"deep_equal,omitempty"`

	// Ops is the procedure body.
	Ops []Op `yaml:"ops" json:"ops"`

	// Execute commits when possible. Defaults to true.
	Execute *bool `yaml:"execute,omitempty" json:"execute,omitempty"`

	// Expect checks the outcome. Only allowed on top-level steps.
	Expect *Expect `yaml:"expect,omitempty" json:"expect,omitempty"`
}

// Op is one procedure instruction. Exactly one field is set.
type Op struct {
	// Push dispatches PUSH with this value.
	Push any `yaml:"push,omitempty" json:"push,omitempty"`

	// Pop dispatches POP.
	Pop bool `yaml:"pop,omitempty" json:"pop,omitempty"`

	// PushUntil loops on getState until the stack reaches a length.
	PushUntil *PushUntil `yaml:"push_until,omitempty" json:"push_until,omitempty"`

	// Speculate dispatches a nested speculative action.
	Speculate *SpeculateStep `yaml:"speculate,omitempty" json:"speculate,omitempty"`

	// Fail makes the procedure return an error with this message.
	Fail string `yaml:"fail,omitempty" json:"fail,omitempty"`
}

// PushUntil pushes Value (or the iteration index when Value is absent)
// until the observed stack has Length elements.
type PushUntil struct {
	Length int `yaml:"length" json:"length"`
	Value  any `yaml:"value,omitempty" json:"value,omitempty"`
	Budget int `yaml:"budget,omitempty" json:"budget,omitempty"`
}

// Expect is checked against a top-level speculative step.
type Expect struct {
	CanExecute *bool  `yaml:"can_execute,omitempty" json:"can_execute,omitempty"`
	Executed   *bool  `yaml:"executed,omitempty" json:"executed,omitempty"`
	Error      string `yaml:"error,omitempty" json:"error,omitempty"`
}

// Assertion checks the journal trace.
type Assertion struct {
	// Type is trace_count or trace_order.
	Type string `yaml:"type" json:"type"`

	// Kind is the entry kind counted by trace_count.
	Kind string `yaml:"kind,omitempty" json:"kind,omitempty"`

	// Depth restricts trace_count to one depth when set.
	Depth *int `yaml:"depth,omitempty" json:"depth,omitempty"`

	// Count is the exact number expected by trace_count.
	Count int `yaml:"count,omitempty" json:"count,omitempty"`

	// Kinds must appear as a subsequence of the trace for trace_order.
	Kinds []string `yaml:"kinds,omitempty" json:"kinds,omitempty"`
}

// Assertion types.
const (
	AssertTraceCount = "trace_count"
	AssertTraceOrder = "trace_order"
)

// File extensions LoadScenario understands.
const (
	extYAML = ".yaml"
	extYML  = ".yml"
	extCUE  = ".cue"
)

// IsScenarioFile reports whether path has a scenario extension.
func IsScenarioFile(path string) bool {
	switch filepath.Ext(path) {
	case extYAML, extYML, extCUE:
		return true
	}
	return false
}

// LoadScenario reads a YAML or CUE scenario, chosen by extension, and
// validates it. Unknown fields are rejected in both formats.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var scenario *Scenario
	switch filepath.Ext(path) {
	case extYAML, extYML:
		scenario, err = parseYAML(data)
	case extCUE:
		scenario, err = parseCUE(path, data)
	default:
		return nil, fmt.Errorf("unsupported scenario extension %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	if err := validateScenario(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return scenario, nil
}

func parseYAML(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Budget < 0 {
		return fmt.Errorf("budget must be positive")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	if s.Notifications != nil && *s.Notifications < 0 {
		return fmt.Errorf("notifications must be non-negative")
	}

	for i, step := range s.Steps {
		path := fmt.Sprintf("steps[%d]", i)
		switch {
		case step.Dispatch != nil && step.Speculate != nil:
			return fmt.Errorf("%s: dispatch and speculate are mutually exclusive", path)
		case step.Dispatch != nil:
			if err := validateDispatch(path, step.Dispatch); err != nil {
				return err
			}
		case step.Speculate != nil:
			if err := validateSpeculate(path+".speculate", step.Speculate, true); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%s: one of dispatch or speculate is required", path)
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, a); err != nil {
			return err
		}
	}
	return nil
}

func validateDispatch(path string, d *DispatchStep) error {
	switch d.Type {
	case "PUSH":
	case "POP":
		if d.Value != nil {
			return fmt.Errorf("%s: POP takes no value", path)
		}
	default:
		return fmt.Errorf("%s: unknown action type %q", path, d.Type)
	}
	return nil
}

func validateSpeculate(path string, s *SpeculateStep, topLevel bool) error {
	if !topLevel && s.Expect != nil {
		return fmt.Errorf("%s: expect is only allowed on top-level steps", path)
	}

	for i, op := range s.Ops {
		opPath := fmt.Sprintf("%s.ops[%d]", path, i)

		set := 0
		if op.Push != nil {
			set++
		}
		if op.Pop {
			set++
		}
		if op.PushUntil != nil {
			set++
			if op.PushUntil.Length < 0 {
				return fmt.Errorf("%s: push_until length must be non-negative", opPath)
			}
			if op.PushUntil.Budget < 0 {
				return fmt.Errorf("%s: push_until budget must be positive", opPath)
			}
		}
		if op.Speculate != nil {
			set++
			if err := validateSpeculate(opPath+".speculate", op.Speculate, false); err != nil {
				return err
			}
		}
		if op.Fail != "" {
			set++
		}
		if set != 1 {
			return fmt.Errorf("%s: exactly one of push, pop, push_until, speculate, fail is required", opPath)
		}
	}
	return nil
}

func validateAssertion(index int, a Assertion) error {
	switch a.Type {
	case AssertTraceCount:
		if a.Kind == "" {
			return fmt.Errorf("assertions[%d]: kind is required for trace_count", index)
		}
		if !journal.Kind(a.Kind).Valid() {
			return fmt.Errorf("assertions[%d]: unknown entry kind %q", index, a.Kind)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertTraceOrder:
		if len(a.Kinds) == 0 {
			return fmt.Errorf("assertions[%d]: kinds list is required for trace_order", index)
		}
		for _, k := range a.Kinds {
			if !journal.Kind(k).Valid() {
				return fmt.Errorf("assertions[%d]: unknown entry kind %q", index, k)
			}
		}
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}

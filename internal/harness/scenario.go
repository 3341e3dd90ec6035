package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/pschichtel/VirtualScanner/internal/ir"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Config holds vscan config keys applied over the defaults.
	// The layout key is not allowed; use Layout or LayoutFile.
	Config map[string]any `yaml:"config,omitempty"`

	// Layout is an inline layout file in the KEY=SPEC line format.
	Layout string `yaml:"layout,omitempty"`

	// LayoutFile is a layout file path, relative to the scenario file.
	LayoutFile string `yaml:"layout_file,omitempty"`

	// Direct selects the all-or-nothing layout compile path.
	Direct bool `yaml:"direct,omitempty"`

	// FailOn makes the injector reject this key code.
	FailOn int `yaml:"fail_on,omitempty"`

	// Steps are the detections fed to the engine, in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the whole run.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one detection. Content is shorthand for a single result;
// Contents lists several. With neither, the detection is empty.
type Step struct {
	Content  *string  `yaml:"content,omitempty"`
	Contents []string `yaml:"contents,omitempty"`

	// Expect specifies the expected scan record.
	// If nil, no validation is performed.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// contents returns the detection contents of the step.
func (s Step) contents() []string {
	if s.Content != nil {
		return []string{*s.Content}
	}
	return s.Contents
}

// ExpectClause specifies the expected scan record.
type ExpectClause struct {
	// Outcome is the expected outcome.
	Outcome ir.Outcome `yaml:"outcome"`

	// Canonical is the expected canonical event list, if set.
	Canonical *string `yaml:"canonical,omitempty"`

	// Unresolved lists the expected dropped keys, if set.
	Unresolved []string `yaml:"unresolved,omitempty"`

	// Error is a substring the recorded error must contain, if set.
	Error string `yaml:"error,omitempty"`
}

// Assertion validates the whole run.
type Assertion struct {
	// Type specifies the assertion type:
	// - "injected": canonical form of all injected events
	// - "outcome_order": outcomes appear in order
	// - "outcome_count": history holds Count scans with Outcome
	// - "history_count": history holds Count scans
	// - "balanced": every pressed key was released
	Type string `yaml:"type"`

	// Canonical is the expected injected stream (used by injected).
	Canonical string `yaml:"canonical,omitempty"`

	// Outcome is the outcome to count (used by outcome_count).
	Outcome ir.Outcome `yaml:"outcome,omitempty"`

	// Outcomes is the expected outcome order (used by outcome_order).
	Outcomes []ir.Outcome `yaml:"outcomes,omitempty"`

	// Count is the expected number of scans.
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertInjected     = "injected"
	AssertOutcomeOrder = "outcome_order"
	AssertOutcomeCount = "outcome_count"
	AssertHistoryCount = "history_count"
	AssertBalanced     = "balanced"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving layout_file relative to basePath.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.LayoutFile != "" && !filepath.IsAbs(scenario.LayoutFile) && basePath != "" {
		scenario.LayoutFile = filepath.Join(basePath, scenario.LayoutFile)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	if _, ok := s.Config["layout"]; ok {
		return fmt.Errorf("config: layout is not allowed, use layout or layout_file")
	}

	if s.Layout != "" && s.LayoutFile != "" {
		return fmt.Errorf("layout and layout_file are mutually exclusive")
	}

	if s.LayoutFile != "" {
		if _, err := os.Stat(s.LayoutFile); os.IsNotExist(err) {
			return fmt.Errorf("layout file not found: %s", s.LayoutFile)
		}
	}

	for i, step := range s.Steps {
		if step.Content != nil && len(step.Contents) > 0 {
			return fmt.Errorf("steps[%d]: content and contents are mutually exclusive", i)
		}
		if step.Expect != nil && !validOutcome(step.Expect.Outcome) {
			return fmt.Errorf("steps[%d].expect: unknown outcome %q", i, step.Expect.Outcome)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertInjected, AssertBalanced:
	case AssertOutcomeOrder:
		if len(a.Outcomes) == 0 {
			return fmt.Errorf("assertions[%d]: outcomes list is required for outcome_order", index)
		}
		for _, o := range a.Outcomes {
			if !validOutcome(o) {
				return fmt.Errorf("assertions[%d]: unknown outcome %q", index, o)
			}
		}
	case AssertOutcomeCount:
		if !validOutcome(a.Outcome) {
			return fmt.Errorf("assertions[%d]: unknown outcome %q", index, a.Outcome)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for outcome_count", index)
		}
	case AssertHistoryCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for history_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}

func validOutcome(o ir.Outcome) bool {
	for _, known := range ir.Outcomes {
		if o == known {
			return true
		}
	}
	return false
}

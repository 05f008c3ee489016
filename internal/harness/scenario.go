package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/eventdash/internal/ir"
)

// Scenario is a scripted interaction with one dashboard session.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Trigger is the pointer kind the session responds to. Empty means click.
	Trigger string `yaml:"trigger,omitempty"`

	// Controls override the default controls when the session is created.
	Controls map[string]string `yaml:"controls,omitempty"`

	// Steps are applied in order.
	Steps []Step `yaml:"steps"`

	// Assertions check the session state after the last step.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one user interaction: either a control change or a pointer event.
type Step struct {
	// Set names the control to change.
	Set string `yaml:"set,omitempty"`

	// Value is the new control value (used with Set).
	Value string `yaml:"value,omitempty"`

	// Point is a pointer event on a plotted element.
	Point *ir.PointerEvent `yaml:"point,omitempty"`

	// Expect describes the expected outcome. If nil the step must succeed.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies the expected outcome of a step.
// Only the fields that are set are checked.
type ExpectClause struct {
	// Error is the expected rule error code (e.g. "INVALID_SELECTION").
	// Empty means the step must succeed.
	Error string `yaml:"error,omitempty"`

	// Ignored expects the pointer event to be dropped (or not).
	Ignored *bool `yaml:"ignored,omitempty"`

	// Recomputed is the exact list of artifacts recomputed, in order.
	Recomputed []string `yaml:"recomputed,omitempty"`

	// Failures maps artifacts to the error code they failed with.
	// Artifacts not listed must not fail.
	Failures map[string]string `yaml:"failures,omitempty"`
}

// Assertion checks one fact about the final session state.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Artifact names the artifact (all types except revision and control).
	Artifact string `yaml:"artifact,omitempty"`

	// Control and Value are used by control.
	Control string `yaml:"control,omitempty"`
	Value   string `yaml:"value,omitempty"`

	// Kind is used by artifact_kind.
	Kind string `yaml:"kind,omitempty"`

	// Title is used by title.
	Title string `yaml:"title,omitempty"`

	// Code is used by failure.
	Code string `yaml:"code,omitempty"`

	// Count is used by point_count and recompute_count.
	Count int `yaml:"count,omitempty"`

	// Revision is used by revision.
	Revision int64 `yaml:"revision,omitempty"`
}

// Assertion type constants.
const (
	AssertRevision       = "revision"
	AssertControl        = "control"
	AssertArtifactKind   = "artifact_kind"
	AssertTitle          = "title"
	AssertPointCount     = "point_count"
	AssertFailure        = "failure"
	AssertRecomputeCount = "recompute_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict fields catch typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// FindScenarios returns the .yaml and .yml files under dir, sorted.
// A non-empty filter is a glob matched against the file name without its
// extension.
func FindScenarios(dir, filter string) ([]string, error) {
	var files []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(path), ext)
			matched, err := filepath.Match(filter, name)
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})
	sort.Strings(files)
	return files, err
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if _, err := ir.ParsePointerKind(s.Trigger); err != nil {
		return fmt.Errorf("trigger: %w", err)
	}

	for name := range s.Controls {
		if _, err := ir.ParseControlName(name); err != nil {
			return fmt.Errorf("controls: %w", err)
		}
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		switch {
		case step.Set != "" && step.Point != nil:
			return fmt.Errorf("steps[%d]: set and point are mutually exclusive", i)
		case step.Set != "":
			if _, err := ir.ParseControlName(step.Set); err != nil {
				return fmt.Errorf("steps[%d]: %w", i, err)
			}
		case step.Point != nil:
			if step.Point.Source == "" {
				return fmt.Errorf("steps[%d]: point source is required", i)
			}
		default:
			return fmt.Errorf("steps[%d]: one of set or point is required", i)
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
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
	case AssertRevision:
		if a.Revision <= 0 {
			return fmt.Errorf("assertions[%d]: revision must be positive", index)
		}
		return nil
	case AssertControl:
		if _, err := ir.ParseControlName(a.Control); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
		return nil
	case AssertArtifactKind, AssertTitle, AssertPointCount, AssertFailure, AssertRecomputeCount:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	if a.Artifact == "" {
		return fmt.Errorf("assertions[%d]: artifact is required for %s", index, a.Type)
	}
	switch a.Type {
	case AssertArtifactKind:
		if a.Kind == "" {
			return fmt.Errorf("assertions[%d]: kind is required for artifact_kind", index)
		}
	case AssertFailure:
		if a.Code == "" {
			return fmt.Errorf("assertions[%d]: code is required for failure", index)
		}
	case AssertPointCount, AssertRecomputeCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	}
	return nil
}

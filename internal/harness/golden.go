package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/eventdash/internal/engine"
	"github.com/roach88/eventdash/internal/ir"
)

// GoldenDir is the directory, next to the scenario files, holding golden
// traces.
const GoldenDir = "golden"

// TraceSnapshot captures the complete trace for a scenario execution.
type TraceSnapshot struct {
	ScenarioName string       `json:"scenario_name"`
	Trigger      string       `json:"trigger"`
	Trace        []TraceEvent `json:"trace"`
}

// toCanonicalMap converts a TraceSnapshot to a map[string]any for canonical
// JSON serialization. Empty fields are left out.
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	traceList := make([]any, len(s.Trace))
	for i, ev := range s.Trace {
		m := map[string]any{
			"seq":      ev.Seq,
			"op":       ev.Op,
			"revision": ev.Revision,
		}
		if ev.Session != "" {
			m["session"] = ev.Session
		}
		switch ev.Op {
		case OpSet:
			m["control"] = ev.Control
			m["value"] = ev.Value
		case OpPoint:
			m["source"] = ev.Source
			m["kind"] = ev.Kind
			m["curve_number"] = ev.CurveNumber
			m["point_number"] = ev.PointNumber
		}
		if ev.Ignored {
			m["ignored"] = true
		}
		if ev.Error != "" {
			m["error"] = ev.Error
		}
		if len(ev.Recomputed) > 0 {
			m["recomputed"] = ev.Recomputed
		}
		if len(ev.Failures) > 0 {
			m["failures"] = stringMap(ev.Failures)
		}
		if len(ev.Titles) > 0 {
			m["titles"] = stringMap(ev.Titles)
		}
		if len(ev.Points) > 0 {
			points := make(map[string]any, len(ev.Points))
			for k, v := range ev.Points {
				points[k] = v
			}
			m["points"] = points
		}
		traceList[i] = m
	}

	return map[string]any{
		"scenario_name": s.ScenarioName,
		"trigger":       s.Trigger,
		"trace":         traceList,
	}
}

func stringMap(m map[string]string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Snapshot serializes a scenario's trace as canonical JSON.
func Snapshot(scenario *Scenario, result *Result) ([]byte, error) {
	trigger, err := ir.ParsePointerKind(scenario.Trigger)
	if err != nil {
		return nil, err
	}
	snapshot := TraceSnapshot{
		ScenarioName: scenario.Name,
		Trigger:      string(trigger),
		Trace:        result.Trace,
	}
	return ir.MarshalCanonical(snapshot.toCanonicalMap())
}

// GoldenPath returns the golden file for a scenario file:
// <dir>/golden/<basename>.golden.
func GoldenPath(scenarioFile string) string {
	base := filepath.Base(scenarioFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(scenarioFile), GoldenDir, name+".golden")
}

// WriteGolden writes the scenario's trace as its golden file.
func WriteGolden(scenarioFile string, scenario *Scenario, result *Result) error {
	data, err := Snapshot(scenario, result)
	if err != nil {
		return fmt.Errorf("failed to marshal trace: %w", err)
	}

	path := GoldenPath(scenarioFile)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	return nil
}

// CompareGolden reports whether the scenario's trace matches its golden
// file byte for byte. A missing golden file is an os.ErrNotExist error.
func CompareGolden(scenarioFile string, scenario *Scenario, result *Result) (bool, error) {
	want, err := os.ReadFile(GoldenPath(scenarioFile))
	if err != nil {
		return false, err
	}
	got, err := Snapshot(scenario, result)
	if err != nil {
		return false, fmt.Errorf("failed to marshal trace: %w", err)
	}
	return string(want) == string(got), nil
}

// RunWithGolden executes a scenario and compares the trace against
// fixtureDir/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, g *engine.Graph, scenario *Scenario, fixtureDir string) (*Result, error) {
	t.Helper()

	result, err := Run(g, scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario, result, fixtureDir); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an already computed result against its golden file.
func AssertGolden(t *testing.T, scenario *Scenario, result *Result, fixtureDir string) error {
	t.Helper()

	traceJSON, err := Snapshot(scenario, result)
	if err != nil {
		return err
	}

	gd := goldie.New(t,
		goldie.WithFixtureDir(fixtureDir),
		goldie.WithNameSuffix(".golden"),
	)
	gd.Assert(t, scenario.Name, traceJSON)
	return nil
}

// Package harness replays scripted dashboard interactions against a live
// session and checks the outcome.
//
// The harness drives the same session.Manager the HTTP server uses, so a
// scenario exercises the real recomputation rules, dependency graph and
// last-good-artifact policy.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: drill_follows_click
//	description: "Clicking a run in the scatter drills into that run"
//	trigger: click            # optional, click (default) or hover
//	controls:                 # optional overrides of the default controls
//	  x: E1
//	steps:
//	  - set: run_filter
//	    value: "148031"
//	    expect:
//	      recomputed: [histogram, heatmap]
//	      failures: { heatmap: INSUFFICIENT_DATA }
//	  - point: { source: scatter, kind: click, curve_number: 1 }
//	  - set: x
//	    value: nope
//	    expect: { error: INVALID_SELECTION }
//	assertions:
//	  - type: title
//	    artifact: drill
//	    title: "E1 vs E2 for Run 146436"
//
// A step without an expect clause must succeed.
//
// # Assertion Types
//
//   - revision: the final session revision
//   - control: the final value of a control
//   - artifact_kind: the kind of an artifact's last good version
//   - title: the title of an artifact's last good version
//   - point_count: plotted points across an artifact's series
//   - failure: the error code of an artifact's last failed recompute
//   - recompute_count: how many times an artifact was recomputed
//
// # Deterministic Traces
//
// Each run uses a fresh Manager with testutil.DeterministicClock revisions
// and testutil.SequentialIDGenerator session IDs, so the trace of a scenario
// is byte-identical across runs. The trace holds only strings, integers and
// booleans and is serialized with ir.MarshalCanonical for golden comparison.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/drill.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(graph, scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, e := range result.Errors {
//	        log.Println(e)
//	    }
//	}
package harness

// Package harness runs conformance scenarios against the real scan engine.
//
// A scenario feeds detections through engine.Engine with a recording
// injector and an in-memory history store, then checks the per-step
// expectations and the scenario-level assertions.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	config:              # optional, same keys as the vscan config file
//	  envelope: "{F1}{CONTENT}"
//	layout: |            # optional inline layout file
//	  x=+65-66~67
//	layout_file: us.txt  # optional, relative to the scenario file
//	direct: false        # use the all-or-nothing layout path
//	fail_on: 0           # make the injector reject this key code
//	steps:
//	  - content: "ab"
//	    expect:
//	      outcome: typed
//	      canonical: "~65~66"
//	  - contents: ["a", "b"]
//	    expect:
//	      outcome: ambiguous
//	assertions:
//	  - type: injected
//	    canonical: "~65~66"
//	  - type: outcome_count
//	    outcome: typed
//	    count: 1
//
// # Assertion Types
//
//   - injected: the whole event stream seen by the injector, canonicalized
//   - outcome_order: outcomes appear in this order (not necessarily adjacent)
//   - outcome_count: the history holds exactly count scans with outcome
//   - history_count: the history holds exactly count scans
//   - balanced: every pressed key was released
//
// # Deterministic Testing
//
// Scan IDs come from engine.SequentialGenerator, recorded_at from
// testutil.DeterministicTime, and seq from a fresh engine clock, so the
// trace of a scenario is byte-identical across runs and can be compared
// against a golden file.
package harness

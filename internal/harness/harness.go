package harness

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pschichtel/VirtualScanner/internal/config"
	"github.com/pschichtel/VirtualScanner/internal/engine"
	"github.com/pschichtel/VirtualScanner/internal/inject"
	"github.com/pschichtel/VirtualScanner/internal/ir"
	"github.com/pschichtel/VirtualScanner/internal/layout"
	"github.com/pschichtel/VirtualScanner/internal/source"
	"github.com/pschichtel/VirtualScanner/internal/store"
	"github.com/pschichtel/VirtualScanner/internal/testutil"
)

// SourceName is the detection source recorded for scenario steps.
const SourceName = "scenario"

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database with a recording
// injector, so nothing is typed on the host.
//
// Execution flow:
//  1. Build the compiler from the scenario config and layout
//  2. Feed every step to the engine as one detection
//  3. Check each step's expect clause against its scan record
//  4. Evaluate the assertions against the injected events and history
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	c, cfg, err := buildCompiler(scenario)
	if err != nil {
		return nil, err
	}

	recorder := &inject.Recorder{FailOn: scenario.FailOn}
	clock := testutil.NewDeterministicTime(testutil.DefaultStart, time.Second)
	eng := engine.New(c, inject.NewEmitter(recorder, inject.WithEventDelay(0)),
		engine.WithHistory(st),
		engine.WithIDGenerator(engine.NewSequentialGenerator("scan")),
		engine.WithNow(clock.Now),
		engine.WithUnicodeNormalization(cfg.NormalizeUnicode),
		engine.WithLogger(zap.NewNop()),
	)

	ctx := context.Background()
	result := NewResult()
	for i, step := range scenario.Steps {
		// Scan failures are outcomes under test; they are in the record.
		rec, _ := eng.Process(ctx, source.Detection{Source: SourceName, Contents: step.contents()})
		result.Trace = append(result.Trace, traceEvent(rec))
		if step.Expect != nil {
			for _, msg := range checkExpect(i, step.Expect, rec) {
				result.AddError(msg)
			}
		}
	}

	events := recorder.Events()
	result.Injected = ir.Canonicalize(events)

	actx := &AssertionContext{
		Store:  st,
		Ctx:    ctx,
		Events: events,
	}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	return result, nil
}

func buildCompiler(scenario *Scenario) (engine.Compiler, config.Config, error) {
	cfg, err := config.Decode(scenario.Config)
	if err != nil {
		return nil, cfg, fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, cfg, err
	}

	var l *layout.Layout
	switch {
	case scenario.Layout != "":
		l, err = layout.ParseLayoutFile(strings.NewReader(scenario.Layout))
	case scenario.LayoutFile != "":
		l, err = layout.LoadFile(scenario.LayoutFile)
	}
	if err != nil {
		return nil, cfg, fmt.Errorf("failed to load layout: %w", err)
	}

	if scenario.Direct {
		opts, err := cfg.DirectOptions(l)
		if err != nil {
			return nil, cfg, err
		}
		return engine.DirectCompiler{Options: opts}, cfg, nil
	}
	return engine.MacroCompiler{Options: cfg.CompileOptions(l)}, cfg, nil
}

// checkExpect compares a scan record against the step's expect clause.
func checkExpect(index int, expect *ExpectClause, rec ir.ScanRecord) []string {
	var errs []string
	if rec.Outcome != expect.Outcome {
		errs = append(errs, fmt.Sprintf("steps[%d]: expected outcome %s, got %s (%s)", index, expect.Outcome, rec.Outcome, rec.Error))
	}
	if expect.Canonical != nil && rec.Canonical != *expect.Canonical {
		errs = append(errs, fmt.Sprintf("steps[%d]: expected events %q, got %q", index, *expect.Canonical, rec.Canonical))
	}
	if expect.Unresolved != nil && strings.Join(rec.Unresolved, " ") != strings.Join(expect.Unresolved, " ") {
		errs = append(errs, fmt.Sprintf("steps[%d]: expected unresolved %v, got %v", index, expect.Unresolved, rec.Unresolved))
	}
	if expect.Error != "" && !strings.Contains(rec.Error, expect.Error) {
		errs = append(errs, fmt.Sprintf("steps[%d]: expected error containing %q, got %q", index, expect.Error, rec.Error))
	}
	return errs
}

package harness

import (
	"context"
	"fmt"
	"strings"

	"github.com/pschichtel/VirtualScanner/internal/ir"
	"github.com/pschichtel/VirtualScanner/internal/store"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, event := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] %s %q %s\n", event.Seq, event.Outcome, event.Content, event.Canonical)
	}

	return buf.String()
}

// AssertionContext provides what assertions need beyond the trace.
type AssertionContext struct {
	Store  *store.Store
	Ctx    context.Context
	Events []ir.KeyEvent
}

// EvaluateAssertions runs all assertions and returns the failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errs []string
	for _, a := range assertions {
		if err := evaluateAssertion(result, a, actx); err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

func evaluateAssertion(result *Result, a Assertion, actx *AssertionContext) error {
	switch a.Type {
	case AssertInjected:
		return assertInjected(result, a)
	case AssertOutcomeOrder:
		return assertOutcomeOrder(result.Trace, a)
	case AssertOutcomeCount:
		return assertOutcomeCount(result.Trace, a, actx)
	case AssertHistoryCount:
		return assertHistoryCount(result.Trace, a, actx)
	case AssertBalanced:
		return assertBalanced(result.Trace, actx)
	default:
		return fmt.Errorf("unknown assertion type: %s", a.Type)
	}
}

// assertInjected compares the canonical form of every injected event.
func assertInjected(result *Result, a Assertion) error {
	if result.Injected == a.Canonical {
		return nil
	}
	return &AssertionError{
		Type:     AssertInjected,
		Expected: fmt.Sprintf("%q", a.Canonical),
		Actual:   fmt.Sprintf("%q", result.Injected),
		Trace:    result.Trace,
	}
}

// assertOutcomeOrder checks that the outcomes appear in order.
// They don't need to be consecutive (intervening scans are allowed).
func assertOutcomeOrder(trace []TraceEvent, a Assertion) error {
	next := 0
	for _, event := range trace {
		if next < len(a.Outcomes) && event.Outcome == a.Outcomes[next] {
			next++
		}
	}
	if next == len(a.Outcomes) {
		return nil
	}

	actual := make([]string, len(trace))
	for i, event := range trace {
		actual[i] = string(event.Outcome)
	}
	return &AssertionError{
		Type:     AssertOutcomeOrder,
		Expected: fmt.Sprintf("outcomes in order: %v", a.Outcomes),
		Actual:   fmt.Sprintf("missing %s after %v", a.Outcomes[next], actual),
		Trace:    trace,
	}
}

// assertOutcomeCount counts recorded scans with the outcome.
func assertOutcomeCount(trace []TraceEvent, a Assertion, actx *AssertionContext) error {
	counts, err := actx.Store.CountByOutcome(actx.Ctx)
	if err != nil {
		return fmt.Errorf("outcome_count: %w", err)
	}
	if counts[a.Outcome] == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertOutcomeCount,
		Expected: fmt.Sprintf("%d scan(s) with outcome %s", a.Count, a.Outcome),
		Actual:   fmt.Sprintf("%d", counts[a.Outcome]),
		Trace:    trace,
	}
}

// assertHistoryCount counts all recorded scans.
func assertHistoryCount(trace []TraceEvent, a Assertion, actx *AssertionContext) error {
	scans, err := actx.Store.ReadScans(actx.Ctx, 0)
	if err != nil {
		return fmt.Errorf("history_count: %w", err)
	}
	if len(scans) == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertHistoryCount,
		Expected: fmt.Sprintf("%d scan(s)", a.Count),
		Actual:   fmt.Sprintf("%d", len(scans)),
		Trace:    trace,
	}
}

// assertBalanced checks that no key was left pressed.
func assertBalanced(trace []TraceEvent, actx *AssertionContext) error {
	if ir.Balanced(actx.Events) {
		return nil
	}
	return &AssertionError{
		Type:     AssertBalanced,
		Expected: "every pressed key released",
		Actual:   ir.Canonicalize(actx.Events),
		Trace:    trace,
	}
}

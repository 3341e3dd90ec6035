package harness

import "github.com/pschichtel/VirtualScanner/internal/ir"

// TraceEvent is one processed detection.
type TraceEvent struct {
	Seq        int64      `json:"seq"`
	Content    string     `json:"content,omitempty"`
	Outcome    ir.Outcome `json:"outcome"`
	Canonical  string     `json:"canonical,omitempty"`
	EventCount int        `json:"event_count,omitempty"`
	Unresolved []string   `json:"unresolved,omitempty"`
	Error      string     `json:"error,omitempty"`
}

func traceEvent(rec ir.ScanRecord) TraceEvent {
	return TraceEvent{
		Seq:        rec.Seq,
		Content:    rec.Content,
		Outcome:    rec.Outcome,
		Canonical:  rec.Canonical,
		EventCount: rec.EventCount,
		Unresolved: rec.Unresolved,
		Error:      rec.Error,
	}
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: every expect clause and assertion
	// matched.
	Pass bool `json:"pass"`

	// Trace contains one event per step, in order.
	Trace []TraceEvent `json:"trace"`

	// Injected is the canonical form of every event the injector received.
	Injected string `json:"injected"`

	// Errors contains validation error messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

package ir

import "time"

// Outcome classifies what happened to one detection.
type Outcome string

const (
	// OutcomeTyped means the content was compiled and injected.
	OutcomeTyped Outcome = "typed"
	// OutcomeNone means the trigger produced no content.
	OutcomeNone Outcome = "none"
	// OutcomeAmbiguous means the trigger produced several contents and
	// none was typed.
	OutcomeAmbiguous Outcome = "ambiguous"
	// OutcomeNotUnderstood means the content could not be compiled.
	OutcomeNotUnderstood Outcome = "not_understood"
	// OutcomeInjectionFailed means the injector rejected an event.
	OutcomeInjectionFailed Outcome = "injection_failed"
	// OutcomeCancelled means emission was interrupted by shutdown.
	OutcomeCancelled Outcome = "cancelled"
)

// Outcomes lists all outcomes in display order.
var Outcomes = []Outcome{
	OutcomeTyped,
	OutcomeNone,
	OutcomeAmbiguous,
	OutcomeNotUnderstood,
	OutcomeInjectionFailed,
	OutcomeCancelled,
}

// ScanRecord is the history entry for one processed detection.
// Seq comes from the engine's logical clock and orders records;
// RecordedAt is informational only.
type ScanRecord struct {
	ID          string    `json:"id"`
	Seq         int64     `json:"seq"`
	Source      string    `json:"source"`
	Content     string    `json:"content"`
	ContentHash string    `json:"content_hash,omitempty"`
	Outcome     Outcome   `json:"outcome"`
	Canonical   string    `json:"canonical,omitempty"`
	EventCount  int       `json:"event_count"`
	Unresolved  []string  `json:"unresolved,omitempty"`
	Error       string    `json:"error,omitempty"`
	RecordedAt  time.Time `json:"recorded_at"`
}

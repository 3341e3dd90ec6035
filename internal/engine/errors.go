package engine

import (
	"fmt"

	"github.com/pschichtel/VirtualScanner/internal/ir"
)

// ScanError reports a detection that was not typed.
type ScanError struct {
	ScanID  string
	Outcome ir.Outcome
	Err     error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan %s: %s: %v", e.ScanID, e.Outcome, e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

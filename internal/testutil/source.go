package testutil

import (
	"context"

	"github.com/pschichtel/VirtualScanner/internal/source"
)

// ScriptedSource is a source.Source that emits a fixed list of detections
// and returns. It stands in for the clipboard and stdin sources in tests.
type ScriptedSource struct {
	name       string
	detections [][]string
}

// NewScriptedSource creates a source named name emitting one detection
// per element of detections.
func NewScriptedSource(name string, detections ...[]string) *ScriptedSource {
	return &ScriptedSource{name: name, detections: detections}
}

// Name implements source.Source.
func (s *ScriptedSource) Name() string {
	return s.name
}

// Run implements source.Source. It stops early when ctx is cancelled.
func (s *ScriptedSource) Run(ctx context.Context, emit func(source.Detection)) error {
	for _, contents := range s.detections {
		if err := ctx.Err(); err != nil {
			return err
		}
		emit(source.Detection{Source: s.name, Contents: contents})
	}
	return nil
}

// Package source produces detections: the decoded contents a trigger
// (clipboard change, input line, barcode scan) hands to the engine.
package source

import "context"

// Detection is the outcome of one trigger. Contents holds every decoded
// value; the engine only types detections with exactly one.
type Detection struct {
	Source   string
	Contents []string
}

// Source runs until ctx is done or the input is exhausted, calling emit
// once per detection. emit must not block for long.
type Source interface {
	Name() string
	Run(ctx context.Context, emit func(Detection)) error
}

// Decoder extracts barcode contents from an image. Implementations live
// outside this module.
type Decoder interface {
	Decode(ctx context.Context, image []byte) ([][]byte, error)
}

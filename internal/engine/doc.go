// Package engine serializes detections into keystrokes.
//
// Triggers (clipboard, stdin, HTTP, a barcode decoder) run concurrently
// and Enqueue detections. A single Run goroutine takes them in FIFO order
// and, for each one, compiles the content, emits the events and writes a
// history record. Keystrokes from two detections therefore never
// interleave.
//
// Failures are logged and recorded, then the loop moves on to the next
// detection. Nothing is retried.
//
// Records are stamped with a logical sequence number from Clock, which
// orders history independently of wall-clock time.
package engine

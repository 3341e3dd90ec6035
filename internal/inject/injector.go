package inject

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/pschichtel/VirtualScanner/internal/ir"
)

// ErrUnsupportedPlatform is returned by backends that cannot run on the
// current operating system.
var ErrUnsupportedPlatform = errors.New("keystroke injection is not supported on this platform")

// ErrUnknownKey is returned by backends for codes they cannot map.
var ErrUnknownKey = errors.New("unknown key code")

// Injector presses and releases single keys.
type Injector interface {
	PressKey(code int) error
	ReleaseKey(code int) error
}

// CharCoder is implemented by backends that can look up a key code for a
// character not covered by the built-in tables.
type CharCoder interface {
	CodeForChar(r rune) (int, bool)
}

// InjectionError reports the event a backend rejected.
type InjectionError struct {
	Index int
	Event ir.KeyEvent
	Err   error
}

func (e *InjectionError) Error() string {
	return fmt.Sprintf("unable to emit key stroke (%d, %s) at event %d: %v", e.Event.Code, e.Event.Phase, e.Index, e.Err)
}

func (e *InjectionError) Unwrap() error {
	return e.Err
}

// Recorder is an Injector that keeps every event in memory.
// It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []ir.KeyEvent
	// FailOn makes PressKey and ReleaseKey fail for this code when non-zero.
	FailOn int
}

// PressKey implements Injector.
func (r *Recorder) PressKey(code int) error {
	return r.record(ir.PressOf(code))
}

// ReleaseKey implements Injector.
func (r *Recorder) ReleaseKey(code int) error {
	return r.record(ir.ReleaseOf(code))
}

func (r *Recorder) record(e ir.KeyEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailOn != 0 && e.Code == r.FailOn {
		return fmt.Errorf("%w: %d", ErrUnknownKey, e.Code)
	}
	r.events = append(r.events, e)
	return nil
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []ir.KeyEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ir.KeyEvent(nil), r.events...)
}

// Reset forgets all recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// DryRun writes each event as a canonical token on its own line instead
// of typing it.
type DryRun struct {
	W io.Writer
}

// PressKey implements Injector.
func (d *DryRun) PressKey(code int) error {
	_, err := fmt.Fprintln(d.W, ir.PressOf(code))
	return err
}

// ReleaseKey implements Injector.
func (d *DryRun) ReleaseKey(code int) error {
	_, err := fmt.Fprintln(d.W, ir.ReleaseOf(code))
	return err
}

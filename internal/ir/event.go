package ir

import "fmt"

// Phase is the direction of a key event.
type Phase int

const (
	// Press pushes the key down.
	Press Phase = iota + 1
	// Release lets the key up.
	Release
)

// String returns the phase name used in layout files.
func (p Phase) String() string {
	switch p {
	case Press:
		return "Pressed"
	case Release:
		return "Released"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// MarshalText encodes the phase as "Pressed" or "Released".
func (p Phase) MarshalText() ([]byte, error) {
	switch p {
	case Press, Release:
		return []byte(p.String()), nil
	default:
		return nil, fmt.Errorf("invalid phase %d", int(p))
	}
}

// UnmarshalText accepts "Pressed"/"Released" and the short forms
// "press"/"release".
func (p *Phase) UnmarshalText(text []byte) error {
	switch string(text) {
	case "Pressed", "pressed", "press", "PRESSED":
		*p = Press
	case "Released", "released", "release", "RELEASED":
		*p = Release
	default:
		return fmt.Errorf("invalid phase %q: must be Pressed or Released", string(text))
	}
	return nil
}

// KeyEvent is one press or release of a key code.
type KeyEvent struct {
	Code  int   `json:"key" yaml:"key"`
	Phase Phase `json:"state" yaml:"state"`
}

// PressOf returns a press event for code.
func PressOf(code int) KeyEvent {
	return KeyEvent{Code: code, Phase: Press}
}

// ReleaseOf returns a release event for code.
func ReleaseOf(code int) KeyEvent {
	return KeyEvent{Code: code, Phase: Release}
}

// Tap returns press followed by release of code.
func Tap(code int) []KeyEvent {
	return []KeyEvent{PressOf(code), ReleaseOf(code)}
}

// Wrap returns press(mod), inner, release(mod).
func Wrap(mod int, inner []KeyEvent) []KeyEvent {
	out := make([]KeyEvent, 0, len(inner)+2)
	out = append(out, PressOf(mod))
	out = append(out, inner...)
	return append(out, ReleaseOf(mod))
}

// String renders the event in canonical token form.
func (e KeyEvent) String() string {
	if e.Phase == Release {
		return fmt.Sprintf("-%d", e.Code)
	}
	return fmt.Sprintf("+%d", e.Code)
}

// Balanced reports whether every press has a later matching release and
// no key is released while not held.
func Balanced(events []KeyEvent) bool {
	held := make(map[int]int)
	for _, e := range events {
		switch e.Phase {
		case Press:
			held[e.Code]++
		case Release:
			if held[e.Code] == 0 {
				return false
			}
			held[e.Code]--
		}
	}
	for _, n := range held {
		if n != 0 {
			return false
		}
	}
	return true
}

// Package inject replays key events through an operating system keystroke
// injection backend.
//
// The Emitter owns all pacing: an optional start delay before the first
// event and a fixed delay between events. Backends only press and release
// single key codes.
package inject

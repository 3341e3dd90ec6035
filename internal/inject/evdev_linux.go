//go:build linux

package inject

import (
	"fmt"
	"sync"

	"github.com/micmonay/keybd_event"

	"github.com/pschichtel/VirtualScanner/internal/vk"
)

// Evdev injects keys through a uinput virtual keyboard.
// The process needs write access to /dev/uinput. Freshly created devices
// take a moment to be picked up by the desktop, so callers should use a
// start delay.
type Evdev struct {
	mu sync.Mutex
	kb keybd_event.KeyBonding
}

// NewEvdev creates the virtual keyboard.
func NewEvdev() (*Evdev, error) {
	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return nil, fmt.Errorf("creating virtual keyboard: %w", err)
	}
	return &Evdev{kb: kb}, nil
}

// PressKey implements Injector.
func (d *Evdev) PressKey(code int) error {
	key, err := evdevCode(code)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.kb.SetKeys(key)
	return d.kb.Press()
}

// ReleaseKey implements Injector.
func (d *Evdev) ReleaseKey(code int) error {
	key, err := evdevCode(code)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.kb.SetKeys(key)
	return d.kb.Release()
}

// controlChars are control characters with a dedicated key on the virtual
// keyboard that the US character tables do not cover.
var controlChars = map[rune]int{
	'\x1b': vk.Escape,
	'\x7f': vk.Delete,
}

// CodeForChar implements CharCoder.
func (d *Evdev) CodeForChar(r rune) (int, bool) {
	code, ok := controlChars[r]
	if !ok {
		return 0, false
	}
	if _, err := evdevCode(code); err != nil {
		return 0, false
	}
	return code, true
}

func evdevCode(code int) (int, error) {
	if key, ok := evdevKeys[code]; ok {
		return key, nil
	}
	switch {
	case code >= vk.F1 && code <= vk.F1+9:
		return 59 + code - vk.F1, nil
	case code >= vk.F13 && code <= vk.F24:
		return 183 + code - vk.F13, nil
	}
	return 0, fmt.Errorf("%w: %d has no evdev equivalent", ErrUnknownKey, code)
}

// evdevKeys maps stable codes to linux input event codes.
var evdevKeys = map[int]int{
	vk.Escape: 1, vk.Digit0 + 1: 2, vk.Digit0 + 2: 3, vk.Digit0 + 3: 4,
	vk.Digit0 + 4: 5, vk.Digit0 + 5: 6, vk.Digit0 + 6: 7, vk.Digit0 + 7: 8,
	vk.Digit0 + 8: 9, vk.Digit0 + 9: 10, vk.Digit0: 11,
	vk.Minus: 12, vk.Equals: 13, vk.BackSpace: 14, vk.Tab: 15,
	'Q': 16, 'W': 17, 'E': 18, 'R': 19, 'T': 20, 'Y': 21, 'U': 22, 'I': 23, 'O': 24, 'P': 25,
	vk.OpenBracket: 26, vk.CloseBracket: 27, vk.Enter: 28, vk.Control: 29,
	'A': 30, 'S': 31, 'D': 32, 'F': 33, 'G': 34, 'H': 35, 'J': 36, 'K': 37, 'L': 38,
	vk.Semicolon: 39, vk.Quote: 40, vk.BackQuote: 41, vk.Shift: 42, vk.BackSlash: 43,
	'Z': 44, 'X': 45, 'C': 46, 'V': 47, 'B': 48, 'N': 49, 'M': 50,
	vk.Comma: 51, vk.Period: 52, vk.Slash: 53, vk.Alt: 56, vk.Space: 57, vk.CapsLock: 58,
	vk.F1 + 10: 87, vk.F12: 88,
	vk.AltGraph: 100, vk.Home: 102, vk.Up: 103, vk.PageUp: 104, vk.Left: 105,
	vk.Right: 106, vk.End: 107, vk.Down: 108, vk.PageDown: 109, vk.Insert: 110,
	vk.Delete: 111, vk.Windows: 125, vk.ContextMenu: 127,
}

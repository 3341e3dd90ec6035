package vk

// Modifier and editing keys.
const (
	BackSpace   = 0x08
	Tab         = 0x09
	Enter       = 0x0A
	Shift       = 0x10
	Control     = 0x11
	Alt         = 0x12
	CapsLock    = 0x14
	Escape      = 0x1B
	Space       = 0x20
	PageUp      = 0x21
	PageDown    = 0x22
	End         = 0x23
	Home        = 0x24
	Left        = 0x25
	Up          = 0x26
	Right       = 0x27
	Down        = 0x28
	Delete      = 0x7F
	Insert      = 0x9B
	Windows     = 0x20C
	ContextMenu = 0x20D
	AltGraph    = 0xFF7E
)

// Punctuation keys of the US layout.
const (
	Comma        = 0x2C
	Minus        = 0x2D
	Period       = 0x2E
	Slash        = 0x2F
	Semicolon    = 0x3B
	Equals       = 0x3D
	OpenBracket  = 0x5B
	BackSlash    = 0x5C
	CloseBracket = 0x5D
	BackQuote    = 0xC0
	Quote        = 0xDE
)

// Letter and digit ranges. A..Z and 0..9 equal their ASCII uppercase codes.
const (
	Digit0 = 0x30
	Digit9 = 0x39
	KeyA   = 0x41
	KeyZ   = 0x5A
)

// Function keys occupy two separate contiguous ranges.
const (
	F1  = 0x70
	F12 = 0x7B
	F13 = 0xF000
	F24 = 0xF00B
)

// FunctionKey returns the code of F<n> for 1 <= n <= 24.
func FunctionKey(n int) (int, bool) {
	switch {
	case n >= 1 && n <= 12:
		return F1 + n - 1, true
	case n >= 13 && n <= 24:
		return F13 + n - 13, true
	default:
		return 0, false
	}
}

// IsModifier reports whether code is a key that is normally held while
// other keys are typed.
func IsModifier(code int) bool {
	switch code {
	case Shift, Control, Alt, AltGraph, Windows:
		return true
	}
	return false
}

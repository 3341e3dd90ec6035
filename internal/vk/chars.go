package vk

import "github.com/pschichtel/VirtualScanner/internal/ir"

// plainChars are typed by a single key without modifiers.
var plainChars = map[rune]int{
	' ':  Space,
	'\n': Enter,
	'\r': Enter,
	'\t': Tab,
	'\b': BackSpace,
	',':  Comma,
	'-':  Minus,
	'.':  Period,
	'/':  Slash,
	';':  Semicolon,
	'=':  Equals,
	'[':  OpenBracket,
	'\\': BackSlash,
	']':  CloseBracket,
	'`':  BackQuote,
	'\'': Quote,
}

// shiftedChars need Shift held on a US layout.
var shiftedChars = map[rune]int{
	')': Digit0,
	'!': Digit0 + 1,
	'@': Digit0 + 2,
	'#': Digit0 + 3,
	'$': Digit0 + 4,
	'%': Digit0 + 5,
	'^': Digit0 + 6,
	'&': Digit0 + 7,
	'*': Digit0 + 8,
	'(': Digit0 + 9,
	'_': Minus,
	'+': Equals,
	'{': OpenBracket,
	'}': CloseBracket,
	'|': BackSlash,
	':': Semicolon,
	'"': Quote,
	'<': Comma,
	'>': Period,
	'?': Slash,
	'~': BackQuote,
}

// punctuationNames maps punctuation codes back to their unshifted character.
var punctuationNames = map[int]rune{
	Comma:        ',',
	Minus:        '-',
	Period:       '.',
	Slash:        '/',
	Semicolon:    ';',
	Equals:       '=',
	OpenBracket:  '[',
	BackSlash:    '\\',
	CloseBracket: ']',
	BackQuote:    '`',
	Quote:        '\'',
}

// CharEvents returns the key events typing r on a US layout.
// Uppercase letters and shifted punctuation are wrapped in Shift.
func CharEvents(r rune) ([]ir.KeyEvent, bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return ir.Tap(KeyA + int(r-'a')), true
	case r >= 'A' && r <= 'Z':
		return ir.Wrap(Shift, ir.Tap(KeyA+int(r-'A'))), true
	case r >= '0' && r <= '9':
		return ir.Tap(Digit0 + int(r-'0')), true
	}
	if code, ok := plainChars[r]; ok {
		return ir.Tap(code), true
	}
	if code, ok := shiftedChars[r]; ok {
		return ir.Wrap(Shift, ir.Tap(code)), true
	}
	return nil, false
}

// HasChar reports whether the built-in table can type r.
func HasChar(r rune) bool {
	_, ok := CharEvents(r)
	return ok
}

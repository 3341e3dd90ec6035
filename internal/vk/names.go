package vk

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pschichtel/VirtualScanner/internal/ir"
)

// namedKeys maps canonical uppercase names to codes.
var namedKeys = map[string]int{
	"ENTER":     Enter,
	"BACKSPACE": BackSpace,
	"SPACE":     Space,
	"CTRL":      Control,
	"SHIFT":     Shift,
	"ALT":       Alt,
	"ALTGR":     AltGraph,
	"CONTEXT":   ContextMenu,
	"WIN":       Windows,
	"TAB":       Tab,
	"ESC":       Escape,
	"DELETE":    Delete,
	"INSERT":    Insert,
	"HOME":      Home,
	"END":       End,
	"PAGEUP":    PageUp,
	"PAGEDOWN":  PageDown,
	"UP":        Up,
	"DOWN":      Down,
	"LEFT":      Left,
	"RIGHT":     Right,
	"CAPSLOCK":  CapsLock,
}

// aliases maps alternative spellings to canonical names.
var aliases = map[string]string{
	"RETURN":       "ENTER",
	"CR":           "ENTER",
	"BS":           "BACKSPACE",
	"BACK_SPACE":   "BACKSPACE",
	"CONTROL":      "CTRL",
	"ALT_GRAPH":    "ALTGR",
	"MENU":         "CONTEXT",
	"CONTEXT_MENU": "CONTEXT",
	"WINDOWS":      "WIN",
	"SUPER":        "WIN",
	"ESCAPE":       "ESC",
	"DEL":          "DELETE",
	"INS":          "INSERT",
	"PGUP":         "PAGEUP",
	"PGDN":         "PAGEDOWN",
}

// codeNames is the reverse of namedKeys.
var codeNames = func() map[int]string {
	m := make(map[int]string, len(namedKeys))
	for name, code := range namedKeys {
		m[code] = name
	}
	return m
}()

// Lookup returns the code for a symbolic key name. Matching is
// case-insensitive and accepts aliases and F1..F24.
func Lookup(name string) (int, bool) {
	upper := strings.ToUpper(name)
	if canonical, ok := aliases[upper]; ok {
		upper = canonical
	}
	if code, ok := namedKeys[upper]; ok {
		return code, true
	}
	if len(upper) >= 2 && upper[0] == 'F' {
		n, err := strconv.Atoi(upper[1:])
		if err == nil && upper[1] != '+' && upper[1] != '-' {
			return FunctionKey(n)
		}
	}
	return 0, false
}

// NamedEvents resolves a {NAME} token. Single-character names resolve as
// characters, so {a} and a type the same key.
func NamedEvents(name string) ([]ir.KeyEvent, bool) {
	if utf8.RuneCountInString(name) == 1 {
		r, _ := utf8.DecodeRuneInString(name)
		if events, ok := CharEvents(r); ok {
			return events, true
		}
	}
	code, ok := Lookup(name)
	if !ok {
		return nil, false
	}
	return ir.Tap(code), true
}

// Resolve returns the built-in event list for key, or nil when the key has
// no built-in mapping. Placeholders never resolve.
func Resolve(key ir.KeyIdentifier) []ir.KeyEvent {
	switch key.Kind {
	case ir.KindCode:
		return ir.Tap(key.Code)
	case ir.KindChar:
		events, _ := CharEvents(key.Char)
		return events
	case ir.KindNamed:
		events, _ := NamedEvents(key.Name)
		return events
	default:
		return nil
	}
}

// Name returns a display name for code.
func Name(code int) string {
	if name, ok := codeNames[code]; ok {
		return name
	}
	switch {
	case code >= KeyA && code <= KeyZ, code >= Digit0 && code <= Digit9:
		return string(rune(code))
	case code >= F1 && code <= F12:
		return fmt.Sprintf("F%d", code-F1+1)
	case code >= F13 && code <= F24:
		return fmt.Sprintf("F%d", code-F13+13)
	}
	if r, ok := punctuationNames[code]; ok {
		return string(r)
	}
	return strconv.Itoa(code)
}

// Names returns the canonical key names, sorted.
func Names() []string {
	names := make([]string, 0, len(namedKeys))
	for name := range namedKeys {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

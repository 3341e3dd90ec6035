package vk

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pschichtel/VirtualScanner/internal/ir"
)

func TestCharEvents(t *testing.T) {
	tests := []struct {
		name     string
		char     rune
		expected string
	}{
		{"lowercase", 'a', "~65"},
		{"lowercase z", 'z', "~90"},
		{"uppercase", 'A', "+16~65-16"},
		{"digit", '7', "~55"},
		{"space", ' ', "~32"},
		{"newline", '\n', "~10"},
		{"tab", '\t', "~9"},
		{"comma", ',', "~44"},
		{"exclamation", '!', "+16~49-16"},
		{"close paren", ')', "+16~48-16"},
		{"question", '?', "+16~47-16"},
		{"tilde", '~', "+16~192-16"},
		{"quote", '\'', "~222"},
		{"double quote", '"', "+16~222-16"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, ok := CharEvents(tt.char)
			assert.True(t, ok)
			assert.Equal(t, tt.expected, ir.Canonicalize(events))
		})
	}

	_, ok := CharEvents('ä')
	assert.False(t, ok)
	assert.False(t, HasChar('€'))
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name string
		code int
	}{
		{"ENTER", Enter},
		{"enter", Enter},
		{"Return", Enter},
		{"BACKSPACE", BackSpace},
		{"space", Space},
		{"CTRL", Control},
		{"control", Control},
		{"SHIFT", Shift},
		{"ALT", Alt},
		{"ALTGR", AltGraph},
		{"CONTEXT", ContextMenu},
		{"WIN", Windows},
		{"TAB", Tab},
		{"F1", 0x70},
		{"f12", 0x7B},
		{"F13", 0xF000},
		{"F24", 0xF00B},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := Lookup(tt.name)
			assert.True(t, ok)
			assert.Equal(t, tt.code, code)
		})
	}

	for _, name := range []string{"F0", "F25", "F", "F+1", "NOPE", ""} {
		_, ok := Lookup(name)
		assert.False(t, ok, name)
	}
}

func TestFunctionKeyRanges(t *testing.T) {
	for n := 1; n <= 24; n++ {
		code, ok := FunctionKey(n)
		assert.True(t, ok)
		if n <= 12 {
			assert.Equal(t, F1+n-1, code)
		} else {
			assert.Equal(t, F13+n-13, code)
		}
		assert.Equal(t, "F"+strconv.Itoa(n), Name(code))
	}
}

func TestResolve(t *testing.T) {
	assert.Equal(t, ir.Tap(999), Resolve(ir.CodeKey(999)))
	assert.Equal(t, ir.Tap(Enter), Resolve(ir.NamedKey("enter")))
	assert.Equal(t, ir.Tap(KeyA), Resolve(ir.NamedKey("a")))
	assert.Equal(t, ir.Tap(KeyA), Resolve(ir.CharKey('a')))
	assert.Nil(t, Resolve(ir.NamedKey("FOO")))
	assert.Nil(t, Resolve(ir.PlaceholderKey()))
}

func TestName(t *testing.T) {
	assert.Equal(t, "SHIFT", Name(Shift))
	assert.Equal(t, "A", Name(KeyA))
	assert.Equal(t, "5", Name(Digit0+5))
	assert.Equal(t, ",", Name(Comma))
	assert.Equal(t, "4242", Name(4242))
	assert.Contains(t, Names(), "ALTGR")
	assert.True(t, IsModifier(Shift))
	assert.False(t, IsModifier(KeyA))
}

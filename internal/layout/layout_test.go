package layout

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pschichtel/VirtualScanner/internal/ir"
)

func TestParseLayoutFile(t *testing.T) {
	input := strings.Join([]string{
		"a=~65",
		"A=+16~65-16",
		"this line is ignored",
		"",
		"==~61",
		`\n=~10`,
		`\t=~9`,
		`\=~92`,
		"ä=~222\r",
		"b=~66",
		"b=~67",
		"c=~67 \t",
		" =~32  ",
	}, "\n")

	l, err := ParseLayoutFile(strings.NewReader(input))
	require.NoError(t, err)

	lookup := func(key string) string {
		events, ok := l.Lookup(key)
		require.True(t, ok, "missing %q", key)
		return ir.Canonicalize(events)
	}
	assert.Equal(t, "~65", lookup("a"))
	assert.Equal(t, "+16~65-16", lookup("A"))
	assert.Equal(t, "~61", lookup("="))
	assert.Equal(t, "~10", lookup("\n"))
	assert.Equal(t, "~9", lookup("\t"))
	assert.Equal(t, "~92", lookup(`\`))
	assert.Equal(t, "~222", lookup("ä"))
	assert.Equal(t, "~67", lookup("b"), "later entries win")
	assert.Equal(t, "~67", lookup("c"), "trailing blanks are ignored")
	assert.Equal(t, "~32", lookup(" "))
	assert.Equal(t, 10, l.Len())
}

func TestParseLayoutFileReportsLine(t *testing.T) {
	_, err := ParseLayoutFile(strings.NewReader("a=~65\nb=~x\n"))
	require.Error(t, err)

	var fileErr *FileError
	require.True(t, errors.As(err, &fileErr))
	assert.Equal(t, 2, fileErr.Line)

	var specErr *ActionSpecError
	assert.True(t, errors.As(err, &specErr))
}

func TestResolve(t *testing.T) {
	l := New(map[string][]ir.KeyEvent{
		"a":     ir.Tap(81),
		"ENTER": ir.Tap(13),
	})

	assert.Equal(t, ir.Tap(81), l.Resolve(ir.CharKey('a')))
	assert.Equal(t, ir.Tap(13), l.Resolve(ir.NamedKey("ENTER")))
	assert.Nil(t, l.Resolve(ir.NamedKey("enter")), "names match verbatim")
	assert.Equal(t, ir.Tap(5), l.Resolve(ir.CodeKey(5)))
	assert.Nil(t, l.Resolve(ir.CharKey('b')))
	assert.Nil(t, l.Resolve(ir.PlaceholderKey()))
}

func TestLookupReturnsCopy(t *testing.T) {
	l := New(map[string][]ir.KeyEvent{"a": ir.Tap(65)})
	events, _ := l.Lookup("a")
	events[0].Code = 1
	again, _ := l.Lookup("a")
	assert.Equal(t, ir.Tap(65), again)
}

func TestMissing(t *testing.T) {
	l := New(map[string][]ir.KeyEvent{
		"a": ir.Tap(65),
		"b": ir.Tap(66),
		"c": nil,
	})
	assert.Equal(t, []rune{'c', 'x', 'y'}, l.Missing("yabxcyx"))
	assert.Empty(t, l.Missing("abba"))
}

func TestMerge(t *testing.T) {
	base := New(map[string][]ir.KeyEvent{"a": ir.Tap(65), "b": ir.Tap(66)})
	override := New(map[string][]ir.KeyEvent{"b": ir.Tap(1)})
	merged := base.Merge(override)

	events, _ := merged.Lookup("b")
	assert.Equal(t, ir.Tap(1), events)
	events, _ = base.Lookup("b")
	assert.Equal(t, ir.Tap(66), events)
	assert.Equal(t, []string{"a", "b"}, merged.Keys())
}

func TestParseJSON(t *testing.T) {
	data := []byte(`{
		"a": [{"key": 65, "state": "Pressed"}, {"key": 65, "state": "Released"}],
		"B": "+16~66-16",
		"ENTER": "~10"
	}`)
	l, err := ParseJSON(data)
	require.NoError(t, err)

	assert.Equal(t, ir.Tap(65), l.Resolve(ir.CharKey('a')))
	assert.Equal(t, ir.Wrap(16, ir.Tap(66)), l.Resolve(ir.CharKey('B')))
	assert.Equal(t, ir.Tap(10), l.Resolve(ir.NamedKey("ENTER")))

	_, err = ParseJSON([]byte(`{"a": "~x"}`))
	assert.Error(t, err)
	_, err = ParseJSON([]byte(`{"a": 5}`))
	assert.Error(t, err)
}

func TestParseYAML(t *testing.T) {
	data := []byte(`
a: "~65"
"1": "~49"
z:
  - key: 90
    state: Pressed
  - key: 90
    state: Released
`)
	l, err := ParseYAML(data)
	require.NoError(t, err)
	assert.Equal(t, ir.Tap(65), l.Resolve(ir.CharKey('a')))
	assert.Equal(t, ir.Tap(49), l.Resolve(ir.CharKey('1')))
	assert.Equal(t, ir.Tap(90), l.Resolve(ir.CharKey('z')))

	_, err = ParseYAML([]byte("a:\n  - key: 1\n    state: Held\n"))
	assert.Error(t, err)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	original := New(map[string][]ir.KeyEvent{
		"a":     ir.Tap(65),
		"A":     ir.Wrap(16, ir.Tap(65)),
		"\n":    ir.Tap(10),
		"ENTER": ir.Tap(10),
		"empty": nil,
	})

	dir := t.TempDir()
	for _, name := range []string{"layout.json", "layout.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			skipped, err := SaveFile(path, original)
			require.NoError(t, err)
			assert.Empty(t, skipped)

			loaded, err := LoadFile(path)
			require.NoError(t, err)
			assert.Equal(t, path, loaded.Source())
			assert.Equal(t, []string{"\n", "A", "ENTER", "a"}, loaded.Keys(), "empty entries are dropped")
			events, _ := loaded.Lookup("A")
			assert.Equal(t, ir.Wrap(16, ir.Tap(65)), events)
		})
	}

	t.Run("lines", func(t *testing.T) {
		path := filepath.Join(dir, "layout.txt")
		skipped, err := SaveFile(path, original)
		require.NoError(t, err)
		assert.Equal(t, []string{"ENTER", "empty"}, skipped)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "\\n=~10\nA=+16~65-16\na=~65\n", string(data))

		loaded, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"\n", "A", "a"}, loaded.Keys())
	})
}

func TestSaveYAMLKeepsControlCharacterKeys(t *testing.T) {
	l, err := ParseLayoutFile(strings.NewReader("\\n=~10\n\\t=~9\na=~65\n"))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "layout.yaml")
	_, err = SaveFile(path, l)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\"\\t\": \"~9\"\n\"\\n\": \"~10\"\n\"a\": \"~65\"\n", string(data))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, l.Keys(), loaded.Keys())
	events, ok := loaded.Lookup("\n")
	require.True(t, ok)
	assert.Equal(t, ir.Tap(10), events)
}

func TestLoadFileNotFound(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatFor("de_DE_ISO.json"))
	assert.Equal(t, FormatYAML, FormatFor("x.YML"))
	assert.Equal(t, FormatYAML, FormatFor("x.yaml"))
	assert.Equal(t, FormatLines, FormatFor("x.layout"))
	assert.Equal(t, FormatLines, FormatFor("noext"))
}

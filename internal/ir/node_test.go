package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEqual(t *testing.T) {
	a := []ActionNode{Group(CharKey('a'), Leaf(CharKey('b'))), Leaf(NamedKey("ENTER"))}
	b := []ActionNode{Group(CharKey('a'), Leaf(CharKey('b'))), Leaf(NamedKey("ENTER"))}
	assert.True(t, Equal(a, b))

	c := []ActionNode{Group(CharKey('a'), Leaf(CharKey('c'))), Leaf(NamedKey("ENTER"))}
	assert.False(t, Equal(a, c))

	assert.True(t, Equal([]ActionNode{{Key: CharKey('x'), Children: []ActionNode{}}}, []ActionNode{Leaf(CharKey('x'))}))
	assert.False(t, Equal(a, a[:1]))
}

func TestHasPlaceholder(t *testing.T) {
	assert.False(t, HasPlaceholder([]ActionNode{Leaf(CharKey('a'))}))
	assert.True(t, HasPlaceholder([]ActionNode{Group(CharKey('a'), Leaf(PlaceholderKey()))}))
}

func TestCount(t *testing.T) {
	tree := []ActionNode{Group(CharKey('a'), Leaf(CharKey('b')), Group(CharKey('c'), Leaf(CharKey('d'))))}
	assert.Equal(t, 4, Count(tree))
}

func TestFormatSequence(t *testing.T) {
	tree := []ActionNode{
		Leaf(CharKey('a')),
		Group(NamedKey("SHIFT"), Leaf(CharKey('(')), Leaf(CharKey('\n'))),
		Leaf(CodeKey(65)),
		Leaf(PlaceholderKey()),
		Leaf(CharKey('\\')),
	}
	assert.Equal(t, `a{SHIFT}(\(\n){65}{CONTENT}\\`, FormatSequence(tree, "CONTENT"))
}

func TestKeyIdentifierString(t *testing.T) {
	assert.Equal(t, "'a'", CharKey('a').String())
	assert.Equal(t, "{ENTER}", NamedKey("ENTER").String())
	assert.Equal(t, "{65}", CodeKey(65).String())
	assert.Equal(t, "{<content>}", PlaceholderKey().String())
	assert.Equal(t, "char", KindChar.String())
}

func TestPhaseJSON(t *testing.T) {
	data, err := json.Marshal([]KeyEvent{PressOf(65), ReleaseOf(65)})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"key":65,"state":"Pressed"},{"key":65,"state":"Released"}]`, string(data))

	var events []KeyEvent
	require.NoError(t, json.Unmarshal([]byte(`[{"key":16,"state":"press"},{"key":16,"state":"Released"}]`), &events))
	assert.Equal(t, Wrap(16, nil), events)

	err = json.Unmarshal([]byte(`[{"key":16,"state":"Held"}]`), &events)
	assert.Error(t, err)
}

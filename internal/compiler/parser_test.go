package compiler

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pschichtel/VirtualScanner/internal/ir"
)

var allOn = ParseOptions{NormalizeLineBreaks: true, AllowNesting: true, AllowSpecial: true}

func char(r rune) ir.ActionNode { return ir.Leaf(ir.CharKey(r)) }
func named(n string) ir.ActionNode { return ir.Leaf(ir.NamedKey(n)) }

func TestParseSequence(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		opts     ParseOptions
		expected []ir.ActionNode
	}{
		{"empty", "", allOn, nil},
		{"literals", "ab", allOn, []ir.ActionNode{char('a'), char('b')}},
		{"unicode", "äö", allOn, []ir.ActionNode{char('ä'), char('ö')}},
		{"named", "{ENTER}", allOn, []ir.ActionNode{named("ENTER")}},
		{"name kept verbatim", "{Enter}", allOn, []ir.ActionNode{named("Enter")}},
		{"code", "{65}", allOn, []ir.ActionNode{ir.Leaf(ir.CodeKey(65))}},
		{"empty braces", "{}", allOn, []ir.ActionNode{named("")}},
		{"unclosed brace is literal", "{abc", allOn, []ir.ActionNode{char('{'), char('a'), char('b'), char('c')}},
		{"escape newline", `\n`, allOn, []ir.ActionNode{char('\n')}},
		{"escape cr", `\r`, allOn, []ir.ActionNode{char('\r')}},
		{"escape tab", `\t`, allOn, []ir.ActionNode{char('\t')}},
		{"escape paren", `\(\)`, allOn, []ir.ActionNode{char('('), char(')')}},
		{"escape brace", `\{F1}`, allOn, []ir.ActionNode{char('{'), char('F'), char('1'), char('}')}},
		{"escape backslash", `\\`, allOn, []ir.ActionNode{char('\\')}},
		{"trailing backslash", `a\`, allOn, []ir.ActionNode{char('a'), char('\\')}},
		{"escape multibyte", `\ä`, allOn, []ir.ActionNode{char('ä')}},
		{"group", "a(b)c", allOn, []ir.ActionNode{ir.Group(ir.CharKey('a'), char('b')), char('c')}},
		{"empty group", "a()", allOn, []ir.ActionNode{char('a')}},
		{"named group", "{CTRL}(c)", allOn, []ir.ActionNode{ir.Group(ir.NamedKey("CTRL"), char('c'))}},
		{
			"nested groups", "{CTRL}({SHIFT}(a)b)", allOn,
			[]ir.ActionNode{ir.Group(ir.NamedKey("CTRL"), ir.Group(ir.NamedKey("SHIFT"), char('a')), char('b'))},
		},
		{"crlf normalized", "a\r\nb", allOn, []ir.ActionNode{char('a'), char('\n'), char('b')}},
		{
			"crlf kept", "a\r\nb", ParseOptions{AllowNesting: true, AllowSpecial: true},
			[]ir.ActionNode{char('a'), char('\r'), char('\n'), char('b')},
		},
		{
			"nesting disabled", "a(b)", ParseOptions{AllowSpecial: true},
			[]ir.ActionNode{char('a'), char('('), char('b'), char(')')},
		},
		{
			"special disabled", "{F1}", ParseOptions{AllowNesting: true},
			[]ir.ActionNode{char('{'), char('F'), char('1'), char('}')},
		},
		{"placeholder off", "{CONTENT}", allOn, []ir.ActionNode{named("CONTENT")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes, err := ParseSequence(tt.input, tt.opts)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.expected, nodes, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("tree mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseSequencePlaceholder(t *testing.T) {
	opts := allOn
	opts.PlaceholderName = "CONTENT"

	nodes, err := ParseSequence("{SHIFT}({CONTENT}){content}", opts)
	require.NoError(t, err)
	expected := []ir.ActionNode{
		ir.Group(ir.NamedKey("SHIFT"), ir.Leaf(ir.PlaceholderKey())),
		named("content"),
	}
	if diff := cmp.Diff(expected, nodes, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}

	opts.PlaceholderName = "X"
	nodes, err = ParseSequence("{X}", opts)
	require.NoError(t, err)
	assert.True(t, nodes[0].Key.IsPlaceholder())
}

func TestParseSequenceFailures(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		offset int
	}{
		{"unmatched close", "ab)c", 2},
		{"leading close", ")", 0},
		{"unclosed group", "a(b", 3},
		{"unclosed nested group", "a(b(c)", 6},
		{"extra close after group", "a(b))", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes, err := ParseSequence(tt.input, allOn)
			require.Error(t, err)
			assert.Nil(t, nodes)
			assert.True(t, errors.Is(err, ErrParseFailure))

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, tt.offset, parseErr.Offset)
		})
	}
}

func TestParseSequenceUnknownNamesAreNotErrors(t *testing.T) {
	_, err := ParseSequence("{NOT_A_KEY}{F99}", allOn)
	assert.NoError(t, err)
}

func TestNormalizeLineBreaksIdempotent(t *testing.T) {
	inputs := []string{"", "a\r\nb", "\r\r\n\n", "a\r\r\nb", "plain", "\r\n\r\n", "a\rb"}
	for _, in := range inputs {
		once := NormalizeLineBreaks(in)
		assert.Equal(t, once, NormalizeLineBreaks(once), "input %q", in)
		assert.NotContains(t, once, "\r")
	}
}

func TestNormalizeLineBreaks(t *testing.T) {
	assert.Equal(t, "a\n\nb", NormalizeLineBreaks("a\r\r\nb"))
	assert.Equal(t, "a\nb\n", NormalizeLineBreaks("a\rb\r\n"))
}

func TestFormatSequenceRoundTrip(t *testing.T) {
	inputs := []string{
		"abc",
		"{CTRL}({SHIFT}(a)b)",
		`\(x\)\\\{`,
		"{65}{ENTER}\n",
		"ä(ö)",
	}
	opts := allOn
	opts.PlaceholderName = "CONTENT"
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			tree, err := ParseSequence(in, opts)
			require.NoError(t, err)
			again, err := ParseSequence(ir.FormatSequence(tree, "CONTENT"), opts)
			require.NoError(t, err)
			assert.True(t, ir.Equal(tree, again))
		})
	}
}

func TestFullConsumption(t *testing.T) {
	// Balanced inputs parse; appending a stray ')' always fails.
	inputs := []string{"", "a", "a(b)", "a(b(c)d)e", `\)`, "{x}(y)"}
	for _, in := range inputs {
		_, err := ParseSequence(in, allOn)
		assert.NoError(t, err, in)
		_, err = ParseSequence(in+")", allOn)
		assert.Error(t, err, in+")")
	}

	_, err := ParseSequence(strings.Repeat("a(", 50)+strings.Repeat(")", 50), allOn)
	assert.NoError(t, err)
	_, err = ParseSequence(strings.Repeat("a(", 50)+strings.Repeat(")", 49), allOn)
	assert.Error(t, err)
}

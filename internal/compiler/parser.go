package compiler

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pschichtel/VirtualScanner/internal/ir"
)

// ParseOptions controls the macro grammar.
type ParseOptions struct {
	// NormalizeLineBreaks folds "\r\n" into "\n" before parsing.
	NormalizeLineBreaks bool
	// AllowNesting enables k(...) groups. When disabled, parentheses are
	// literal characters.
	AllowNesting bool
	// AllowSpecial enables {NAME} tokens. When disabled, braces are
	// literal characters.
	AllowSpecial bool
	// PlaceholderName is the {NAME} recognized as the content placeholder.
	// Empty disables placeholder recognition.
	PlaceholderName string
}

var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// NormalizeLineBreaks folds CRLF pairs and lone CRs into LF. It is
// idempotent.
func NormalizeLineBreaks(s string) string {
	return lineBreaks.Replace(s)
}

// ParseSequence parses a macro into an action tree.
//
// Unknown key names are not errors; they are kept as named keys and
// resolved (or dropped) later. The parse fails only when the input is not
// consumed completely: a ')' without an open group, or a group still open
// at the end of input.
func ParseSequence(input string, opts ParseOptions) ([]ir.ActionNode, error) {
	if opts.NormalizeLineBreaks {
		input = NormalizeLineBreaks(input)
	}
	p := &parser{input: input, opts: opts}

	nodes, err := p.parseSequence(0)
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.input) {
		return nil, &ParseError{Input: input, Offset: p.pos, Message: "unmatched ')'"}
	}
	return nodes, nil
}

type parser struct {
	input string
	pos   int
	opts  ParseOptions
}

// parseSequence reads nodes until end of input or a ')' closing the
// current group. At depth 0 the ')' is left unconsumed for the caller.
func (p *parser) parseSequence(depth int) ([]ir.ActionNode, error) {
	var nodes []ir.ActionNode
	for p.pos < len(p.input) {
		if p.opts.AllowNesting && p.input[p.pos] == ')' {
			if depth == 0 {
				return nodes, nil
			}
			p.pos++
			return nodes, nil
		}

		node := ir.ActionNode{Key: p.parseKey()}

		if p.opts.AllowNesting && p.pos < len(p.input) && p.input[p.pos] == '(' {
			p.pos++
			children, err := p.parseSequence(depth + 1)
			if err != nil {
				return nil, err
			}
			node.Children = children
		}
		nodes = append(nodes, node)
	}
	if depth > 0 {
		return nil, &ParseError{Input: p.input, Offset: p.pos, Message: "group is never closed"}
	}
	return nodes, nil
}

func (p *parser) parseKey() ir.KeyIdentifier {
	switch p.input[p.pos] {
	case '{':
		if !p.opts.AllowSpecial {
			break
		}
		end := strings.IndexByte(p.input[p.pos+1:], '}')
		if end < 0 {
			break
		}
		name := p.input[p.pos+1 : p.pos+1+end]
		p.pos += end + 2
		return p.classifyName(name)
	case '\\':
		if p.pos+1 >= len(p.input) {
			break
		}
		r, size := utf8.DecodeRuneInString(p.input[p.pos+1:])
		p.pos += 1 + size
		switch r {
		case 'n':
			r = '\n'
		case 'r':
			r = '\r'
		case 't':
			r = '\t'
		}
		return ir.CharKey(r)
	}

	r, size := utf8.DecodeRuneInString(p.input[p.pos:])
	p.pos += size
	return ir.CharKey(r)
}

func (p *parser) classifyName(name string) ir.KeyIdentifier {
	if p.opts.PlaceholderName != "" && name == p.opts.PlaceholderName {
		return ir.PlaceholderKey()
	}
	if isDigits(name) {
		if code, err := strconv.Atoi(name); err == nil {
			return ir.CodeKey(code)
		}
	}
	return ir.NamedKey(name)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

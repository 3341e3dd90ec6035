package ir

import (
	"strconv"
	"strings"
)

// ActionNode holds Key while its Children are typed, then releases Key.
// A node without children is a plain key stroke.
type ActionNode struct {
	Key      KeyIdentifier `json:"key"`
	Children []ActionNode  `json:"children,omitempty"`
}

// Leaf returns a node without children.
func Leaf(key KeyIdentifier) ActionNode {
	return ActionNode{Key: key}
}

// Group returns a node holding key around children.
func Group(key KeyIdentifier, children ...ActionNode) ActionNode {
	return ActionNode{Key: key, Children: children}
}

// HasPlaceholder reports whether the placeholder occurs anywhere in nodes.
func HasPlaceholder(nodes []ActionNode) bool {
	for _, n := range nodes {
		if n.Key.IsPlaceholder() || HasPlaceholder(n.Children) {
			return true
		}
	}
	return false
}

// Equal reports structural equality of two trees.
// A nil and an empty child list are equal.
func Equal(a, b []ActionNode) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Key != b[i].Key {
			return false
		}
		if !Equal(a[i].Children, b[i].Children) {
			return false
		}
	}
	return true
}

// Count returns the number of nodes in the tree.
func Count(nodes []ActionNode) int {
	n := len(nodes)
	for _, node := range nodes {
		n += Count(node.Children)
	}
	return n
}

// FormatSequence renders nodes back into macro syntax.
// Characters with a meaning in the syntax are escaped, so parsing the
// result with nesting and special keys enabled yields an equal tree.
// placeholderName is used for placeholder nodes.
func FormatSequence(nodes []ActionNode, placeholderName string) string {
	var b strings.Builder
	formatNodes(&b, nodes, placeholderName)
	return b.String()
}

func formatNodes(b *strings.Builder, nodes []ActionNode, placeholderName string) {
	for _, n := range nodes {
		formatKey(b, n.Key, placeholderName)
		if len(n.Children) > 0 {
			b.WriteByte('(')
			formatNodes(b, n.Children, placeholderName)
			b.WriteByte(')')
		}
	}
}

func formatKey(b *strings.Builder, k KeyIdentifier, placeholderName string) {
	switch k.Kind {
	case KindChar:
		switch k.Char {
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\\', '{', '(', ')':
			b.WriteByte('\\')
			b.WriteRune(k.Char)
		default:
			b.WriteRune(k.Char)
		}
	case KindNamed:
		b.WriteString("{" + k.Name + "}")
	case KindCode:
		b.WriteString("{" + strconv.Itoa(k.Code) + "}")
	case KindPlaceholder:
		b.WriteString("{" + placeholderName + "}")
	}
}

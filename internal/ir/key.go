package ir

import (
	"fmt"
	"strconv"
)

// KeyKind discriminates the KeyIdentifier variants.
type KeyKind int

const (
	// KindChar is a literal character typed as-is.
	KindChar KeyKind = iota + 1
	// KindNamed is a symbolic key such as ENTER or F5.
	KindNamed
	// KindCode is a raw key code.
	KindCode
	// KindPlaceholder marks where envelope content is spliced in.
	KindPlaceholder
)

// String returns the kind name.
func (k KeyKind) String() string {
	switch k {
	case KindChar:
		return "char"
	case KindNamed:
		return "named"
	case KindCode:
		return "code"
	case KindPlaceholder:
		return "placeholder"
	default:
		return fmt.Sprintf("KeyKind(%d)", int(k))
	}
}

// KeyIdentifier names one logical key. Only the field matching Kind is set,
// which keeps the type comparable with ==.
type KeyIdentifier struct {
	Kind KeyKind `json:"kind"`
	Char rune    `json:"char,omitempty"`
	Name string  `json:"name,omitempty"`
	Code int     `json:"code,omitempty"`
}

// CharKey returns the identifier for a literal character.
func CharKey(r rune) KeyIdentifier {
	return KeyIdentifier{Kind: KindChar, Char: r}
}

// NamedKey returns the identifier for a symbolic key name.
// The name is kept verbatim; resolution decides about case.
func NamedKey(name string) KeyIdentifier {
	return KeyIdentifier{Kind: KindNamed, Name: name}
}

// CodeKey returns the identifier for a raw key code.
func CodeKey(code int) KeyIdentifier {
	return KeyIdentifier{Kind: KindCode, Code: code}
}

// PlaceholderKey returns the content placeholder identifier.
func PlaceholderKey() KeyIdentifier {
	return KeyIdentifier{Kind: KindPlaceholder}
}

// IsPlaceholder reports whether k marks the envelope content position.
func (k KeyIdentifier) IsPlaceholder() bool {
	return k.Kind == KindPlaceholder
}

// String renders the identifier for diagnostics.
func (k KeyIdentifier) String() string {
	switch k.Kind {
	case KindChar:
		return strconv.QuoteRune(k.Char)
	case KindNamed:
		return "{" + k.Name + "}"
	case KindCode:
		return "{" + strconv.Itoa(k.Code) + "}"
	case KindPlaceholder:
		return "{<content>}"
	default:
		return "<invalid key>"
	}
}

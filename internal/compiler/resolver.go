package compiler

import (
	"github.com/pschichtel/VirtualScanner/internal/ir"
	"github.com/pschichtel/VirtualScanner/internal/layout"
	"github.com/pschichtel/VirtualScanner/internal/vk"
)

// Resolver maps a key identifier to the events typing it.
// An empty result means the key is unresolved.
type Resolver interface {
	Resolve(key ir.KeyIdentifier) []ir.KeyEvent
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(key ir.KeyIdentifier) []ir.KeyEvent

// Resolve calls f.
func (f ResolverFunc) Resolve(key ir.KeyIdentifier) []ir.KeyEvent {
	return f(key)
}

// CharCoder is a platform lookup from a character to a key code, used for
// characters no table covers.
type CharCoder func(r rune) (int, bool)

// NewResolver returns the standard resolution chain:
//  1. raw codes become press+release
//  2. the layout, when set and it has a non-empty entry
//  3. the built-in character and name tables
//  4. charCoder for characters, when set
func NewResolver(l *layout.Layout, charCoder CharCoder) Resolver {
	return &chainResolver{layout: l, charCoder: charCoder}
}

type chainResolver struct {
	layout    *layout.Layout
	charCoder CharCoder
}

func (c *chainResolver) Resolve(key ir.KeyIdentifier) []ir.KeyEvent {
	switch key.Kind {
	case ir.KindCode:
		return ir.Tap(key.Code)
	case ir.KindPlaceholder:
		return nil
	}
	if c.layout != nil {
		if events := c.layout.Resolve(key); len(events) > 0 {
			return events
		}
	}
	if events := vk.Resolve(key); len(events) > 0 {
		return events
	}
	if key.Kind == ir.KindChar && c.charCoder != nil {
		if code, ok := c.charCoder(key.Char); ok {
			return ir.Tap(code)
		}
	}
	return nil
}

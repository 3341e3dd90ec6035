package compiler

import (
	"github.com/pschichtel/VirtualScanner/internal/ir"
	"github.com/pschichtel/VirtualScanner/internal/layout"
)

// DirectOptions configures CompileDirect.
type DirectOptions struct {
	NormalizeLineBreaks bool
	Layout              *layout.Layout
	// Prefix and Suffix are typed around the content.
	Prefix []ir.KeyEvent
	Suffix []ir.KeyEvent
}

// CompileDirect types content character by character through the layout,
// without the macro grammar.
//
// Unlike Compile this path is all-or-nothing: if any character has no
// layout entry, nothing is compiled and a *MissingCharactersError lists
// every missing character.
func CompileDirect(content string, opts DirectOptions) ([]ir.KeyEvent, error) {
	if opts.NormalizeLineBreaks {
		content = NormalizeLineBreaks(content)
	}

	l := opts.Layout
	if l == nil {
		l = layout.New(nil)
	}
	if missing := l.Missing(content); len(missing) > 0 {
		return nil, &MissingCharactersError{Chars: missing}
	}

	events := make([]ir.KeyEvent, 0, len(opts.Prefix)+len(opts.Suffix)+2*len(content))
	events = append(events, opts.Prefix...)
	for _, r := range content {
		mapped, _ := l.Lookup(string(r))
		events = append(events, mapped...)
	}
	return append(events, opts.Suffix...), nil
}

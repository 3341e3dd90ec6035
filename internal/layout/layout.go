package layout

import (
	"sort"
	"unicode/utf8"

	"github.com/pschichtel/VirtualScanner/internal/ir"
)

// Layout is an immutable mapping from a key string (one character or a
// symbolic name) to the events typing it.
type Layout struct {
	entries map[string][]ir.KeyEvent
	source  string
}

// New builds a layout from entries. The map and its slices are copied.
func New(entries map[string][]ir.KeyEvent) *Layout {
	return newWithSource(entries, "")
}

func newWithSource(entries map[string][]ir.KeyEvent, source string) *Layout {
	copied := make(map[string][]ir.KeyEvent, len(entries))
	for k, v := range entries {
		copied[k] = append([]ir.KeyEvent(nil), v...)
	}
	return &Layout{entries: copied, source: source}
}

// Source returns the file the layout was loaded from, if any.
func (l *Layout) Source() string {
	return l.source
}

// Len returns the number of entries.
func (l *Layout) Len() int {
	return len(l.entries)
}

// Lookup returns a copy of the events for key.
func (l *Layout) Lookup(key string) ([]ir.KeyEvent, bool) {
	events, ok := l.entries[key]
	if !ok {
		return nil, false
	}
	return append([]ir.KeyEvent(nil), events...), true
}

// HasChar reports whether r has a non-empty mapping.
func (l *Layout) HasChar(r rune) bool {
	return len(l.entries[string(r)]) > 0
}

// Resolve maps a key identifier to events:
//   - chars are looked up by their one-character string
//   - names are looked up verbatim
//   - codes become press+release without consulting the table
//   - placeholders and misses yield nil
func (l *Layout) Resolve(key ir.KeyIdentifier) []ir.KeyEvent {
	switch key.Kind {
	case ir.KindChar:
		events, _ := l.Lookup(string(key.Char))
		return events
	case ir.KindNamed:
		events, _ := l.Lookup(key.Name)
		return events
	case ir.KindCode:
		return ir.Tap(key.Code)
	default:
		return nil
	}
}

// Keys returns all keys in sorted order.
func (l *Layout) Keys() []string {
	keys := make([]string, 0, len(l.entries))
	for k := range l.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Entries returns a copy of the table.
func (l *Layout) Entries() map[string][]ir.KeyEvent {
	out := make(map[string][]ir.KeyEvent, len(l.entries))
	for k, v := range l.entries {
		out[k] = append([]ir.KeyEvent(nil), v...)
	}
	return out
}

// Missing returns the distinct characters of charset without a mapping,
// sorted by code point.
func (l *Layout) Missing(charset string) []rune {
	seen := make(map[rune]bool)
	var missing []rune
	for _, r := range charset {
		if seen[r] {
			continue
		}
		seen[r] = true
		if !l.HasChar(r) {
			missing = append(missing, r)
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	return missing
}

// Merge returns a new layout with the entries of other overriding l.
func (l *Layout) Merge(other *Layout) *Layout {
	merged := l.Entries()
	for k, v := range other.entries {
		merged[k] = v
	}
	return newWithSource(merged, l.source)
}

func isSingleChar(key string) bool {
	return utf8.RuneCountInString(key) == 1
}

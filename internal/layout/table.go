package layout

import (
	"encoding/json"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/pschichtel/VirtualScanner/internal/ir"
)

// tableEntry is one value of a structured layout table. It accepts either
// an action-spec string or a list of {key, state} objects.
type tableEntry []ir.KeyEvent

// UnmarshalJSON implements json.Unmarshaler.
func (e *tableEntry) UnmarshalJSON(data []byte) error {
	var spec string
	if err := json.Unmarshal(data, &spec); err == nil {
		events, err := ParseActionSpec(spec)
		if err != nil {
			return err
		}
		*e = events
		return nil
	}
	var events []ir.KeyEvent
	if err := json.Unmarshal(data, &events); err != nil {
		return fmt.Errorf("entry must be an action spec string or a list of {key, state}: %w", err)
	}
	*e = events
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (e *tableEntry) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		events, err := ParseActionSpec(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*e = events
		return nil
	}
	var raw []struct {
		Key   int    `yaml:"key"`
		State string `yaml:"state"`
	}
	if err := node.Decode(&raw); err != nil {
		return fmt.Errorf("line %d: entry must be an action spec string or a list of {key, state}: %w", node.Line, err)
	}
	events := make([]ir.KeyEvent, 0, len(raw))
	for _, r := range raw {
		var phase ir.Phase
		if err := phase.UnmarshalText([]byte(r.State)); err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		events = append(events, ir.KeyEvent{Code: r.Key, Phase: phase})
	}
	*e = events
	return nil
}

// ParseJSON reads a structured layout table from JSON.
func ParseJSON(data []byte) (*Layout, error) {
	var table map[string]tableEntry
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parsing JSON layout: %w", err)
	}
	return fromTable(table), nil
}

// ParseYAML reads a structured layout table from YAML.
func ParseYAML(data []byte) (*Layout, error) {
	var table map[string]tableEntry
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parsing YAML layout: %w", err)
	}
	return fromTable(table), nil
}

func fromTable(table map[string]tableEntry) *Layout {
	entries := make(map[string][]ir.KeyEvent, len(table))
	for k, v := range table {
		entries[k] = v
	}
	return &Layout{entries: entries}
}

// MarshalJSON writes the table as {key: [{key, state}, ...]} with keys
// sorted. Entries with no events are omitted.
func (l *Layout) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.nonEmpty())
}

// MarshalYAML writes the table with action-spec strings as values, keys
// sorted. Keys and values are double-quoted so control characters and
// specs starting with '~' survive a round trip.
func (l *Layout) MarshalYAML() (any, error) {
	entries := l.nonEmpty()
	node := &yaml.Node{Kind: yaml.MappingNode}
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		node.Content = append(node.Content,
			quotedScalar(k),
			quotedScalar(ir.Canonicalize(entries[k])),
		)
	}
	return node, nil
}

func quotedScalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Style: yaml.DoubleQuotedStyle, Value: value}
}

func (l *Layout) nonEmpty() map[string][]ir.KeyEvent {
	out := make(map[string][]ir.KeyEvent, len(l.entries))
	for k, v := range l.entries {
		if len(v) > 0 {
			out[k] = v
		}
	}
	return out
}

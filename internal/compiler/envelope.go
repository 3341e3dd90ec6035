package compiler

import "github.com/pschichtel/VirtualScanner/internal/ir"

// DefaultEnvelopeKeyName is the placeholder name used when none is set.
const DefaultEnvelopeKeyName = "CONTENT"

// ApplyEnvelope returns template with every placeholder node replaced by
// the whole content list. The template is rebuilt rather than mutated.
// A template without a placeholder is returned as-is and content is
// dropped; an empty template yields an empty result.
func ApplyEnvelope(template, content []ir.ActionNode) []ir.ActionNode {
	if len(template) == 0 {
		return nil
	}
	out := make([]ir.ActionNode, 0, len(template))
	for _, node := range template {
		if node.Key.IsPlaceholder() {
			out = append(out, content...)
			continue
		}
		out = append(out, ir.ActionNode{
			Key:      node.Key,
			Children: ApplyEnvelope(node.Children, content),
		})
	}
	return out
}

// EnvelopeFromAffixes builds the single envelope template equivalent to
// typing prefix, then the content, then suffix.
func EnvelopeFromAffixes(prefix, suffix, keyName string) string {
	if keyName == "" {
		keyName = DefaultEnvelopeKeyName
	}
	return prefix + "{" + keyName + "}" + suffix
}

package compiler

import "github.com/pschichtel/VirtualScanner/internal/ir"

// Generate linearizes an action tree into key events.
//
// Each node's resolved events are split into a hold part and a release
// part (see SplitHold). The hold part is emitted before the node's
// children and the release part after them, so nested modifiers release
// in stack order. Unresolved keys produce no events.
func Generate(nodes []ir.ActionNode, r Resolver) []ir.KeyEvent {
	events, _ := GenerateReport(nodes, r)
	return events
}

// GenerateReport is Generate that also returns the unresolved keys, in
// tree order.
func GenerateReport(nodes []ir.ActionNode, r Resolver) ([]ir.KeyEvent, []ir.KeyIdentifier) {
	g := &generator{resolver: r}
	g.generate(nodes)
	return g.events, g.unresolved
}

type generator struct {
	resolver   Resolver
	events     []ir.KeyEvent
	unresolved []ir.KeyIdentifier
}

func (g *generator) generate(nodes []ir.ActionNode) {
	for _, node := range nodes {
		resolved := g.resolver.Resolve(node.Key)
		if len(resolved) == 0 && !node.Key.IsPlaceholder() {
			g.unresolved = append(g.unresolved, node.Key)
		}
		if len(node.Children) == 0 {
			g.events = append(g.events, resolved...)
			continue
		}
		hold, release := SplitHold(resolved)
		g.events = append(g.events, hold...)
		g.generate(node.Children)
		g.events = append(g.events, release...)
	}
}

// SplitHold splits a key's events at the point where the key is "down":
// release is the longest tail made only of releases of keys pressed
// earlier in the list, hold is everything before it.
//
//	[+16 +65 -65 -16] -> hold [+16 +65], release [-65 -16]
//	[+65 -65]         -> hold [+65],     release [-65]
func SplitHold(events []ir.KeyEvent) (hold, release []ir.KeyEvent) {
	start := len(events)
	for start > 0 && events[start-1].Phase == ir.Release {
		start--
	}
	for ; start < len(events); start++ {
		if releasesHeld(events[:start], events[start:]) {
			break
		}
	}
	return events[:start], events[start:]
}

func releasesHeld(prefix, tail []ir.KeyEvent) bool {
	held := make(map[int]int)
	for _, e := range prefix {
		if e.Phase == ir.Press {
			held[e.Code]++
		} else if held[e.Code] > 0 {
			held[e.Code]--
		}
	}
	for _, e := range tail {
		if held[e.Code] == 0 {
			return false
		}
		held[e.Code]--
	}
	return true
}

package ir

import (
	"strconv"
	"strings"
)

// Canonicalize renders events in the compact action-spec form.
//
// A press immediately followed by the release of the same code becomes
// "~N"; any other press is "+N" and any other release "-N". Tokens are
// concatenated without separators. The scan is greedy and single-pass:
// once a press is merged its release is consumed.
//
//	[P65, R65, P16, R16] -> "~65~16"
//	[P16, P65, R65, R16] -> "+16~65-16"
func Canonicalize(events []KeyEvent) string {
	var b strings.Builder
	for i := 0; i < len(events); i++ {
		e := events[i]
		if e.Phase == Press && i+1 < len(events) {
			next := events[i+1]
			if next.Phase == Release && next.Code == e.Code {
				b.WriteByte('~')
				b.WriteString(strconv.Itoa(e.Code))
				i++
				continue
			}
		}
		if e.Phase == Release {
			b.WriteByte('-')
		} else {
			b.WriteByte('+')
		}
		b.WriteString(strconv.Itoa(e.Code))
	}
	return b.String()
}

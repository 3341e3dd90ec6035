package layout

import (
	"fmt"

	"github.com/pschichtel/VirtualScanner/internal/ir"
)

// ActionSpecError reports a malformed action spec.
type ActionSpecError struct {
	Spec    string
	Offset  int
	Message string
}

func (e *ActionSpecError) Error() string {
	return fmt.Sprintf("action spec %q at offset %d: %s", e.Spec, e.Offset, e.Message)
}

// ParseActionSpec parses the compact action-spec form.
//
// The spec is a concatenation of tokens, each a state prefix followed by a
// decimal key code: "+N" presses N, "-N" releases N and "~N" presses then
// releases N. The empty spec yields no events.
//
//	ParseActionSpec("+65-66~67") // [P65, R66, P67, R67]
func ParseActionSpec(spec string) ([]ir.KeyEvent, error) {
	var events []ir.KeyEvent
	offset := 0
	for offset < len(spec) {
		prefix := spec[offset]
		switch prefix {
		case '+', '-', '~':
		default:
			return nil, &ActionSpecError{Spec: spec, Offset: offset, Message: fmt.Sprintf("unexpected %q, want one of + - ~", prefix)}
		}

		code, next := parseCode(spec, offset+1)
		if next == offset+1 {
			return nil, &ActionSpecError{Spec: spec, Offset: next, Message: "missing key code"}
		}
		if code < 0 {
			return nil, &ActionSpecError{Spec: spec, Offset: offset + 1, Message: "key code out of range"}
		}

		switch prefix {
		case '+':
			events = append(events, ir.PressOf(code))
		case '-':
			events = append(events, ir.ReleaseOf(code))
		case '~':
			events = append(events, ir.Tap(code)...)
		}
		offset = next
	}
	return events, nil
}

// parseCode greedily consumes decimal digits starting at offset and returns
// the value and the offset after the last digit. Values that overflow are
// reported as -1.
func parseCode(spec string, offset int) (int, int) {
	code := 0
	i := offset
	for i < len(spec) && spec[i] >= '0' && spec[i] <= '9' {
		if code >= 0 {
			code = code*10 + int(spec[i]-'0')
			if code > 1<<31-1 {
				code = -1
			}
		}
		i++
	}
	return code, i
}

// Package notify tells the user about scans that were not typed.
package notify

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/pschichtel/VirtualScanner/internal/ir"
)

// Title is passed to desktop notifiers as the notification summary.
const Title = "VirtualScanner"

// Notifier delivers a message to the user.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// Message returns the user-facing message for rec, or false when the
// outcome needs no attention.
func Message(rec ir.ScanRecord) (string, bool) {
	switch rec.Outcome {
	case ir.OutcomeNone:
		return "No content detected!", true
	case ir.OutcomeAmbiguous:
		return "Multiple contents found, which one should I use?", true
	case ir.OutcomeNotUnderstood:
		return "Failed to parse code! Is the keyboard layout incomplete?", true
	case ir.OutcomeInjectionFailed:
		return "Failed to type code: " + rec.Error, true
	default:
		return "", false
	}
}

// Command runs an external program once per message with the arguments
// Argv[1:], Title and the message. notify-send follows this convention.
type Command struct {
	Argv    []string
	Timeout time.Duration
}

// NewCommand creates a Command for argv. It fails on an empty argv.
func NewCommand(argv []string) (*Command, error) {
	if len(argv) == 0 {
		return nil, errors.New("notify command is empty")
	}
	return &Command{Argv: argv, Timeout: 5 * time.Second}, nil
}

// Notify implements Notifier.
func (c *Command) Notify(ctx context.Context, message string) error {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}
	args := append(append([]string{}, c.Argv[1:]...), Title, message)
	out, err := exec.CommandContext(ctx, c.Argv[0], args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("notify %s: %w: %s", c.Argv[0], err, out)
	}
	return nil
}

// Func adapts a function to Notifier.
type Func func(ctx context.Context, message string) error

// Notify implements Notifier.
func (f Func) Notify(ctx context.Context, message string) error { return f(ctx, message) }

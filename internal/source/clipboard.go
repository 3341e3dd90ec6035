package source

import (
	"context"
	"errors"
	"time"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"
)

// DefaultPollInterval is how often the clipboard is read.
const DefaultPollInterval = 500 * time.Millisecond

// ErrClipboardUnsupported is returned by ClipboardAvailable when no
// clipboard utility is installed.
var ErrClipboardUnsupported = errors.New("no clipboard utility available (install xclip, xsel or wl-clipboard)")

// ClipboardAvailable reports whether the system clipboard can be read.
func ClipboardAvailable() error {
	if clipboard.Unsupported {
		return ErrClipboardUnsupported
	}
	return nil
}

// Clipboard emits a detection whenever the clipboard text changes.
// The content present at start is not emitted.
type Clipboard struct {
	interval time.Duration
	read     func() (string, error)
	logger   *zap.Logger
}

// NewClipboard polls the system clipboard every interval.
func NewClipboard(interval time.Duration, logger *zap.Logger) *Clipboard {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Clipboard{interval: interval, read: clipboard.ReadAll, logger: logger}
}

// Name implements Source.
func (c *Clipboard) Name() string {
	return "clipboard"
}

// Run implements Source. It returns ctx.Err() when ctx is done.
func (c *Clipboard) Run(ctx context.Context, emit func(Detection)) error {
	last, err := c.read()
	if err != nil {
		c.logger.Debug("initial clipboard read failed", zap.Error(err))
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		text, err := c.read()
		if err != nil {
			c.logger.Debug("clipboard read failed", zap.Error(err))
			continue
		}
		if text == last {
			continue
		}
		last = text
		if text == "" {
			continue
		}
		emit(Detection{Source: c.Name(), Contents: []string{text}})
	}
}

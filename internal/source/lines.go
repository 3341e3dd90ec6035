package source

import (
	"bufio"
	"bytes"
	"context"
	"io"

	"go.uber.org/zap"
)

// Lines emits one detection per non-empty input line.
type Lines struct {
	r      io.Reader
	hint   string
	logger *zap.Logger
}

// NewLines reads from r, decoding lines that are not valid UTF-8 with the
// charset named by hint.
func NewLines(r io.Reader, hint string, logger *zap.Logger) *Lines {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Lines{r: r, hint: hint, logger: logger}
}

// Name implements Source.
func (l *Lines) Name() string {
	return "stdin"
}

// Run implements Source. It returns nil at end of input and ctx.Err()
// once ctx is done, even while a read is blocked. The reading goroutine
// exits when the pending read returns.
func (l *Lines) Run(ctx context.Context, emit func(Detection)) error {
	lines := make(chan []byte)
	errc := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)

	go func() {
		scanner := bufio.NewScanner(l.r)
		for scanner.Scan() {
			select {
			case lines <- bytes.Clone(scanner.Bytes()):
			case <-done:
				return
			}
		}
		errc <- scanner.Err()
	}()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errc:
			return err
		case line := <-lines:
			l.emitLine(line, emit)
		}
	}
}

func (l *Lines) emitLine(line []byte, emit func(Detection)) {
	raw := bytesTrimCR(line)
	if len(raw) == 0 {
		return
	}
	text, err := Decode(raw, l.hint)
	if err != nil {
		l.logger.Warn("skipping undecodable line", zap.Error(err))
		return
	}
	emit(Detection{Source: l.Name(), Contents: []string{text}})
}

func bytesTrimCR(b []byte) []byte {
	if n := len(b); n > 0 && b[n-1] == '\r' {
		return b[:n-1]
	}
	return b
}

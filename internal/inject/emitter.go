package inject

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/pschichtel/VirtualScanner/internal/ir"
)

// DefaultEventDelay is the pause between consecutive events.
const DefaultEventDelay = 10 * time.Millisecond

// Emitter replays event lists through an Injector.
type Emitter struct {
	injector   Injector
	startDelay time.Duration
	eventDelay time.Duration
	logger     *zap.Logger
	sleep      func(ctx context.Context, d time.Duration) error
}

// EmitterOption configures an Emitter.
type EmitterOption func(*Emitter)

// WithStartDelay waits d before the first event, giving the user time to
// focus the target window.
func WithStartDelay(d time.Duration) EmitterOption {
	return func(e *Emitter) { e.startDelay = d }
}

// WithEventDelay sets the pause between events.
func WithEventDelay(d time.Duration) EmitterOption {
	return func(e *Emitter) { e.eventDelay = d }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) EmitterOption {
	return func(e *Emitter) { e.logger = l }
}

// NewEmitter returns an Emitter using injector.
func NewEmitter(injector Injector, opts ...EmitterOption) *Emitter {
	e := &Emitter{
		injector:   injector,
		eventDelay: DefaultEventDelay,
		logger:     zap.NewNop(),
		sleep:      sleepContext,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Injector returns the backend.
func (e *Emitter) Injector() Injector {
	return e.injector
}

// Emit sends events in order. The first rejected event stops emission
// with an *InjectionError; there are no retries. When emission stops
// early, keys still held are released in reverse order so no modifier
// stays stuck.
func (e *Emitter) Emit(ctx context.Context, events []ir.KeyEvent) error {
	if len(events) == 0 {
		return nil
	}
	if err := e.sleep(ctx, e.startDelay); err != nil {
		return err
	}

	var held []int
	for i, ev := range events {
		if i > 0 {
			if err := e.sleep(ctx, e.eventDelay); err != nil {
				e.releaseHeld(held)
				return err
			}
		}

		var err error
		if ev.Phase == ir.Release {
			err = e.injector.ReleaseKey(ev.Code)
		} else {
			err = e.injector.PressKey(ev.Code)
		}
		if err != nil {
			e.releaseHeld(held)
			return &InjectionError{Index: i, Event: ev, Err: err}
		}

		if ev.Phase == ir.Release {
			held = removeLast(held, ev.Code)
		} else {
			held = append(held, ev.Code)
		}
	}
	return nil
}

func (e *Emitter) releaseHeld(held []int) {
	for i := len(held) - 1; i >= 0; i-- {
		if err := e.injector.ReleaseKey(held[i]); err != nil {
			e.logger.Warn("releasing held key failed", zap.Int("code", held[i]), zap.Error(err))
		}
	}
}

func removeLast(held []int, code int) []int {
	for i := len(held) - 1; i >= 0; i-- {
		if held[i] == code {
			return append(held[:i], held[i+1:]...)
		}
	}
	return held
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

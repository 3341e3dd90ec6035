package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/pschichtel/VirtualScanner/internal/inject"
	"github.com/pschichtel/VirtualScanner/internal/ir"
	"github.com/pschichtel/VirtualScanner/internal/metrics"
	"github.com/pschichtel/VirtualScanner/internal/source"
)

// History persists scan records.
type History interface {
	WriteScan(ctx context.Context, rec ir.ScanRecord) error
}

// Engine is the single-writer scan loop.
//
// Thread-safety model:
//   - Enqueue: safe from any goroutine
//   - Run: must be called from exactly one goroutine
//   - Process: used directly by one-shot callers that do not Run
type Engine struct {
	compiler         Compiler
	emitter          *inject.Emitter
	history          History
	metrics          *metrics.Metrics
	clock            *Clock
	ids              IDGenerator
	now              func() time.Time
	logger           *zap.Logger
	normalizeUnicode bool
	onScan           func(ir.ScanRecord)
	queue            *scanQueue
}

// Option configures an Engine.
type Option func(*Engine)

// WithHistory records every processed detection in h.
func WithHistory(h History) Option {
	return func(e *Engine) { e.history = h }
}

// WithMetrics counts detections and events in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithClock sets the logical clock, e.g. one resumed from history.
func WithClock(c *Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithIDGenerator sets the scan ID generator. Default: UUIDv7.
func WithIDGenerator(g IDGenerator) Option {
	return func(e *Engine) { e.ids = g }
}

// WithNow sets the wall clock used for RecordedAt.
func WithNow(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithUnicodeNormalization converts content to NFC before compiling.
func WithUnicodeNormalization(enabled bool) Option {
	return func(e *Engine) { e.normalizeUnicode = enabled }
}

// WithScanHook calls fn with every record after it has been written.
// fn runs on the Run goroutine.
func WithScanHook(fn func(ir.ScanRecord)) Option {
	return func(e *Engine) { e.onScan = fn }
}

// New creates an Engine compiling with c and emitting through em.
func New(c Compiler, em *inject.Emitter, opts ...Option) *Engine {
	e := &Engine{
		compiler: c,
		emitter:  em,
		clock:    NewClock(),
		ids:      UUIDv7Generator{},
		now:      time.Now,
		logger:   zap.NewNop(),
		queue:    newScanQueue(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enqueue submits a detection to the Run loop.
// It returns false once the engine has stopped.
func (e *Engine) Enqueue(d source.Detection) bool {
	return e.queue.Enqueue(d)
}

// Pending returns the number of queued detections.
func (e *Engine) Pending() int {
	return e.queue.Len()
}

// Run processes detections until ctx is cancelled or Stop is called and
// the queue is drained. A failing detection is logged and the loop
// continues with the next one.
func (e *Engine) Run(ctx context.Context) error {
	e.logger.Info("engine starting")

	for {
		if d, ok := e.queue.TryDequeue(); ok {
			if _, err := e.Process(ctx, d); err != nil {
				e.logger.Error("scan failed", zap.String("source", d.Source), zap.Error(err))
			}
			continue
		}

		select {
		case <-ctx.Done():
			e.logger.Info("engine stopping: context cancelled")
			e.queue.Close()
			return ctx.Err()
		case _, open := <-e.queue.Wait():
			if !open && e.queue.Len() == 0 {
				e.logger.Info("engine stopping: queue closed")
				return nil
			}
		}
	}
}

// Stop closes the queue. Run returns after draining what is queued.
func (e *Engine) Stop() {
	e.queue.Close()
}

// Process handles one detection synchronously:
//   - zero contents: recorded as none
//   - several contents: recorded as ambiguous, nothing is typed
//   - one content: compiled and emitted
//
// The returned error is a *ScanError when the content was not typed
// because it could not be compiled or injected, possibly joined with a
// history write failure.
func (e *Engine) Process(ctx context.Context, d source.Detection) (ir.ScanRecord, error) {
	rec := ir.ScanRecord{
		ID:         e.ids.Generate(),
		Seq:        e.clock.Next(),
		Source:     d.Source,
		RecordedAt: e.now(),
	}
	log := e.logger.With(zap.String("scan_id", rec.ID), zap.Int64("seq", rec.Seq), zap.String("source", d.Source))

	var procErr error
	switch len(d.Contents) {
	case 0:
		rec.Outcome = ir.OutcomeNone
		log.Info("no content detected")
	case 1:
		procErr = e.typeContent(ctx, &rec, d.Contents[0], log)
	default:
		rec.Outcome = ir.OutcomeAmbiguous
		rec.Content = strings.Join(d.Contents, "\n")
		log.Warn("multiple contents detected, not typing any", zap.Int("count", len(d.Contents)))
	}

	e.metrics.ObserveScan(rec)
	if e.history != nil {
		// The record is written even when ctx was cancelled mid-emission.
		if err := e.history.WriteScan(context.WithoutCancel(ctx), rec); err != nil {
			procErr = errors.Join(procErr, fmt.Errorf("recording scan %s: %w", rec.ID, err))
		}
	}
	if e.onScan != nil {
		e.onScan(rec)
	}
	return rec, procErr
}

func (e *Engine) typeContent(ctx context.Context, rec *ir.ScanRecord, content string, log *zap.Logger) error {
	if e.normalizeUnicode {
		content = norm.NFC.String(content)
	}
	rec.Content = content
	rec.ContentHash = ir.ContentHash(content)

	start := time.Now()
	prog, err := e.compiler.Compile(content)
	e.metrics.ObserveCompile(e.compiler.Path(), time.Since(start))
	if err != nil {
		rec.Outcome = ir.OutcomeNotUnderstood
		rec.Error = err.Error()
		return &ScanError{ScanID: rec.ID, Outcome: rec.Outcome, Err: err}
	}

	rec.Canonical = prog.Canonical()
	rec.EventCount = len(prog.Events)
	if len(prog.Unresolved) > 0 {
		for _, key := range prog.Unresolved {
			rec.Unresolved = append(rec.Unresolved, key.String())
		}
		log.Warn("dropping unresolved keys", zap.Strings("keys", rec.Unresolved))
	}

	if err := e.emitter.Emit(ctx, prog.Events); err != nil {
		rec.Outcome = ir.OutcomeInjectionFailed
		if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			rec.Outcome = ir.OutcomeCancelled
		}
		rec.Error = err.Error()
		return &ScanError{ScanID: rec.ID, Outcome: rec.Outcome, Err: err}
	}

	rec.Outcome = ir.OutcomeTyped
	log.Info("content typed", zap.Int("events", rec.EventCount))
	return nil
}

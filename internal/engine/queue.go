package engine

import (
	"sync"

	"github.com/pschichtel/VirtualScanner/internal/source"
)

// scanQueue is an unbounded, goroutine-safe FIFO of detections.
//
// Producers call Enqueue from any goroutine; the Run loop drains it with
// TryDequeue and blocks on Wait. The signal channel has capacity 1 so
// bursts of Enqueue calls coalesce into one wakeup.
type scanQueue struct {
	mu     sync.Mutex
	items  []source.Detection
	closed bool
	signal chan struct{}
}

func newScanQueue() *scanQueue {
	return &scanQueue{
		items:  make([]source.Detection, 0, 16),
		signal: make(chan struct{}, 1),
	}
}

// Enqueue appends d. It returns false once the queue is closed.
func (q *scanQueue) Enqueue(d source.Detection) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.items = append(q.items, d)

	select {
	case q.signal <- struct{}{}:
	default:
	}
	return true
}

// TryDequeue removes the front detection without blocking.
func (q *scanQueue) TryDequeue() (source.Detection, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return source.Detection{}, false
	}
	d := q.items[0]
	// Clear the slot so the backing array does not pin old contents.
	q.items[0] = source.Detection{}
	if len(q.items) == 1 {
		q.items = q.items[:0]
	} else {
		q.items = q.items[1:]
	}
	return d, true
}

// Wait returns a channel that fires when detections may be available.
// It is closed by Close.
func (q *scanQueue) Wait() <-chan struct{} {
	return q.signal
}

// Len returns the number of queued detections.
func (q *scanQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close rejects further detections and wakes waiters.
func (q *scanQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.signal)
}

package engine

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pschichtel/VirtualScanner/internal/source"
)

func detection(contents ...string) source.Detection {
	return source.Detection{Source: "test", Contents: contents}
}

func TestScanQueue_FIFO(t *testing.T) {
	q := newScanQueue()
	for _, c := range []string{"A", "B", "C"} {
		require.True(t, q.Enqueue(detection(c)))
	}
	assert.Equal(t, 3, q.Len())

	for _, want := range []string{"A", "B", "C"} {
		d, ok := q.TryDequeue()
		require.True(t, ok)
		assert.Equal(t, []string{want}, d.Contents)
	}
	_, ok := q.TryDequeue()
	assert.False(t, ok, "dequeue from empty queue should return false")
}

func TestScanQueue_SignalCoalesces(t *testing.T) {
	q := newScanQueue()
	q.Enqueue(detection("a"))
	q.Enqueue(detection("b"))

	<-q.Wait()
	select {
	case <-q.Wait():
		t.Fatal("second enqueue should not leave a second signal")
	default:
	}
}

func TestScanQueue_Close(t *testing.T) {
	q := newScanQueue()
	q.Enqueue(detection("a"))
	q.Close()
	q.Close()

	assert.False(t, q.Enqueue(detection("b")), "enqueue after close should fail")
	d, ok := q.TryDequeue()
	require.True(t, ok, "queued items survive close")
	assert.Equal(t, []string{"a"}, d.Contents)

	// drain the pending signal; the channel is then closed
	<-q.Wait()
	_, open := <-q.Wait()
	assert.False(t, open)
}

func TestScanQueue_ThreadSafe(t *testing.T) {
	q := newScanQueue()
	const producers = 10
	const perProducer = 100

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Enqueue(detection("x"))
			}
		}()
	}
	wg.Wait()

	n := 0
	for {
		if _, ok := q.TryDequeue(); !ok {
			break
		}
		n++
	}
	assert.Equal(t, producers*perProducer, n)
}

package source

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		hint     string
		expected string
	}{
		{"utf8", []byte("héllo"), "", "héllo"},
		{"utf8 bom", []byte("\xEF\xBB\xBFabc"), "", "abc"},
		{"utf16 le", []byte{0xFF, 0xFE, 'h', 0, 'i', 0}, "", "hi"},
		{"utf16 be", []byte{0xFE, 0xFF, 0, 'h', 0, 'i'}, "", "hi"},
		{"utf32 le", []byte{0xFF, 0xFE, 0, 0, 'h', 0, 0, 0}, "", "h"},
		{"utf32 be", []byte{0, 0, 0xFE, 0xFF, 0, 0, 0, 'h'}, "", "h"},
		{"latin1 default", []byte{'c', 'a', 'f', 0xE9}, "", "café"},
		{"explicit hint", []byte{0xE4}, "iso-8859-15", "ä"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.input, tt.hint)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err := Decode([]byte{0xE9}, "no-such-charset")
	assert.Error(t, err)
	assert.True(t, ValidEncoding("UTF-8"))
	assert.False(t, ValidEncoding("no-such-charset"))
}

func TestLines(t *testing.T) {
	input := "first\r\n\nsecond\n\xE9t\xE9\n"
	src := NewLines(strings.NewReader(input), "", nil)

	var got []Detection
	require.NoError(t, src.Run(context.Background(), func(d Detection) {
		got = append(got, d)
	}))

	assert.Equal(t, []Detection{
		{Source: "stdin", Contents: []string{"first"}},
		{Source: "stdin", Contents: []string{"second"}},
		{Source: "stdin", Contents: []string{"été"}},
	}, got)
}

func TestLinesStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewLines(strings.NewReader("a\nb\n"), "", zap.NewNop()).Run(ctx, func(Detection) {})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLinesReturnsOnCancelWhileReadBlocks(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	got := make(chan Detection, 1)
	done := make(chan error, 1)
	go func() {
		done <- NewLines(pr, "", nil).Run(ctx, func(d Detection) { got <- d })
	}()

	_, err := pw.Write([]byte("scan\n"))
	require.NoError(t, err)
	assert.Equal(t, Detection{Source: "stdin", Contents: []string{"scan"}}, <-got)

	// The reader is now blocked waiting for the next line.
	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run still blocked after cancel")
	}
}

type fakeClipboard struct {
	mu     sync.Mutex
	values []string
	errs   []error
}

func (f *fakeClipboard) read() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.values) == 0 {
		return "", errors.New("exhausted")
	}
	v, err := f.values[0], f.errs[0]
	if len(f.values) > 1 {
		f.values, f.errs = f.values[1:], f.errs[1:]
	}
	return v, err
}

func TestClipboardEmitsChanges(t *testing.T) {
	fake := &fakeClipboard{
		values: []string{"initial", "initial", "scan-1", "", "", "scan-2", "scan-2"},
		errs:   []error{nil, nil, nil, errors.New("busy"), nil, nil, nil},
	}
	c := NewClipboard(time.Millisecond, nil)
	c.read = fake.read

	ctx, cancel := context.WithCancel(context.Background())
	var mu sync.Mutex
	var got []string
	done := make(chan error, 1)
	go func() {
		done <- c.Run(ctx, func(d Detection) {
			mu.Lock()
			defer mu.Unlock()
			got = append(got, d.Contents...)
		})
	}()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 2
	}, 2*time.Second, time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"scan-1", "scan-2"}, got)
}

func TestClipboardName(t *testing.T) {
	assert.Equal(t, "clipboard", NewClipboard(0, nil).Name())
	assert.Equal(t, DefaultPollInterval, NewClipboard(0, nil).interval)
}

package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/pschichtel/VirtualScanner/internal/ir"
)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

var testTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// createTestScan creates a typed scan record with minimal required fields.
func createTestScan(id string, seq int64, content string) ir.ScanRecord {
	return ir.ScanRecord{
		ID:          id,
		Seq:         seq,
		Source:      "test",
		Content:     content,
		ContentHash: ir.ContentHash(content),
		Outcome:     ir.OutcomeTyped,
		Canonical:   "~65",
		EventCount:  2,
		RecordedAt:  testTime.Add(time.Duration(seq) * time.Second),
	}
}

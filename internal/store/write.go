package store

import (
	"context"
	"fmt"

	"github.com/pschichtel/VirtualScanner/internal/ir"
)

// WriteScan appends a scan record.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are silently ignored.
func (s *Store) WriteScan(ctx context.Context, rec ir.ScanRecord) error {
	unresolved, err := marshalUnresolved(rec.Unresolved)
	if err != nil {
		return fmt.Errorf("write scan: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO scans
		(id, seq, source, content, content_hash, outcome, canonical, event_count, unresolved, error, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		rec.ID,
		rec.Seq,
		rec.Source,
		rec.Content,
		rec.ContentHash,
		string(rec.Outcome),
		rec.Canonical,
		rec.EventCount,
		unresolved,
		rec.Error,
		formatTime(rec.RecordedAt),
	)
	if err != nil {
		return fmt.Errorf("write scan: %w", err)
	}

	return nil
}

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pschichtel/VirtualScanner/internal/ir"
)

const scanColumns = `id, seq, source, content, content_hash, outcome, canonical, event_count, unresolved, error, recorded_at`

// ReadScans returns the most recent limit scans in seq order, oldest first.
// A limit of zero or less returns every scan.
//
// Returns an empty slice (not nil) if the history is empty.
func (s *Store) ReadScans(ctx context.Context, limit int) ([]ir.ScanRecord, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if limit > 0 {
		rows, err = s.db.QueryContext(ctx, `
			SELECT `+scanColumns+` FROM (
				SELECT * FROM scans
				ORDER BY seq DESC, id COLLATE BINARY DESC
				LIMIT ?
			)
			ORDER BY seq ASC, id COLLATE BINARY ASC
		`, limit)
	} else {
		rows, err = s.db.QueryContext(ctx, `
			SELECT `+scanColumns+` FROM scans
			ORDER BY seq ASC, id COLLATE BINARY ASC
		`)
	}
	if err != nil {
		return nil, fmt.Errorf("query scans: %w", err)
	}
	return collectScans(rows)
}

// ReadScansByHash returns every scan of the content with the given hash.
func (s *Store) ReadScansByHash(ctx context.Context, contentHash string) ([]ir.ScanRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+scanColumns+` FROM scans
		WHERE content_hash = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, contentHash)
	if err != nil {
		return nil, fmt.Errorf("query scans by hash: %w", err)
	}
	return collectScans(rows)
}

// ReadScan retrieves a single scan by ID.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadScan(ctx context.Context, id string) (ir.ScanRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+scanColumns+` FROM scans WHERE id = ?`, id)
	return scanRecord(row)
}

// MaxSeq returns the highest recorded seq, or 0 for an empty history.
// The engine clock resumes from it.
func (s *Store) MaxSeq(ctx context.Context) (int64, error) {
	var seq sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(seq) FROM scans`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("query max seq: %w", err)
	}
	return seq.Int64, nil
}

// CountByOutcome returns the number of scans per outcome. Outcomes
// without scans are absent.
func (s *Store) CountByOutcome(ctx context.Context) (map[ir.Outcome]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT outcome, COUNT(*) FROM scans GROUP BY outcome`)
	if err != nil {
		return nil, fmt.Errorf("query outcome counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[ir.Outcome]int)
	for rows.Next() {
		var (
			outcome string
			n       int
		)
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, fmt.Errorf("scan outcome count: %w", err)
		}
		counts[ir.Outcome(outcome)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outcome counts: %w", err)
	}
	return counts, nil
}

func collectScans(rows *sql.Rows) ([]ir.ScanRecord, error) {
	defer rows.Close()

	records := []ir.ScanRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scans: %w", err)
	}
	return records, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (ir.ScanRecord, error) {
	var (
		rec        ir.ScanRecord
		outcome    string
		unresolved string
		recordedAt string
	)
	err := row.Scan(
		&rec.ID,
		&rec.Seq,
		&rec.Source,
		&rec.Content,
		&rec.ContentHash,
		&outcome,
		&rec.Canonical,
		&rec.EventCount,
		&unresolved,
		&rec.Error,
		&recordedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return ir.ScanRecord{}, err
		}
		return ir.ScanRecord{}, fmt.Errorf("scan row: %w", err)
	}

	rec.Outcome = ir.Outcome(outcome)
	if rec.Unresolved, err = unmarshalUnresolved(unresolved); err != nil {
		return ir.ScanRecord{}, err
	}
	if rec.RecordedAt, err = parseTime(recordedAt); err != nil {
		return ir.ScanRecord{}, err
	}
	return rec, nil
}

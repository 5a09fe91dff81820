package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/linkopp"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var (
	_ linkopp.SnapshotService = (*SnapshotService)(nil)
	_ linkopp.RowSource       = (*SnapshotService)(nil)
)

// SnapshotService implements linkopp.SnapshotService using SQLite.
// It also serves the rows of the latest snapshot as a linkopp.RowSource.
type SnapshotService struct {
	db *DB
}

// NewSnapshotService creates a new SnapshotService.
func NewSnapshotService(db *DB) *SnapshotService {
	return &SnapshotService{db: db}
}

// HashRows computes an xxHash digest over every field of rows, in order.
func HashRows(rows []*linkopp.Row) string {
	d := xxhash.New()
	for _, row := range rows {
		for _, field := range rowFields(row) {
			_, _ = d.WriteString(field)
			_, _ = d.Write([]byte{0})
		}
		_, _ = d.Write([]byte{'\n'})
	}
	return fmt.Sprintf("%016x", d.Sum64())
}

func rowFields(row *linkopp.Row) []string {
	return []string{
		row.SourcePageURL, row.TargetPageURL, row.Status, row.MatchingText,
		row.Anchor, row.Type, row.ID, row.InjectionStatus, row.RootSiteID,
	}
}

// ImportSnapshot stores rows as a new snapshot inside a single transaction.
func (s *SnapshotService) ImportSnapshot(ctx context.Context, snap *linkopp.Snapshot, rows []*linkopp.Row) error {
	if err := snap.Validate(); err != nil {
		return err
	}

	snap.ID = uuid.New().String()
	snap.ContentHash = HashRows(rows)
	snap.RowCount = len(rows)
	snap.ImportedAt = time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO snapshots (id, source, content_hash, row_count, imported_at)
		VALUES (?, ?, ?, ?, ?)
	`, snap.ID, snap.Source, snap.ContentHash, snap.RowCount, formatTime(snap.ImportedAt)); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO opportunity_rows (
			snapshot_id, position, source_page_url, target_page_url, status, matching_text,
			anchor, type, row_id, injection_status, root_site_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, row := range rows {
		if _, err := stmt.ExecContext(ctx, snap.ID, i, row.SourcePageURL, row.TargetPageURL, row.Status,
			row.MatchingText, row.Anchor, row.Type, row.ID, row.InjectionStatus, row.RootSiteID); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// FindLatestSnapshot returns the most recently imported snapshot.
func (s *SnapshotService) FindLatestSnapshot(ctx context.Context) (*linkopp.Snapshot, error) {
	snaps, err := s.FindSnapshots(ctx, linkopp.SnapshotFilter{Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, linkopp.Errorf(linkopp.ENOTFOUND, "no dataset snapshot imported")
	}
	return snaps[0], nil
}

// FindSnapshots returns snapshots matching the filter, newest first.
func (s *SnapshotService) FindSnapshots(ctx context.Context, filter linkopp.SnapshotFilter) ([]*linkopp.Snapshot, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, source, content_hash, row_count, imported_at FROM snapshots WHERE 1=1")
	if filter.Source != nil {
		query.WriteString(" AND source = ?")
		args = append(args, *filter.Source)
	}
	query.WriteString(" ORDER BY seq DESC")
	paginate(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []*linkopp.Snapshot
	for rows.Next() {
		var snap linkopp.Snapshot
		var importedAt string
		if err := rows.Scan(&snap.ID, &snap.Source, &snap.ContentHash, &snap.RowCount, &importedAt); err != nil {
			return nil, err
		}
		if snap.ImportedAt, err = parseTime(importedAt, "imported_at"); err != nil {
			return nil, err
		}
		snaps = append(snaps, &snap)
	}

	return snaps, rows.Err()
}

// DeleteSnapshot removes a snapshot; its rows are removed by cascade.
func (s *SnapshotService) DeleteSnapshot(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM snapshots WHERE id = ?", id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return linkopp.Errorf(linkopp.ENOTFOUND, "snapshot not found")
	}

	return nil
}

// LoadRows returns the rows of the latest snapshot in dataset order.
// Returns ENOTFOUND if nothing was imported yet.
func (s *SnapshotService) LoadRows(ctx context.Context) ([]*linkopp.Row, error) {
	snap, err := s.FindLatestSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.findRows(ctx, snap.ID)
}

func (s *SnapshotService) findRows(ctx context.Context, snapshotID string) ([]*linkopp.Row, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT source_page_url, target_page_url, status, matching_text, anchor, type,
			row_id, injection_status, root_site_id
		FROM opportunity_rows
		WHERE snapshot_id = ?
		ORDER BY position ASC
	`, snapshotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []*linkopp.Row{}
	for rows.Next() {
		var row linkopp.Row
		if err := rows.Scan(&row.SourcePageURL, &row.TargetPageURL, &row.Status, &row.MatchingText,
			&row.Anchor, &row.Type, &row.ID, &row.InjectionStatus, &row.RootSiteID); err != nil {
			return nil, err
		}
		result = append(result, &row)
	}

	return result, rows.Err()
}

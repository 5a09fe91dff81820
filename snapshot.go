package linkopp

import (
	"context"
	"time"
)

// Snapshot describes one imported version of the opportunity dataset.
type Snapshot struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	ContentHash string    `json:"contentHash"`
	RowCount    int       `json:"rowCount"`
	ImportedAt  time.Time `json:"importedAt"`
}

// Validate returns an error if the snapshot contains invalid fields.
func (s *Snapshot) Validate() error {
	if s.Source == "" {
		return Errorf(EINVALID, "snapshot source required")
	}
	return nil
}

// SnapshotService stores dataset snapshots. Only the latest snapshot is
// served; older ones are kept for auditing until pruned.
type SnapshotService interface {
	// ImportSnapshot stores rows as a new snapshot and makes it the latest.
	// ID, ContentHash, RowCount and ImportedAt are set on snap.
	ImportSnapshot(ctx context.Context, snap *Snapshot, rows []*Row) error

	// FindLatestSnapshot returns the most recently imported snapshot.
	// Returns ENOTFOUND if nothing was imported yet.
	FindLatestSnapshot(ctx context.Context) (*Snapshot, error)

	// FindSnapshots returns snapshots, newest first.
	FindSnapshots(ctx context.Context, filter SnapshotFilter) ([]*Snapshot, error)

	// DeleteSnapshot removes a snapshot and its rows.
	// Returns ENOTFOUND if the snapshot does not exist.
	DeleteSnapshot(ctx context.Context, id string) error
}

// SnapshotFilter represents a filter for FindSnapshots.
type SnapshotFilter struct {
	Source *string `json:"source"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

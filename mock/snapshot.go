package mock

import (
	"context"

	"github.com/fwojciec/linkopp"
)

var _ linkopp.SnapshotService = (*SnapshotService)(nil)

// SnapshotService is a mock implementation of linkopp.SnapshotService.
type SnapshotService struct {
	ImportSnapshotFn     func(ctx context.Context, snap *linkopp.Snapshot, rows []*linkopp.Row) error
	FindLatestSnapshotFn func(ctx context.Context) (*linkopp.Snapshot, error)
	FindSnapshotsFn      func(ctx context.Context, filter linkopp.SnapshotFilter) ([]*linkopp.Snapshot, error)
	DeleteSnapshotFn     func(ctx context.Context, id string) error
}

func (s *SnapshotService) ImportSnapshot(ctx context.Context, snap *linkopp.Snapshot, rows []*linkopp.Row) error {
	return s.ImportSnapshotFn(ctx, snap, rows)
}

func (s *SnapshotService) FindLatestSnapshot(ctx context.Context) (*linkopp.Snapshot, error) {
	return s.FindLatestSnapshotFn(ctx)
}

func (s *SnapshotService) FindSnapshots(ctx context.Context, filter linkopp.SnapshotFilter) ([]*linkopp.Snapshot, error) {
	return s.FindSnapshotsFn(ctx, filter)
}

func (s *SnapshotService) DeleteSnapshot(ctx context.Context, id string) error {
	return s.DeleteSnapshotFn(ctx, id)
}

package main_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/linkopp"
	main "github.com/fwojciec/linkopp/cmd/linkopp"
	"github.com/fwojciec/linkopp/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotsListCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints snapshots", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps()
		var got linkopp.SnapshotFilter
		deps.Snapshots = &mock.SnapshotService{
			FindSnapshotsFn: func(_ context.Context, filter linkopp.SnapshotFilter) ([]*linkopp.Snapshot, error) {
				got = filter
				return []*linkopp.Snapshot{{
					ID:          "snap-1",
					Source:      "opportunities.csv",
					ContentHash: "0123456789abcdef",
					RowCount:    42,
					ImportedAt:  time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC),
				}}, nil
			},
		}

		err := (&main.SnapshotsListCmd{Source: "opportunities.csv", Limit: 5}).Run(deps)

		require.NoError(t, err)
		require.NotNil(t, got.Source)
		assert.Equal(t, "opportunities.csv", *got.Source)
		assert.Equal(t, 5, got.Limit)
		assert.Equal(t, "snap-1  2026-03-01 12:30:00      42 rows  0123456789abcdef  opportunities.csv\n", stdout.String())
	})

	t.Run("explains empty list", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps()
		deps.Snapshots = &mock.SnapshotService{
			FindSnapshotsFn: func(_ context.Context, filter linkopp.SnapshotFilter) ([]*linkopp.Snapshot, error) {
				assert.Nil(t, filter.Source)
				return nil, nil
			},
		}

		err := (&main.SnapshotsListCmd{Limit: 20}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No snapshots found")
	})
}

func TestSnapshotsDeleteCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("requires force", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps()
		deps.Snapshots = &mock.SnapshotService{
			DeleteSnapshotFn: func(_ context.Context, _ string) error {
				t.Fatal("DeleteSnapshot should not be called")
				return nil
			},
		}

		err := (&main.SnapshotsDeleteCmd{ID: "snap-1"}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, linkopp.EINVALID, linkopp.ErrorCode(err))
		assert.Contains(t, stderr.String(), "--force")
	})

	t.Run("deletes snapshot", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps()
		var deleted string
		deps.Snapshots = &mock.SnapshotService{
			DeleteSnapshotFn: func(_ context.Context, id string) error {
				deleted = id
				return nil
			},
		}

		err := (&main.SnapshotsDeleteCmd{ID: "snap-1", Force: true}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "snap-1", deleted)
		assert.Equal(t, "Deleted snapshot snap-1\n", stdout.String())
	})

	t.Run("reports unknown snapshot", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps()
		deps.Snapshots = &mock.SnapshotService{
			DeleteSnapshotFn: func(_ context.Context, _ string) error {
				return linkopp.Errorf(linkopp.ENOTFOUND, "snapshot not found")
			},
		}

		err := (&main.SnapshotsDeleteCmd{ID: "missing", Force: true}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), `snapshot "missing" not found`)
	})

	t.Run("hides internal errors", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps()
		deps.Snapshots = &mock.SnapshotService{
			DeleteSnapshotFn: func(_ context.Context, _ string) error {
				return errors.New("disk I/O error")
			},
		}

		err := (&main.SnapshotsDeleteCmd{ID: "snap-1", Force: true}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "Internal server error")
	})
}

package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/linkopp"
)

// Run executes the snapshots list command.
func (c *SnapshotsListCmd) Run(deps *Dependencies) error {
	filter := linkopp.SnapshotFilter{Limit: c.Limit}
	if c.Source != "" {
		filter.Source = &c.Source
	}

	snaps, err := deps.Snapshots.FindSnapshots(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", linkopp.ErrorMessage(err))
		return err
	}

	if len(snaps) == 0 {
		fmt.Fprintln(deps.Stdout, "No snapshots found. Use 'linkopp import' to create one.")
		return nil
	}

	for _, s := range snaps {
		fmt.Fprintf(deps.Stdout, "%s  %s  %6d rows  %s  %s\n",
			s.ID, s.ImportedAt.Format(time.DateTime), s.RowCount, s.ContentHash, s.Source)
	}
	return nil
}

// Run executes the snapshots delete command.
func (c *SnapshotsDeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return linkopp.Errorf(linkopp.EINVALID, "use --force to confirm deletion")
	}

	if err := deps.Snapshots.DeleteSnapshot(deps.Ctx, c.ID); err != nil {
		if linkopp.ErrorCode(err) == linkopp.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: snapshot %q not found. Use 'linkopp snapshots list' to see available snapshots.\n", c.ID)
			return err
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", linkopp.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted snapshot %s\n", c.ID)
	return nil
}

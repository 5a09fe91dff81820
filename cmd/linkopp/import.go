package main

import (
	"fmt"

	"github.com/fwojciec/linkopp"
	"github.com/fwojciec/linkopp/sqlite"
)

// Run executes the import command.
func (c *ImportCmd) Run(deps *Dependencies) error {
	rows, err := deps.OpenSource(c.Location).LoadRows(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: loading %s: %s\n", c.Location, linkopp.ErrorMessage(err))
		return err
	}

	if !c.Force {
		latest, err := deps.Snapshots.FindLatestSnapshot(deps.Ctx)
		if err != nil && linkopp.ErrorCode(err) != linkopp.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: %s\n", linkopp.ErrorMessage(err))
			return err
		}
		if latest != nil && latest.ContentHash == sqlite.HashRows(rows) {
			fmt.Fprintf(deps.Stdout, "Dataset unchanged since snapshot %s, nothing imported. Use --force to import anyway.\n", latest.ID)
			return nil
		}
	}

	snap := &linkopp.Snapshot{Source: c.Location}
	if err := deps.Snapshots.ImportSnapshot(deps.Ctx, snap, rows); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", linkopp.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Imported %d rows as snapshot %s\n", snap.RowCount, snap.ID)
	return nil
}

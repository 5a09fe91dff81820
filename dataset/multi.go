package dataset

import (
	"context"

	"github.com/fwojciec/linkopp"
	"golang.org/x/sync/errgroup"
)

var _ linkopp.RowSource = (MultiSource)(nil)

// MultiSource loads several sources concurrently and concatenates their
// rows in source order.
type MultiSource []linkopp.RowSource

// LoadRows loads every source. Any failure fails the whole load.
func (m MultiSource) LoadRows(ctx context.Context) ([]*linkopp.Row, error) {
	parts := make([][]*linkopp.Row, len(m))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range m {
		i, src := i, src
		g.Go(func() error {
			rows, err := src.LoadRows(gctx)
			if err != nil {
				return err
			}
			parts[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var n int
	for _, p := range parts {
		n += len(p)
	}
	rows := make([]*linkopp.Row, 0, n)
	for _, p := range parts {
		rows = append(rows, p...)
	}
	return rows, nil
}

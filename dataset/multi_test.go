package dataset_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/linkopp"
	"github.com/fwojciec/linkopp/dataset"
	"github.com/fwojciec/linkopp/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticSource(rows ...*linkopp.Row) *mock.RowSource {
	return &mock.RowSource{
		LoadRowsFn: func(_ context.Context) ([]*linkopp.Row, error) {
			return rows, nil
		},
	}
}

func TestMultiSource_LoadRows(t *testing.T) {
	t.Parallel()

	t.Run("concatenates rows in source order", func(t *testing.T) {
		t.Parallel()

		a := &linkopp.Row{SourcePageURL: "https://a.com"}
		b := &linkopp.Row{SourcePageURL: "https://b.com"}
		c := &linkopp.Row{SourcePageURL: "https://c.com"}

		src := dataset.MultiSource{staticSource(a, b), staticSource(), staticSource(c)}

		rows, err := src.LoadRows(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []*linkopp.Row{a, b, c}, rows)
	})

	t.Run("fails when any source fails", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		failing := &mock.RowSource{
			LoadRowsFn: func(_ context.Context) ([]*linkopp.Row, error) {
				return nil, boom
			},
		}

		src := dataset.MultiSource{staticSource(&linkopp.Row{}), failing}

		_, err := src.LoadRows(context.Background())

		assert.ErrorIs(t, err, boom)
	})

	t.Run("empty source list yields no rows", func(t *testing.T) {
		t.Parallel()

		rows, err := dataset.MultiSource{}.LoadRows(context.Background())

		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}

package main_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/linkopp"
	main "github.com/fwojciec/linkopp/cmd/linkopp"
	"github.com/fwojciec/linkopp/dataset"
	"github.com/fwojciec/linkopp/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("loads dataset and stops with context", func(t *testing.T) {
		t.Parallel()

		var loads atomic.Int32
		loaded := make(chan struct{})
		deps, _, _ := newDeps()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		deps.Ctx = ctx
		deps.Cache = dataset.NewCache(&mock.RowSource{
			LoadRowsFn: func(_ context.Context) ([]*linkopp.Row, error) {
				if loads.Add(1) == 1 {
					close(loaded)
				}
				return []*linkopp.Row{}, nil
			},
		})
		deps.Opportunities = dataset.NewService(deps.Cache)

		go func() {
			<-loaded
			time.Sleep(100 * time.Millisecond)
			cancel()
		}()

		err := (&main.ServeCmd{Addr: "127.0.0.1:0", RefreshInterval: time.Hour}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, int32(1), loads.Load())
	})

	t.Run("fails when dataset cannot be loaded", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps()
		deps.Cache = dataset.NewCache(&mock.RowSource{
			LoadRowsFn: func(_ context.Context) ([]*linkopp.Row, error) {
				return nil, linkopp.Errorf(linkopp.ENOTFOUND, "dataset file opportunities.csv not found")
			},
		})

		err := (&main.ServeCmd{Addr: "127.0.0.1:0"}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "dataset file opportunities.csv not found")
	})

	t.Run("reports listen errors", func(t *testing.T) {
		t.Parallel()

		deps, _, _ := newDeps()
		deps.Opportunities = &mock.OpportunityService{}

		err := (&main.ServeCmd{Addr: "256.0.0.1:bad"}).Run(deps)

		require.Error(t, err)
		assert.False(t, errors.Is(err, context.Canceled))
	})
}

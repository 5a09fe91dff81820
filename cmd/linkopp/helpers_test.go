package main_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/linkopp"
	main "github.com/fwojciec/linkopp/cmd/linkopp"
	"github.com/fwojciec/linkopp/fs"
)

// newDeps returns Dependencies writing to fresh buffers. Dataset
// locations are opened from the local filesystem.
func newDeps() (*main.Dependencies, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return &main.Dependencies{
		Ctx:    context.Background(),
		Stdout: stdout,
		Stderr: stderr,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		OpenSource: func(location string) linkopp.RowSource {
			return fs.NewFileSource(location)
		},
	}, stdout, stderr
}

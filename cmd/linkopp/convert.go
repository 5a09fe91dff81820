package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/fwojciec/linkopp"
	"github.com/fwojciec/linkopp/dataset"
	"github.com/fwojciec/linkopp/fs"
	linkjson "github.com/fwojciec/linkopp/json"
)

// Run executes the convert command. The output is verified before it
// replaces any existing file.
func (c *ConvertCmd) Run(deps *Dependencies) error {
	rows, err := deps.OpenSource(c.Input).LoadRows(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: reading %s: %s\n", c.Input, linkopp.ErrorMessage(err))
		return err
	}

	var buf bytes.Buffer
	if err := linkjson.Encode(&buf, rows); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	if err := verifyConversion(buf.Bytes(), len(rows)); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", linkopp.ErrorMessage(err))
		return err
	}

	out, err := fs.CreateAtomic(c.Output)
	if err != nil {
		return fmt.Errorf("creating %s: %w", c.Output, err)
	}
	if _, err := out.Write(buf.Bytes()); err != nil {
		_ = out.Abort()
		return fmt.Errorf("writing %s: %w", c.Output, err)
	}
	if err := out.Commit(); err != nil {
		return fmt.Errorf("writing %s: %w", c.Output, err)
	}

	// Re-read what landed on disk.
	written, err := os.ReadFile(c.Output)
	if err != nil {
		return err
	}
	if err := verifyConversion(written, len(rows)); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", linkopp.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Converted %d records from %s to %s\n", len(rows), c.Input, c.Output)
	return nil
}

// verifyConversion checks that data is a non-empty JSON array of want records.
func verifyConversion(data []byte, want int) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return linkopp.Errorf(linkopp.EINTERNAL, "conversion produced an empty file")
	}
	rows, err := dataset.Decode(bytes.NewReader(data), dataset.FormatJSON)
	if err != nil {
		return linkopp.Errorf(linkopp.EINTERNAL, "conversion produced invalid JSON: %s", err)
	}
	if len(rows) != want {
		return linkopp.Errorf(linkopp.EINTERNAL, "conversion wrote %d records, expected %d", len(rows), want)
	}
	return nil
}

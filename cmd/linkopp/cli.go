package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/linkopp"
	"github.com/fwojciec/linkopp/dataset"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	// Source is the configured dataset, and Cache and Opportunities serve it.
	Source        linkopp.RowSource
	Cache         *dataset.Cache
	Opportunities linkopp.OpportunityService

	Snapshots linkopp.SnapshotService
	Sitemaps  linkopp.SitemapService

	// OpenSource opens a single dataset location: a file path or an
	// http(s) URL.
	OpenSource func(location string) linkopp.RowSource
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config    kong.ConfigFlag `help:"YAML configuration file" placeholder:"PATH" env:"LINKOPP_CONFIG"`
	LogLevel  string          `help:"Log level (${enum})" enum:"debug,info,warn,error" default:"info" env:"LINKOPP_LOG_LEVEL"`
	LogFormat string          `help:"Log format (${enum})" enum:"text,json" default:"text" env:"LINKOPP_LOG_FORMAT"`

	Serve     ServeCmd     `cmd:"" help:"Serve opportunities over HTTP"`
	Query     QueryCmd     `cmd:"" help:"Print the opportunities of a page as JSON"`
	Convert   ConvertCmd   `cmd:"" help:"Convert a CSV dataset to JSON. Only the opportunity columns are kept."`
	Import    ImportCmd    `cmd:"" help:"Import a dataset into the snapshot database"`
	Snapshots SnapshotsCmd `cmd:"" help:"Manage imported dataset snapshots"`
	Coverage  CoverageCmd  `cmd:"" help:"Count accepted opportunities per sitemap page"`
}

// DatasetFlags select the dataset served or queried. Without any dataset
// location the latest snapshot of the database is used.
type DatasetFlags struct {
	Datasets     []string      `name:"dataset" short:"d" help:"Dataset file or URL (repeatable)" env:"LINKOPP_DATASETS"`
	FetchTimeout time.Duration `help:"Timeout for remote datasets" default:"30s" env:"LINKOPP_FETCH_TIMEOUT"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	DatasetFlags `embed:""`

	Addr               string        `help:"Listen address" default:":8787" env:"LINKOPP_ADDR"`
	RefreshInterval    time.Duration `help:"Reload the dataset this often (0 disables)" default:"5m" env:"LINKOPP_REFRESH_INTERVAL"`
	MinRefreshInterval time.Duration `help:"Minimum interval between on-demand reloads" default:"1m" env:"LINKOPP_MIN_REFRESH_INTERVAL"`
	RefreshOnMiss      bool          `help:"Reload the dataset when a page is unknown" env:"LINKOPP_REFRESH_ON_MISS"`
}

// QueryCmd is the "query" subcommand.
type QueryCmd struct {
	DatasetFlags `embed:""`

	PageURL   string `arg:"" help:"Page URL"`
	WebsiteID string `help:"Legacy website ID"`
}

// ConvertCmd is the "convert" subcommand.
type ConvertCmd struct {
	Input  string `arg:"" help:"CSV dataset" type:"existingfile"`
	Output string `arg:"" help:"JSON output file"`
}

// ImportCmd is the "import" subcommand.
type ImportCmd struct {
	Location string `arg:"" help:"Dataset file or URL"`
	Force    bool   `short:"f" help:"Import even if the latest snapshot has the same content"`
}

// SnapshotsCmd groups the snapshot subcommands.
type SnapshotsCmd struct {
	List   SnapshotsListCmd   `cmd:"" default:"withargs" help:"List snapshots, newest first"`
	Delete SnapshotsDeleteCmd `cmd:"" help:"Delete a snapshot"`
}

// SnapshotsListCmd is the "snapshots list" subcommand.
type SnapshotsListCmd struct {
	Source string `help:"Only list snapshots imported from this location"`
	Limit  int    `short:"n" default:"20" help:"Maximum number of snapshots"`
}

// SnapshotsDeleteCmd is the "snapshots delete" subcommand.
type SnapshotsDeleteCmd struct {
	ID    string `arg:"" help:"Snapshot ID"`
	Force bool   `help:"Confirm deletion"`
}

// CoverageCmd is the "coverage" subcommand.
type CoverageCmd struct {
	DatasetFlags `embed:""`

	SiteURL     string   `arg:"" help:"Site URL; a path restricts pages to that section"`
	Filter      []string `short:"F" name:"filter" help:"Only include pages matching regex (repeatable)"`
	Exclude     []string `short:"X" name:"exclude" help:"Exclude pages matching regex (repeatable)"`
	MissingOnly bool     `help:"Only list pages without opportunities"`
}

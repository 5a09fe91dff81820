package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/linkopp"
	"github.com/fwojciec/linkopp/dataset"
	"github.com/fwojciec/linkopp/fs"
	linkhttp "github.com/fwojciec/linkopp/http"
	"github.com/fwojciec/linkopp/sqlite"
	linkslog "github.com/fwojciec/linkopp/slog"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database holding dataset snapshots.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("linkopp"),
		kong.Description("Serve link-building opportunities for website pages"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Configuration(YAML),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'linkopp --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	deps.Logger = NewLogger(stderr, cli.LogLevel, cli.LogFormat)

	cmd := strings.Fields(kongCtx.Command())[0]

	var datasets []string
	timeout := linkhttp.DefaultFetchTimeout
	if flags := cli.datasetFlags(cmd); flags != nil {
		datasets = flags.Datasets
		if flags.FetchTimeout > 0 {
			timeout = flags.FetchTimeout
		}
	}

	fetcher := linkslog.NewLoggingFetcher(
		linkhttp.NewRetryFetcher(linkhttp.NewFetcher(linkhttp.WithTimeout(timeout)), linkhttp.DefaultRetryDelays(), deps.Logger),
		deps.Logger,
	)
	defer fetcher.Close()

	deps.OpenSource = func(location string) linkopp.RowSource {
		var src linkopp.RowSource
		if isURL(location) {
			src = linkhttp.NewSource(location, fetcher)
		} else {
			src = fs.NewFileSource(location)
		}
		return linkslog.NewLoggingRowSource(src, location, deps.Logger)
	}

	// The database is opened only by commands that read or write snapshots.
	if cmd == "import" || cmd == "snapshots" || (usesDataset(cmd) && len(datasets) == 0) {
		m.DB = sqlite.NewDB(m.DBPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set LINKOPP_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
		}
		defer m.Close()

		snapshots := sqlite.NewSnapshotService(m.DB)
		deps.Snapshots = snapshots
		if len(datasets) == 0 {
			deps.Source = linkslog.NewLoggingRowSource(snapshots, "sqlite:"+m.DBPath, deps.Logger)
		}
	}

	if usesDataset(cmd) {
		if len(datasets) > 0 {
			deps.Source = m.openSources(deps, datasets)
		}

		var opts []dataset.CacheOption
		opts = append(opts, dataset.WithLogger(deps.Logger))
		if cmd == "serve" && cli.Serve.MinRefreshInterval > 0 {
			opts = append(opts, dataset.WithMinRefreshInterval(cli.Serve.MinRefreshInterval))
		}
		deps.Cache = dataset.NewCache(deps.Source, opts...)

		svc := dataset.NewService(deps.Cache)
		svc.RefreshOnMiss = cmd == "serve" && cli.Serve.RefreshOnMiss
		deps.Opportunities = linkslog.NewLoggingOpportunityService(svc, deps.Logger)
	}

	if cmd == "coverage" {
		deps.Sitemaps = linkslog.NewLoggingSitemapService(linkhttp.NewSitemapService(nil), deps.Logger)
	}

	return kongCtx.Run(deps)
}

func (m *Main) openSources(deps *Dependencies, locations []string) linkopp.RowSource {
	if len(locations) == 1 {
		return deps.OpenSource(locations[0])
	}
	sources := make(dataset.MultiSource, 0, len(locations))
	for _, loc := range locations {
		sources = append(sources, deps.OpenSource(loc))
	}
	return sources
}

// datasetFlags returns the dataset flags of cmd, or nil if it has none.
func (c *CLI) datasetFlags(cmd string) *DatasetFlags {
	switch cmd {
	case "serve":
		return &c.Serve.DatasetFlags
	case "query":
		return &c.Query.DatasetFlags
	case "coverage":
		return &c.Coverage.DatasetFlags
	}
	return nil
}

// usesDataset reports whether cmd reads the configured dataset.
func usesDataset(cmd string) bool {
	return cmd == "serve" || cmd == "query" || cmd == "coverage"
}

func isURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

func defaultDBPath() string {
	if path := os.Getenv("LINKOPP_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "linkopp.db"
	}
	dir := filepath.Join(home, ".linkopp")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "linkopp.db")
}

// NewLogger creates the slog logger used by every command.
func NewLogger(w io.Writer, level, format string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/handiism/noway/internal/config"
	"github.com/handiism/noway/internal/download"
	ioutils "github.com/handiism/noway/internal/io"
	"github.com/handiism/noway/internal/namegen"
	"github.com/handiism/noway/internal/wayback"
)

var errCancelled = errors.New("download cancelled")

var (
	errorPrefix   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Render("✗")
	warningPrefix = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFE66D")).Render("!")
	successPrefix = lipgloss.NewStyle().Foreground(lipgloss.Color("#95E1A3")).Render("✓")
	infoPrefix    = lipgloss.NewStyle().Foreground(lipgloss.Color("#A8DADC")).Render("›")
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B"))
)

type options struct {
	output      string
	matchType   string
	concurrency int
	configPath  string
	metricsAddr string
	dryRun      bool
	verbose     bool
}

func newRootCmd(opts *options, names *namegen.Generator) *cobra.Command {
	defaults := config.DefaultSettings()

	cmd := &cobra.Command{
		Use:   "noway <url>",
		Short: "Download archived snapshots of a URL from the Wayback Machine",
		Long: `noway lists every archived snapshot of a URL through the Wayback Machine
CDX API and downloads them concurrently into a local directory.

Snapshots that fail to download are listed in failed_urls.txt inside the
output directory.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0], opts, names)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.output, "output", "o", "", "Output directory (default: random name)")
	flags.StringVarP(&opts.matchType, "match-type", "m", defaults.MatchType, "CDX match type: exact, prefix, host or domain")
	flags.IntVarP(&opts.concurrency, "concurrency", "c", defaults.Concurrency, "Maximum concurrent downloads")
	flags.StringVar(&opts.configPath, "config", "", "Path to config file (.json, .yaml or .yml)")
	flags.StringVar(&opts.metricsAddr, "metrics-addr", "", "Prometheus metrics listen address (e.g. :9090)")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "List snapshots without downloading")
	flags.BoolVar(&opts.verbose, "verbose", false, "Show verbose output")

	return cmd
}

// loadSettings merges defaults, the config file, NOWAY_* variables and
// explicitly set flags, in that order.
func loadSettings(cmd *cobra.Command, opts *options) (*config.Settings, error) {
	settings := config.DefaultSettings()
	if opts.configPath != "" {
		var err error
		settings, err = config.Load(opts.configPath)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	if err := settings.ApplyEnv(); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("output") {
		settings.OutputDir = opts.output
	}
	if flags.Changed("match-type") {
		settings.MatchType = opts.matchType
	}
	if flags.Changed("concurrency") {
		settings.Concurrency = opts.concurrency
	}
	if flags.Changed("metrics-addr") {
		settings.MetricsAddr = opts.metricsAddr
	}
	if flags.Changed("verbose") {
		settings.Verbose = opts.verbose
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return settings, nil
}

func run(cmd *cobra.Command, target string, opts *options, names *namegen.Generator) error {
	settings, err := loadSettings(cmd, opts)
	if err != nil {
		return err
	}

	logger := newLogger(settings.Verbose)
	slog.SetDefault(logger)

	out := cmd.OutOrStdout()
	var outMu sync.Mutex
	say := func(format string, args ...any) {
		outMu.Lock()
		defer outMu.Unlock()
		fmt.Fprintf(out, format+"\n", args...)
	}

	outputDir := settings.OutputDir
	if outputDir == "" {
		outputDir = names.Next()
	}
	if !opts.dryRun {
		if err := ioutils.EnsureDir(outputDir); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := download.NewMetrics()
	if settings.MetricsAddr != "" {
		server := serveMetrics(settings.MetricsAddr, metrics)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(shutdownCtx)
		}()
	}

	manager := download.NewManager(settings, outputDir, func(event download.ProgressEvent) {
		if event.Level == download.LevelVerbose && !settings.Verbose {
			return
		}
		say("%s %s", levelPrefix(event.Level), event.Message)
	},
		download.WithMetrics(metrics),
		download.WithLogger(logger),
	)

	say("%s", headerStyle.Render("noway · Wayback Machine downloader"))
	say("")

	if err := manager.Initialize(ctx, target, wayback.MatchType(settings.MatchType)); err != nil {
		return err
	}

	jobs := manager.Jobs()
	if opts.dryRun {
		say("")
		say("[Dry run - not downloading]")
		for _, job := range jobs {
			say("%s", job)
		}
		return nil
	}
	if len(jobs) == 0 {
		return nil
	}

	say("Saving to %s", outputDir)
	say("")

	result := manager.StartDownloads(ctx)

	say("")
	say("Downloaded %d/%d snapshots (%d failed)", result.Succeeded, result.Total, len(result.Failed))

	written, err := download.WriteFailureReport(outputDir, result.Failed)
	if err != nil {
		return err
	}
	if written {
		say("Some URLs failed to download. Check %s for details.", download.ReportPath(outputDir))
	}

	if ctx.Err() != nil {
		return errCancelled
	}
	say("Download completed.")
	return nil
}

func levelPrefix(level download.ProgressLevel) string {
	switch level {
	case download.LevelError:
		return errorPrefix
	case download.LevelWarning:
		return warningPrefix
	case download.LevelSuccess:
		return successPrefix
	case download.LevelInfo:
		return infoPrefix
	default:
		return " "
	}
}

func serveMetrics(addr string, metrics *download.Metrics) *http.Server {
	server := &http.Server{
		Addr:              addr,
		Handler:           promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server failed", slog.Any("error", err))
		}
	}()
	slog.Info("metrics server enabled", slog.String("addr", addr))
	return server
}

func newLogger(verbose bool) *slog.Logger {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(os.Stderr) {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

func main() {
	if err := loadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cmd := newRootCmd(&options{}, namegen.New())
	if err := cmd.Execute(); err != nil {
		if errors.Is(err, errCancelled) {
			fmt.Fprintln(os.Stderr, "\nDownload cancelled.")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

package download

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/handiism/noway/internal/config"
	"github.com/handiism/noway/internal/http"
	ioutils "github.com/handiism/noway/internal/io"
	"github.com/handiism/noway/internal/wayback"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a download progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Fetcher downloads the body of one snapshot.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Persister stores a downloaded body and returns the filename it chose.
type Persister interface {
	Persist(ctx context.Context, url string, body []byte) (string, error)
}

// Lister turns a target URL into the ordered list of snapshot URLs to fetch.
type Lister interface {
	ListSnapshots(ctx context.Context, target string, match wayback.MatchType) ([]string, error)
}

// Result is the aggregate outcome of one run.
//
// Succeeded + len(Failed) == Total always holds. Failed is in completion
// order, not JobSet order.
type Result struct {
	RunID      string
	Total      int
	Succeeded  int
	Failed     []string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Duration returns how long the run took.
func (r *Result) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Manager coordinates snapshot downloads.
type Manager struct {
	fetcher     Fetcher
	persister   Persister
	lister      Lister
	concurrency int
	metrics     *Metrics
	logger      *slog.Logger
	runID       string

	jobs []string

	total     atomic.Int64
	started   atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64

	onProgress func(ProgressEvent)
}

// Option customises a Manager built by NewManager.
type Option func(*Manager)

// WithFetcher replaces the default HTTP fetcher.
func WithFetcher(f Fetcher) Option {
	return func(m *Manager) { m.fetcher = f }
}

// WithPersister replaces the default file store.
func WithPersister(p Persister) Option {
	return func(m *Manager) { m.persister = p }
}

// WithLister replaces the default CDX index.
func WithLister(l Lister) Option {
	return func(m *Manager) { m.lister = l }
}

// WithMetrics records Prometheus metrics for every download.
func WithMetrics(metrics *Metrics) Option {
	return func(m *Manager) { m.metrics = metrics }
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a new download Manager writing into outputDir.
//
// Collaborators default to an HTTP client for fetching, an ioutils.Store
// for persisting and a CDX index for listing, all configured from settings.
func NewManager(settings *config.Settings, outputDir string, onProgress func(ProgressEvent), opts ...Option) *Manager {
	fetchClient := http.NewClient(
		http.WithTimeout(settings.FetchTimeout()),
		http.WithUserAgent(settings.UserAgent),
	)
	listClient := http.NewClient(
		http.WithTimeout(settings.ListTimeout()),
		http.WithUserAgent(settings.UserAgent),
	)

	m := &Manager{
		fetcher:   fetchClient,
		persister: ioutils.NewStore(outputDir),
		lister: wayback.NewIndex(listClient,
			wayback.WithEndpoint(settings.CDXEndpoint),
			wayback.WithArchiveBase(settings.ArchiveBase),
		),
		concurrency: settings.Concurrency,
		logger:      slog.Default(),
		runID:       uuid.NewString(),
		onProgress:  onProgress,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With(slog.String("run_id", m.runID))
	return m
}

// RunID identifies this manager's run in logs and results.
func (m *Manager) RunID() string {
	return m.runID
}

// Initialize fetches the snapshot list for target.
//
// A listing failure is fatal for the run and is returned as is (a
// *wayback.ListingError from the default lister). An empty list is not an
// error; Jobs will simply be empty.
func (m *Manager) Initialize(ctx context.Context, target string, match wayback.MatchType) error {
	m.progress(ProgressEvent{Message: fmt.Sprintf("Fetching archived URLs for %s using CDX API", target), Level: LevelInfo})

	jobs, err := m.lister.ListSnapshots(ctx, target, match)
	if err != nil {
		m.logger.Error("listing snapshots failed", slog.String("target", target), slog.Any("error", err))
		return err
	}
	m.jobs = jobs

	if len(jobs) == 0 {
		m.progress(ProgressEvent{Message: "No archived URLs found.", Level: LevelWarning})
		return nil
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Found %d archived URLs.", len(jobs)), Level: LevelInfo})
	m.logger.Debug("snapshots listed",
		slog.String("target", target),
		slog.String("match_type", string(match)),
		slog.Int("count", len(jobs)),
	)
	return nil
}

// Jobs returns a copy of the snapshot URLs found by Initialize.
func (m *Manager) Jobs() []string {
	out := make([]string, len(m.jobs))
	copy(out, m.jobs)
	return out
}

// StartDownloads downloads every snapshot found by Initialize.
func (m *Manager) StartDownloads(ctx context.Context) *Result {
	return m.Run(ctx, m.jobs)
}

// Run downloads every URL in jobs with at most the configured number of
// downloads in flight, and returns once all of them have finished.
//
// Work is dispatched in jobs order; each URL is fetched and then persisted
// exactly once. A failure in either step, or a panic inside a collaborator,
// records the URL in the result's Failed list and never stops the others.
// Run itself never returns per-URL errors.
func (m *Manager) Run(ctx context.Context, jobs []string) *Result {
	total := len(jobs)
	m.total.Store(int64(total))
	m.started.Store(0)
	m.completed.Store(0)
	m.failed.Store(0)

	result := &Result{RunID: m.runID, Total: total, StartedAt: time.Now()}
	failures := &FailureLog{}
	var succeeded atomic.Int64

	g := new(errgroup.Group)
	g.SetLimit(max(m.concurrency, 1))

	for i, url := range jobs {
		g.Go(func() error {
			if m.download(ctx, i+1, total, url) {
				succeeded.Add(1)
			} else {
				failures.Add(url)
			}
			return nil
		})
	}
	// Units always return nil; Wait only blocks until all have finished.
	_ = g.Wait()

	result.Succeeded = int(succeeded.Load())
	result.Failed = failures.URLs()
	result.FinishedAt = time.Now()

	m.logger.Info("run finished",
		slog.Int("total", result.Total),
		slog.Int("succeeded", result.Succeeded),
		slog.Int("failed", len(result.Failed)),
		slog.Duration("duration", result.Duration()),
	)
	return result
}

// GetProgress returns current download progress: how many downloads have
// been admitted, how many have finished, how many of those failed, and the
// fixed total.
func (m *Manager) GetProgress() (started, completed, failed, total int) {
	return int(m.started.Load()), int(m.completed.Load()), int(m.failed.Load()), int(m.total.Load())
}

// download runs one unit of work while holding an admission slot. It
// reports whether the snapshot was stored.
func (m *Manager) download(ctx context.Context, n, total int, url string) (ok bool) {
	m.started.Add(1)
	m.metrics.IncStarted()
	m.metrics.IncInflight()

	defer func() {
		if r := recover(); r != nil {
			err := &PanicError{URL: url, Value: r}
			m.fail(url, ErrorStage(err), err)
			ok = false
		}
		m.metrics.DecInflight()
		m.completed.Add(1)
	}()

	m.progress(ProgressEvent{Message: fmt.Sprintf("Downloading %d/%d: %s", n, total, url), Level: LevelInfo})

	start := time.Now()
	body, err := m.fetcher.Fetch(ctx, url)
	m.metrics.ObserveFetch(time.Since(start))
	if err != nil {
		m.fail(url, stageOf(err, stageFetch), err)
		return false
	}

	filename, err := m.persister.Persist(ctx, url, body)
	if err != nil {
		m.fail(url, stageOf(err, stagePersist), err)
		return false
	}

	m.metrics.IncOutcome(outcomeSuccess)
	m.progress(ProgressEvent{Message: fmt.Sprintf("Successfully downloaded: %s", filename), Level: LevelSuccess})
	m.logger.Debug("snapshot stored",
		slog.String("url", url),
		slog.String("file", filename),
		slog.Int("bytes", len(body)),
	)
	return true
}

func (m *Manager) fail(url string, stage string, err error) {
	m.failed.Add(1)
	m.metrics.IncOutcome(outcomeFailure)
	m.metrics.IncError(stage)
	m.progress(ProgressEvent{Message: fmt.Sprintf("Failed to download %s: %v", url, err), Level: LevelError})
	m.logger.Debug("snapshot failed",
		slog.String("url", url),
		slog.String("stage", stage),
		slog.Any("error", err),
	)
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}

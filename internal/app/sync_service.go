package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"

	"github.com/jsamuelsen/quote-sync/internal/domain"
	"github.com/jsamuelsen/quote-sync/internal/platform/logging"
	"github.com/jsamuelsen/quote-sync/internal/platform/telemetry"
	"github.com/jsamuelsen/quote-sync/internal/ports"
)

const (
	// DefaultPushConcurrency bounds concurrent submits when none is configured.
	DefaultPushConcurrency = 4

	syncFlightKey = "sync"
)

// SyncServiceConfig contains the dependencies and schedule of the sync service.
type SyncServiceConfig struct {
	State  *State
	Remote ports.RemoteQuoteSource

	// Observer is notified after every cycle. Optional.
	Observer ports.SyncObserver

	// PushConcurrency bounds concurrent submits. Defaults to DefaultPushConcurrency.
	PushConcurrency int

	// InitialDelay is the wait before the first scheduled cycle.
	InitialDelay time.Duration

	// Interval is the period between scheduled cycles. Run refuses a non-positive interval.
	Interval time.Duration

	Logger *slog.Logger

	// Now overrides the clock. Defaults to time.Now.
	Now func() time.Time
}

// SyncStatus is the externally visible sync state.
type SyncStatus struct {
	LastSync   time.Time          `json:"lastSync"`
	InFlight   bool               `json:"inFlight"`
	LastReport *domain.SyncReport `json:"lastReport,omitempty"`
}

// SyncService reconciles the local collection with the remote source:
// push local changes, fetch the remote batch, merge, persist.
// At most one cycle runs at a time; overlapping callers share its report.
type SyncService struct {
	state       *State
	remote      ports.RemoteQuoteSource
	observer    ports.SyncObserver
	concurrency int
	delay       time.Duration
	interval    time.Duration
	logger      *slog.Logger
	now         func() time.Time

	flight     singleflight.Group
	inFlight   atomic.Bool
	lastReport atomic.Pointer[domain.SyncReport]
}

// NewSyncService creates a sync service.
// Panics if State or Remote is nil.
func NewSyncService(cfg SyncServiceConfig) *SyncService {
	if cfg.State == nil {
		panic("SyncService: State is required")
	}

	if cfg.Remote == nil {
		panic("SyncService: Remote is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	concurrency := cfg.PushConcurrency
	if concurrency <= 0 {
		concurrency = DefaultPushConcurrency
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &SyncService{
		state:       cfg.State,
		remote:      cfg.Remote,
		observer:    cfg.Observer,
		concurrency: concurrency,
		delay:       cfg.InitialDelay,
		interval:    cfg.Interval,
		logger:      logger.With(slog.String("component", "app.SyncService")),
		now:         func() time.Time { return domain.TruncateMillis(now()) },
	}
}

// SyncNow runs one cycle, or joins the one already running.
//
// A failed fetch is not an error: the report comes back with Offline set and
// nothing is changed. An error means the merged state could not be saved.
func (s *SyncService) SyncNow(ctx context.Context) (domain.SyncReport, error) {
	// The cycle may outlive the caller that started it; joiners still need its result.
	detached := context.WithoutCancel(ctx)

	v, err, shared := s.flight.Do(syncFlightKey, func() (any, error) {
		return s.cycle(detached)
	})
	if shared {
		s.logger.DebugContext(ctx, "joined in-flight sync")
	}

	report, _ := v.(domain.SyncReport)

	return report, err
}

// Status reports the last successful sync time and whether a cycle is running.
func (s *SyncService) Status(_ context.Context) (SyncStatus, error) {
	snap, err := s.state.Snapshot()
	if err != nil {
		return SyncStatus{}, err
	}

	return SyncStatus{
		LastSync:   snap.LastSync,
		InFlight:   s.inFlight.Load(),
		LastReport: s.lastReport.Load(),
	}, nil
}

// Run triggers cycles on the configured schedule until ctx is cancelled.
// The first cycle fires after InitialDelay, then one every Interval.
func (s *SyncService) Run(ctx context.Context) error {
	if s.interval <= 0 {
		return fmt.Errorf("sync interval must be positive, got %s", s.interval)
	}

	ctx = logging.WithContext(ctx, s.logger)
	s.logger.InfoContext(ctx, "sync loop started",
		slog.Duration("initial_delay", s.delay),
		slog.Duration("interval", s.interval),
	)

	first := time.NewTimer(s.delay)
	defer first.Stop()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "sync loop stopped")
			return nil
		case <-first.C:
		case <-ticker.C:
		}

		if _, err := s.SyncNow(ctx); err != nil {
			s.logger.ErrorContext(ctx, "scheduled sync failed", slog.Any("error", err))
		}
	}
}

func (s *SyncService) cycle(ctx context.Context) (report domain.SyncReport, err error) {
	s.inFlight.Store(true)
	defer s.inFlight.Store(false)

	syncID := uuid.NewString()
	ctx = logging.WithSyncID(ctx, syncID)
	logger := logging.FromContext(ctx)

	ctx, span := telemetry.StartSpan(ctx, "sync.cycle", attribute.String("sync.id", syncID))
	defer func() {
		span.SetAttributes(
			attribute.Int("sync.pushed", report.Pushed),
			attribute.Int("sync.added", report.Added),
			attribute.Int("sync.conflicts", report.Conflicts),
			attribute.Bool("sync.offline", report.Offline),
		)
		telemetry.EndSpan(span, err)
	}()

	started := time.Now()
	report = domain.SyncReport{StartedAt: s.now()}

	snap, err := s.state.Snapshot()
	if err != nil {
		return report, err
	}

	report.Pushed = s.push(ctx, snap.PendingPush())

	incoming, err := s.remote.FetchRecent(ctx)
	if err != nil {
		logger.WarnContext(ctx, "remote fetch failed, skipping merge", slog.Any("error", err))

		report.Offline = true
		report.Warning = domain.OfflineWarning
		report.Pending = len(snap.Conflicts)

		return s.finish(ctx, report, started, nil)
	}

	now := s.now()

	_, err = s.state.Update(ctx, func(cur domain.Snapshot) (domain.Snapshot, error) {
		merged := domain.Merge(cur.Quotes, incoming, now)

		cur.Quotes = merged.Quotes
		cur.Conflicts = domain.MergePending(cur.Conflicts, merged.Conflicts)
		cur.LastSync = now

		report.Added = merged.Added
		report.Conflicts = len(merged.Conflicts)
		report.Pending = len(cur.Conflicts)

		return cur, nil
	})
	if err != nil {
		return s.finish(ctx, report, started, fmt.Errorf("persisting sync result: %w", err))
	}

	return s.finish(ctx, report, started, nil)
}

// push submits records concurrently. Submit failures are logged and otherwise ignored.
func (s *SyncService) push(ctx context.Context, pending []domain.Quote) int {
	if len(pending) == 0 {
		return 0
	}

	fns := make([]func(context.Context) (string, error), len(pending))
	for i, q := range pending {
		fns[i] = func(ctx context.Context) (string, error) {
			return q.ID, s.remote.Submit(ctx, q)
		}
	}

	results := ParallelPartialLimit(ctx, s.concurrency, fns...)
	if failed := CountFailed(results); failed > 0 {
		logging.FromContext(ctx).WarnContext(ctx, "some local changes were not accepted by the remote",
			slog.Int("failed", failed),
			slog.Int("attempted", len(pending)),
			slog.Any("first_error", FirstError(results)),
		)
	}

	return len(pending)
}

func (s *SyncService) finish(ctx context.Context, report domain.SyncReport, started time.Time, err error) (domain.SyncReport, error) {
	report.FinishedAt = s.now()
	elapsed := time.Since(started)

	if s.observer != nil {
		s.observer.ObserveSync(report, elapsed, err)
	}

	logger := logging.FromContext(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "sync failed", slog.Any("error", err), slog.Duration("duration", elapsed))
		return report, err
	}

	stored := report
	s.lastReport.Store(&stored)

	level := slog.LevelInfo
	if report.Offline {
		level = slog.LevelWarn
	}

	logger.Log(ctx, level, report.Summary(),
		slog.Int("pushed", report.Pushed),
		slog.Int("added", report.Added),
		slog.Int("conflicts", report.Conflicts),
		slog.Int("pending", report.Pending),
		slog.Bool("offline", report.Offline),
		slog.Duration("duration", elapsed),
	)

	return report, nil
}

// IsOffline reports whether err or report indicates the remote could not be reached.
func IsOffline(report domain.SyncReport, err error) bool {
	return report.Offline || errors.Is(err, domain.ErrUnavailable)
}

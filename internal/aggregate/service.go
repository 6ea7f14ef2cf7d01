// Package aggregate composes the source readers into the dashboard views.
// Every view is rebuilt on each call; nothing is cached or shared between
// requests.
package aggregate

import (
	"context"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vburojevic/sysdash/internal/config"
	"github.com/vburojevic/sysdash/internal/domain"
	"github.com/vburojevic/sysdash/internal/metrics"
	"github.com/vburojevic/sysdash/internal/source"
)

// Service builds snapshots from the configured sources
type Service struct {
	cfg     *config.Config
	paths   config.Paths
	reader  *source.Reader
	clock   clock.Clock
	log     *zap.Logger
	metrics *metrics.Metrics
}

// Option configures a Service
type Option func(*Service)

// WithClock overrides the clock used for snapshot timestamps
func WithClock(c clock.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithMetrics records collection timings
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService creates an aggregator over reader
func NewService(cfg *config.Config, reader *source.Reader, log *zap.Logger, opts ...Option) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{
		cfg:    cfg,
		paths:  cfg.Paths(),
		reader: reader,
		clock:  clock.New(),
		log:    log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Status collects a host snapshot. The readers run concurrently and each
// writes only its own result; a failed reader leaves its field at the
// default without affecting the others. The snapshot is not a consistent
// point in time.
func (s *Service) Status(ctx context.Context) domain.StatusSnapshot {
	start := s.clock.Now()
	snap := domain.NewStatusSnapshot(s.cfg.Hostname, start)

	var (
		disk     source.Result[int]
		memory   source.Result[int]
		load     source.Result[float64]
		uptime   source.Result[string]
		firewall source.Result[domain.FirewallState]
	)

	// Readers never fail, so the group is used only to fan out and join.
	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error { disk = s.reader.DiskUsage(gctx); return nil })
	group.Go(func() error { memory = s.reader.MemoryUsage(gctx); return nil })
	group.Go(func() error { load = s.reader.LoadAverage(gctx); return nil })
	group.Go(func() error { uptime = s.reader.Uptime(gctx); return nil })
	group.Go(func() error { firewall = s.reader.Firewall(gctx); return nil })
	_ = group.Wait()

	snap.DiskUsagePct = disk.Ptr()
	snap.MemoryUsagePct = memory.Ptr()
	snap.LoadAvg = load.Ptr()
	snap.Uptime = uptime.Value
	snap.Firewall = firewall.Value

	s.metrics.ObserveStatus(s.clock.Since(start))
	return snap
}

// Alerts returns the current alert summary
func (s *Service) Alerts() domain.AlertSummary {
	return s.reader.Alerts(s.paths.Alerts).Value
}

// Recommendations returns the current recommendation set
func (s *Service) Recommendations() domain.RecommendationSet {
	return s.reader.Recommendations(s.paths.Recommendations).Value
}

// Apps returns the monitored applications registry
func (s *Service) Apps() domain.MonitoredApps {
	return s.reader.MonitoredApps(s.paths.MonitoredApps).Value
}

// Activity returns the last lines of the activity log
func (s *Service) Activity(lines int) []string {
	return s.reader.Tail(s.paths.ActivityLog, s.clampLines(lines)).Value
}

// Logs returns the last lines of the selected log
func (s *Service) Logs(logType domain.LogType, lines int) []string {
	return s.reader.Tail(s.LogPath(logType), s.clampLines(lines)).Value
}

// LogPath resolves the file behind a log type
func (s *Service) LogPath(logType domain.LogType) string {
	if logType == domain.LogTypeActivity {
		return s.paths.ActivityLog
	}
	return s.paths.SystemLog
}

// Report returns the latest report document
func (s *Service) Report() domain.ReportDocument {
	return s.reader.Report(s.paths.Report).Value
}

// Overview bundles status, alerts and recent activity for the dashboard
func (s *Service) Overview(ctx context.Context, lines int) domain.Overview {
	var out domain.Overview
	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error { out.Status = s.Status(gctx); return nil })
	group.Go(func() error { out.Alerts = s.Alerts(); return nil })
	group.Go(func() error { out.Activity = s.Activity(lines); return nil })
	_ = group.Wait()
	return out
}

func (s *Service) clampLines(n int) int {
	return source.ClampLines(n, s.cfg.Lines.Default, s.cfg.Lines.Max)
}

// Package source holds the isolated accessors for every signal the
// dashboard reports: host commands, procfs, the job-written documents and
// log files. Each reader resolves failures locally to a default value and
// logs them; none of them returns an error to its caller.
package source

import (
	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/vburojevic/sysdash/internal/metrics"
)

// Source names used in logs and metrics
const (
	SourceDisk            = "disk"
	SourceMemory          = "memory"
	SourceLoad            = "load"
	SourceUptime          = "uptime"
	SourceFirewall        = "firewall"
	SourceAlerts          = "alerts"
	SourceRecommendations = "recommendations"
	SourceApps            = "apps"
	SourceReport          = "report"
	SourceLog             = "log"
)

// Reader reads host and file sources
type Reader struct {
	runner      Runner
	log         *zap.Logger
	metrics     *metrics.Metrics
	loadavgPath string
	euid        func() int
}

// Option configures a Reader
type Option func(*Reader)

// WithMetrics counts fallbacks per source
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Reader) { r.metrics = m }
}

// WithLoadavgPath overrides /proc/loadavg
func WithLoadavgPath(path string) Option {
	return func(r *Reader) { r.loadavgPath = path }
}

// WithEUID overrides the effective uid lookup used by the firewall reader
func WithEUID(fn func() int) Option {
	return func(r *Reader) { r.euid = fn }
}

// NewReader creates a reader. A nil logger is replaced by a no-op logger.
func NewReader(runner Runner, log *zap.Logger, opts ...Option) *Reader {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Reader{
		runner:      runner,
		log:         log,
		loadavgPath: "/proc/loadavg",
		euid:        unix.Geteuid,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// fail logs a source failure and counts the fallback
func (r *Reader) fail(source string, err error, fields ...zap.Field) {
	fields = append([]zap.Field{zap.String("source", source), zap.Error(err)}, fields...)
	r.log.Warn("source unavailable, using default", fields...)
	r.metrics.Fallback(source)
}

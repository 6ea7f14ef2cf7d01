package aggregate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/vburojevic/sysdash/internal/config"
	"github.com/vburojevic/sysdash/internal/domain"
	"github.com/vburojevic/sysdash/internal/metrics"
	"github.com/vburojevic/sysdash/internal/source"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type requestKey struct{}

// perRequestRunner derives every command's output from the request id in
// the context so concurrent snapshots can be told apart.
func perRequestRunner() source.Runner {
	return source.RunnerFunc(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		id, _ := ctx.Value(requestKey{}).(int)
		pct := id % 100
		switch name {
		case "df":
			return []byte(fmt.Sprintf("Filesystem Size Used Avail Use%% Mounted on\n/dev/sda1 100G 1G 1G %d%% /\n", pct)), nil
		case "free":
			return []byte(fmt.Sprintf("       total used free\nMem:   1000 %d 0\n", pct*10)), nil
		case "uptime":
			return []byte(fmt.Sprintf("up %d minutes\n", id)), nil
		case "ufw":
			if id%2 == 0 {
				return []byte("Status: active\n"), nil
			}
			return []byte("Status: inactive\n"), nil
		}
		return nil, errors.New("unexpected command " + name)
	})
}

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Root = t.TempDir()
	cfg.Hostname = "test-host"
	cfg.SystemLog = filepath.Join(cfg.Root, "sysadmin.log")
	require.NoError(t, os.MkdirAll(cfg.ReportsDir(), 0o755))
	require.NoError(t, os.MkdirAll(cfg.ConfigDir(), 0o755))
	return cfg
}

func newTestService(t *testing.T, cfg *config.Config, runner source.Runner, opts ...Option) *Service {
	t.Helper()
	loadavg := filepath.Join(t.TempDir(), "loadavg")
	require.NoError(t, os.WriteFile(loadavg, []byte("0.75 0.50 0.25 1/100 1\n"), 0o644))
	reader := source.NewReader(runner, zap.NewNop(),
		source.WithLoadavgPath(loadavg),
		source.WithEUID(func() int { return 0 }),
	)
	return NewService(cfg, reader, zap.NewNop(), opts...)
}

func TestStatus(t *testing.T) {
	t.Run("assembles every field", func(t *testing.T) {
		cfg := newTestConfig(t)
		mock := clock.NewMock()
		now := time.Date(2026, 10, 17, 8, 30, 0, 0, time.UTC)
		mock.Set(now)

		svc := newTestService(t, cfg, perRequestRunner(), WithClock(mock))
		ctx := context.WithValue(context.Background(), requestKey{}, 42)
		snap := svc.Status(ctx)

		assert.Equal(t, "test-host", snap.Hostname)
		assert.True(t, now.Equal(snap.Timestamp))
		require.NotNil(t, snap.DiskUsagePct)
		assert.Equal(t, 42, *snap.DiskUsagePct)
		require.NotNil(t, snap.MemoryUsagePct)
		assert.Equal(t, 42, *snap.MemoryUsagePct)
		require.NotNil(t, snap.LoadAvg)
		assert.InDelta(t, 0.75, *snap.LoadAvg, 1e-9)
		assert.Equal(t, "42 minutes", snap.Uptime)
		assert.Equal(t, domain.FirewallActive, snap.Firewall)
	})

	t.Run("one failing reader degrades only its field", func(t *testing.T) {
		cfg := newTestConfig(t)
		base := perRequestRunner()
		runner := source.RunnerFunc(func(ctx context.Context, name string, args ...string) ([]byte, error) {
			if name == "free" {
				return nil, errors.New("free: not installed")
			}
			return base.Run(ctx, name, args...)
		})
		svc := newTestService(t, cfg, runner)
		snap := svc.Status(context.WithValue(context.Background(), requestKey{}, 7))

		assert.Nil(t, snap.MemoryUsagePct)
		require.NotNil(t, snap.DiskUsagePct)
		assert.Equal(t, 7, *snap.DiskUsagePct)
		assert.Equal(t, "7 minutes", snap.Uptime)
		assert.Equal(t, domain.FirewallInactive, snap.Firewall)
	})

	t.Run("every reader failing yields defaults", func(t *testing.T) {
		cfg := newTestConfig(t)
		runner := source.RunnerFunc(func(context.Context, string, ...string) ([]byte, error) {
			return nil, errors.New("boom")
		})
		reg := prometheus.NewRegistry()
		m := metrics.New(reg)
		reader := source.NewReader(runner, zap.NewNop(),
			source.WithLoadavgPath("/nonexistent/loadavg"),
			source.WithMetrics(m),
		)
		svc := NewService(cfg, reader, zap.NewNop(), WithMetrics(m))

		snap := svc.Status(context.Background())
		assert.Equal(t, "test-host", snap.Hostname)
		assert.Nil(t, snap.DiskUsagePct)
		assert.Nil(t, snap.MemoryUsagePct)
		assert.Nil(t, snap.LoadAvg)
		assert.Equal(t, domain.UptimeUnknown, snap.Uptime)
		assert.Equal(t, domain.FirewallUnknown, snap.Firewall)

		for _, src := range []string{source.SourceDisk, source.SourceMemory, source.SourceLoad, source.SourceUptime, source.SourceFirewall} {
			assert.Equal(t, float64(1), testutil.ToFloat64(m.SourceFallbacks.WithLabelValues(src)), src)
		}
		assert.Equal(t, 1, testutil.CollectAndCount(m.StatusCollect))
	})

	t.Run("cancelled context resolves to defaults", func(t *testing.T) {
		cfg := newTestConfig(t)
		runner := source.RunnerFunc(func(ctx context.Context, name string, args ...string) ([]byte, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		})
		svc := newTestService(t, cfg, runner)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		snap := svc.Status(ctx)
		assert.Nil(t, snap.DiskUsagePct)
		assert.Equal(t, domain.FirewallUnknown, snap.Firewall)
	})
}

func TestStatusConcurrentRequestsAreIndependent(t *testing.T) {
	cfg := newTestConfig(t)
	svc := newTestService(t, cfg, perRequestRunner())

	const n = 64
	snaps := make([]domain.StatusSnapshot, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			snaps[i] = svc.Status(context.WithValue(context.Background(), requestKey{}, i))
		}(i)
	}
	wg.Wait()

	for i, snap := range snaps {
		require.NotNil(t, snap.DiskUsagePct, i)
		require.NotNil(t, snap.MemoryUsagePct, i)
		assert.Equal(t, i%100, *snap.DiskUsagePct, i)
		assert.Equal(t, i%100, *snap.MemoryUsagePct, i)
		assert.Equal(t, fmt.Sprintf("%d minutes", i), snap.Uptime, i)
		if i%2 == 0 {
			assert.Equal(t, domain.FirewallActive, snap.Firewall, i)
		} else {
			assert.Equal(t, domain.FirewallInactive, snap.Firewall, i)
		}
	}

	// Pointers must not be shared between snapshots
	assert.NotSame(t, snaps[0].DiskUsagePct, snaps[1].DiskUsagePct)
}

func TestDocumentViews(t *testing.T) {
	cfg := newTestConfig(t)
	svc := newTestService(t, cfg, perRequestRunner())
	paths := cfg.Paths()

	t.Run("defaults when nothing has been written", func(t *testing.T) {
		alerts := svc.Alerts()
		assert.Equal(t, 0, alerts.Total)
		assert.NotNil(t, alerts.Critical)

		recs := svc.Recommendations()
		assert.Equal(t, 0, recs.Count())

		assert.Empty(t, svc.Apps())
		assert.Empty(t, svc.Activity(10))
		assert.Empty(t, svc.Logs(domain.LogTypeSysadmin, 10))

		report := svc.Report()
		assert.Equal(t, domain.DefaultReportMarkdown, report.Markdown)
		assert.Nil(t, report.Timestamp)
	})

	t.Run("reads written documents", func(t *testing.T) {
		require.NoError(t, os.WriteFile(paths.Alerts, []byte(`{"high":[{"message":"a"}],"info":[{"message":"b"}],"total":9}`), 0o644))
		require.NoError(t, os.WriteFile(paths.MonitoredApps, []byte("apps:\n  nginx:\n    service: nginx\n"), 0o644))
		require.NoError(t, os.WriteFile(paths.Report, []byte("# Today\n"), 0o644))

		assert.Equal(t, 1, svc.Alerts().Total)
		assert.Contains(t, svc.Apps(), "nginx")
		report := svc.Report()
		assert.Contains(t, report.HTML, "<h1>Today</h1>")
		assert.NotNil(t, report.Timestamp)
	})
}

func TestLogs(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Lines.Default = 3
	cfg.Lines.Max = 5
	svc := newTestService(t, cfg, perRequestRunner())
	paths := cfg.Paths()

	var activity, system strings.Builder
	for i := 1; i <= 20; i++ {
		fmt.Fprintf(&activity, "activity %d\n", i)
		fmt.Fprintf(&system, "system %d\n", i)
	}
	require.NoError(t, os.WriteFile(paths.ActivityLog, []byte(activity.String()), 0o644))
	require.NoError(t, os.WriteFile(paths.SystemLog, []byte(system.String()), 0o644))

	t.Run("non-positive count uses default", func(t *testing.T) {
		assert.Equal(t, []string{"activity 18", "activity 19", "activity 20"}, svc.Activity(0))
		assert.Len(t, svc.Activity(-1), 3)
	})

	t.Run("count is clamped to max", func(t *testing.T) {
		assert.Len(t, svc.Activity(1_000_000), 5)
	})

	t.Run("log type selects file", func(t *testing.T) {
		assert.Equal(t, []string{"activity 20"}, svc.Logs(domain.LogTypeActivity, 1))
		assert.Equal(t, []string{"system 20"}, svc.Logs(domain.LogTypeSysadmin, 1))
		assert.Equal(t, []string{"system 20"}, svc.Logs(domain.ParseLogType("bogus"), 1))
	})

	t.Run("overview bundles views", func(t *testing.T) {
		ov := svc.Overview(context.WithValue(context.Background(), requestKey{}, 3), 2)
		assert.Equal(t, "test-host", ov.Status.Hostname)
		assert.Equal(t, []string{"activity 19", "activity 20"}, ov.Activity)
		assert.NotNil(t, ov.Alerts.Critical)
	})
}

package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vburojevic/sysdash/internal/domain"
)

func intPtr(v int) *int { return &v }

func TestJSONWriter(t *testing.T) {
	t.Run("leaves HTML unescaped", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewJSONWriter(&buf).Write(domain.ReportDocument{HTML: "<h1>r</h1>"}))
		assert.Contains(t, buf.String(), `"html":"<h1>r</h1>"`)
		assert.True(t, strings.HasSuffix(buf.String(), "\n"))
	})

	t.Run("writes error envelope", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewJSONWriter(&buf).WriteError("INVALID_JOB", "Invalid job type"))

		var out ErrorOutput
		require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
		assert.Equal(t, "error", out.Type)
		assert.Equal(t, SchemaVersion, out.SchemaVersion)
		assert.Equal(t, "INVALID_JOB", out.Code)
		assert.Equal(t, "Invalid job type", out.Message)
	})
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, Unknown, Percent(nil))
	assert.Equal(t, "42%", Percent(intPtr(42)))

	load := 0.5
	assert.Equal(t, Unknown, Load(nil))
	assert.Equal(t, "0.50", Load(&load))
}

func TestWriteStatus(t *testing.T) {
	snap := domain.NewStatusSnapshot("web-01", time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	snap.DiskUsagePct = intPtr(73)

	var buf bytes.Buffer
	require.NoError(t, WriteStatus(&buf, snap))
	out := buf.String()
	assert.Contains(t, out, "web-01")
	assert.Contains(t, out, "73%")
	assert.Contains(t, out, Unknown)
	assert.Contains(t, out, "2026-03-01T12:00:00Z")
}

func TestWriteAlerts(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteAlerts(&buf, domain.NewAlertSummary(nil, nil, nil, nil)))
		assert.Equal(t, "No alerts\n", buf.String())
	})

	t.Run("lists buckets", func(t *testing.T) {
		s := domain.NewAlertSummary(
			[]domain.Alert{{Title: "Disk full"}},
			nil,
			[]domain.Alert{{Title: "Swap high"}},
			[]domain.Alert{{Title: "Updated"}},
		)
		var buf bytes.Buffer
		require.NoError(t, WriteAlerts(&buf, s))
		out := buf.String()
		assert.Contains(t, out, "Disk full")
		assert.Contains(t, out, "Updated")
		assert.Less(t, strings.Index(out, "Disk full"), strings.Index(out, "Swap high"))
		assert.Contains(t, out, "Total: 2")
	})
}

func TestWriteApps(t *testing.T) {
	apps := domain.MonitoredApps{
		"web": map[string]any{"service": "nginx", "port": 443},
		"api": map[string]any{"service": "api"},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteApps(&buf, apps))
	out := buf.String()
	assert.Less(t, strings.Index(out, "api"), strings.Index(out, "web"))
	assert.Contains(t, out, "port=443 service=nginx")
}

func TestWriteLaunch(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLaunch(&buf, domain.JobLaunchResult{
		Job:       domain.JobDaily,
		Started:   true,
		Message:   "Daily maintenance job started",
		PID:       4242,
		Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}))
	assert.Equal(t, "Daily maintenance job started (pid 4242, 2026-03-01T12:00:00Z)\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteLaunch(&buf, domain.JobLaunchResult{
		Job:       domain.JobHourly,
		Started:   true,
		Message:   "Hourly maintenance job started",
		PID:       7,
		Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		LogPath:   "/srv/reports/jobs/hourly-abc.log",
	}))
	assert.Equal(t, "Hourly maintenance job started (pid 7, 2026-03-01T12:00:00Z)\nOutput: /srv/reports/jobs/hourly-abc.log\n", buf.String())
}

func TestUsageStyle(t *testing.T) {
	assert.Equal(t, Styles.Muted.Render("x"), UsageStyle(nil).Render("x"))
	assert.Equal(t, Styles.Danger.Render("x"), UsageStyle(intPtr(95)).Render("x"))
	assert.Equal(t, Styles.Success.Render("x"), UsageStyle(intPtr(10)).Render("x"))
}

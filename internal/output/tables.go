package output

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/vburojevic/sysdash/internal/domain"
)

// Unknown is printed in place of a value whose source could not be read
const Unknown = "n/a"

// Percent formats an optional percentage
func Percent(pct *int) string {
	if pct == nil {
		return Unknown
	}
	return strconv.Itoa(*pct) + "%"
}

// Load formats an optional load average
func Load(v *float64) string {
	if v == nil {
		return Unknown
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

// WriteStatus renders a status snapshot as a two-column table
func WriteStatus(w io.Writer, s domain.StatusSnapshot) error {
	table := tablewriter.NewWriter(w)
	table.Header("Metric", "Value")
	rows := [][]string{
		{"Hostname", s.Hostname},
		{"Timestamp", s.Timestamp.Format(time.RFC3339)},
		{"Disk usage", Percent(s.DiskUsagePct)},
		{"Memory usage", Percent(s.MemoryUsagePct)},
		{"Load average", Load(s.LoadAvg)},
		{"Uptime", s.Uptime},
		{"Firewall", string(s.Firewall)},
	}
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

// WriteAlerts renders every alert with its severity, most severe first
func WriteAlerts(w io.Writer, s domain.AlertSummary) error {
	if len(s.Critical)+len(s.High)+len(s.Medium)+len(s.Info) == 0 {
		_, err := fmt.Fprintln(w, "No alerts")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header("Severity", "Title", "Message", "Source", "Timestamp")
	buckets := []struct {
		sev    domain.Severity
		alerts []domain.Alert
	}{
		{domain.SeverityCritical, s.Critical},
		{domain.SeverityHigh, s.High},
		{domain.SeverityMedium, s.Medium},
		{domain.SeverityInfo, s.Info},
	}
	for _, b := range buckets {
		for _, a := range b.alerts {
			if err := table.Append([]string{string(b.sev), a.Title, a.Message, a.Source, a.Timestamp}); err != nil {
				return err
			}
		}
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Total: %d\n", s.Total)
	return err
}

// WriteRecommendations renders every recommendation with its bucket
func WriteRecommendations(w io.Writer, r domain.RecommendationSet) error {
	if r.Count() == 0 {
		_, err := fmt.Fprintln(w, "No recommendations")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header("Priority", "Title", "Description", "Action", "Impact")
	buckets := []struct {
		name string
		recs []domain.Recommendation
	}{
		{"critical", r.Critical},
		{"high", r.High},
		{"medium", r.Medium},
		{"optimization", r.Optimizations},
	}
	for _, b := range buckets {
		for _, rec := range b.recs {
			if err := table.Append([]string{b.name, rec.Title, rec.Description, rec.Action, rec.Impact}); err != nil {
				return err
			}
		}
	}
	return table.Render()
}

// WriteApps renders monitored apps sorted by name. Each app's config block
// is flattened to key=value pairs.
func WriteApps(w io.Writer, apps domain.MonitoredApps) error {
	if len(apps) == 0 {
		_, err := fmt.Fprintln(w, "No monitored apps")
		return err
	}

	names := make([]string, 0, len(apps))
	for name := range apps {
		names = append(names, name)
	}
	sort.Strings(names)

	table := tablewriter.NewWriter(w)
	table.Header("App", "Config")
	for _, name := range names {
		if err := table.Append([]string{name, flatten(apps[name])}); err != nil {
			return err
		}
	}
	return table.Render()
}

func flatten(v any) string {
	m, ok := v.(map[string]any)
	if !ok {
		if v == nil {
			return ""
		}
		return fmt.Sprint(v)
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, m[k]))
	}
	return strings.Join(parts, " ")
}

// WriteLaunch prints the outcome of a job launch
func WriteLaunch(w io.Writer, r domain.JobLaunchResult) error {
	if !r.Started {
		_, err := fmt.Fprintf(w, "%s job not started: %s\n", r.Job, r.Error)
		return err
	}
	if _, err := fmt.Fprintf(w, "%s (pid %d, %s)\n", r.Message, r.PID, r.Timestamp.Format(time.RFC3339)); err != nil {
		return err
	}
	if r.LogPath != "" {
		_, err := fmt.Fprintf(w, "Output: %s\n", r.LogPath)
		return err
	}
	return nil
}

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/vburojevic/sysdash/internal/domain"
	"github.com/vburojevic/sysdash/internal/output"
)

// StatusCmd prints the host status snapshot
type StatusCmd struct {
	Activity int `short:"n" default:"0" help:"Also show the last N activity lines"`
}

// Run executes the status command
func (c *StatusCmd) Run(globals *Globals) error {
	a := newApp(globals)
	ctx := context.Background()

	if c.Activity > 0 {
		ov := a.service.Overview(ctx, c.Activity)
		if globals.Format == "json" {
			return output.NewJSONWriter(globals.Stdout).Write(ov)
		}
		if err := output.WriteStatus(globals.Stdout, ov.Status); err != nil {
			return err
		}
		fmt.Fprintf(globals.Stdout, "\nAlerts: %s (%d)\n\n", output.AlertsText(ov.Alerts), ov.Alerts.Total)
		return writeLines(globals, ov.Activity)
	}

	snap := a.service.Status(ctx)
	if globals.Format == "json" {
		return output.NewJSONWriter(globals.Stdout).Write(snap)
	}
	return output.WriteStatus(globals.Stdout, snap)
}

// AlertsCmd prints the alert summary
type AlertsCmd struct{}

// Run executes the alerts command
func (c *AlertsCmd) Run(globals *Globals) error {
	s := newApp(globals).service.Alerts()
	if globals.Format == "json" {
		return output.NewJSONWriter(globals.Stdout).Write(s)
	}
	return output.WriteAlerts(globals.Stdout, s)
}

// RecommendationsCmd prints the recommendation set
type RecommendationsCmd struct{}

// Run executes the recommendations command
func (c *RecommendationsCmd) Run(globals *Globals) error {
	r := newApp(globals).service.Recommendations()
	if globals.Format == "json" {
		return output.NewJSONWriter(globals.Stdout).Write(r)
	}
	return output.WriteRecommendations(globals.Stdout, r)
}

// AppsCmd lists monitored apps
type AppsCmd struct{}

// Run executes the apps command
func (c *AppsCmd) Run(globals *Globals) error {
	apps := newApp(globals).service.Apps()
	if globals.Format == "json" {
		return output.NewJSONWriter(globals.Stdout).Write(apps)
	}
	return output.WriteApps(globals.Stdout, apps)
}

// ReportCmd prints the latest report
type ReportCmd struct {
	HTML bool `help:"Print the rendered HTML instead of markdown"`
}

// Run executes the report command
func (c *ReportCmd) Run(globals *Globals) error {
	doc := newApp(globals).service.Report()
	if globals.Format == "json" {
		return output.NewJSONWriter(globals.Stdout).Write(doc)
	}
	body := doc.Markdown
	if c.HTML {
		body = doc.HTML
	}
	if !strings.HasSuffix(body, "\n") {
		body += "\n"
	}
	_, err := fmt.Fprint(globals.Stdout, body)
	return err
}

// LogsCmd prints the tail of a log
type LogsCmd struct {
	Type  string `short:"t" default:"sysadmin" help:"Log to read: activity or sysadmin"`
	Lines int    `short:"n" default:"0" help:"Number of lines (default from config, capped at lines.max)"`
}

// Run executes the logs command
func (c *LogsCmd) Run(globals *Globals) error {
	logType := domain.ParseLogType(c.Type)
	lines := newApp(globals).service.Logs(logType, c.Lines)
	if globals.Format == "json" {
		return output.NewJSONWriter(globals.Stdout).Write(map[string][]string{"lines": lines})
	}
	return writeLines(globals, lines)
}

func writeLines(globals *Globals, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(globals.Stdout, line); err != nil {
			return err
		}
	}
	return nil
}

package cli

import (
	"fmt"

	"github.com/vburojevic/sysdash/internal/config"
	"github.com/vburojevic/sysdash/internal/output"
)

// ConfigCmd shows or manages configuration
type ConfigCmd struct {
	Show     ConfigShowCmd     `cmd:"" default:"withargs" help:"Show current configuration and resolved paths"`
	Path     ConfigPathCmd     `cmd:"" help:"Show configuration file path"`
	Generate ConfigGenerateCmd `cmd:"" help:"Generate sample configuration file"`
}

// ConfigShowCmd shows current configuration
type ConfigShowCmd struct{}

// Run executes the config show command
func (c *ConfigShowCmd) Run(globals *Globals) error {
	cfg := globals.Config
	if cfg == nil {
		cfg = config.Default()
	}
	paths := cfg.Paths()

	if globals.Format == "json" {
		return output.NewJSONWriter(globals.Stdout).Write(map[string]interface{}{
			"type":             "config",
			"listen":           cfg.Listen,
			"format":           cfg.Format,
			"log_level":        cfg.LogLevel,
			"hostname":         cfg.Hostname,
			"command_timeout":  cfg.CommandTimeout.String(),
			"refresh_interval": cfg.RefreshInterval.String(),
			"lines":            map[string]int{"default": cfg.Lines.Default, "max": cfg.Lines.Max},
			"paths":            paths,
			"config_file":      config.ConfigFile(),
		})
	}

	w := globals.Stdout
	fmt.Fprintln(w, "Current Configuration:")
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "  listen:           %s\n", cfg.Listen)
	fmt.Fprintf(w, "  format:           %s\n", cfg.Format)
	fmt.Fprintf(w, "  log_level:        %s\n", cfg.LogLevel)
	fmt.Fprintf(w, "  hostname:         %s\n", cfg.Hostname)
	fmt.Fprintf(w, "  command_timeout:  %s\n", cfg.CommandTimeout)
	fmt.Fprintf(w, "  refresh_interval: %s\n", cfg.RefreshInterval)
	fmt.Fprintf(w, "  lines:            default %d, max %d\n", cfg.Lines.Default, cfg.Lines.Max)
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Paths:")
	fmt.Fprintf(w, "  root:             %s\n", paths.Root)
	fmt.Fprintf(w, "  reports_dir:      %s\n", paths.ReportsDir)
	fmt.Fprintf(w, "  config_dir:       %s\n", paths.ConfigDir)
	fmt.Fprintf(w, "  admin_dir:        %s\n", paths.AdminDir)
	fmt.Fprintf(w, "  job_logs_dir:     %s\n", paths.JobLogsDir)
	fmt.Fprintf(w, "  alerts:           %s\n", paths.Alerts)
	fmt.Fprintf(w, "  recommendations:  %s\n", paths.Recommendations)
	fmt.Fprintf(w, "  activity_log:     %s\n", paths.ActivityLog)
	fmt.Fprintf(w, "  report:           %s\n", paths.Report)
	fmt.Fprintf(w, "  monitored_apps:   %s\n", paths.MonitoredApps)
	fmt.Fprintf(w, "  system_log:       %s\n", paths.SystemLog)

	if path := config.ConfigFile(); path != "" {
		fmt.Fprintln(w, "")
		fmt.Fprintf(w, "Loaded from: %s\n", path)
	}
	return nil
}

// ConfigPathCmd shows config file path
type ConfigPathCmd struct{}

// Run executes the config path command
func (c *ConfigPathCmd) Run(globals *Globals) error {
	path := config.ConfigFile()

	if globals.Format == "json" {
		return output.NewJSONWriter(globals.Stdout).Write(map[string]interface{}{
			"type": "config_path",
			"path": path,
		})
	}

	if path == "" {
		fmt.Fprintln(globals.Stdout, "No configuration file found")
		fmt.Fprintln(globals.Stdout, "")
		fmt.Fprintln(globals.Stdout, "Create one at:")
		fmt.Fprintln(globals.Stdout, "  ./.sysdash.yaml")
		fmt.Fprintln(globals.Stdout, "  ~/.sysdash.yaml")
		fmt.Fprintln(globals.Stdout, "  /etc/sysdash/config.yaml")
	} else {
		fmt.Fprintf(globals.Stdout, "Config file: %s\n", path)
	}
	return nil
}

// ConfigGenerateCmd generates a sample configuration file
type ConfigGenerateCmd struct{}

// Run executes the config generate command
func (c *ConfigGenerateCmd) Run(globals *Globals) error {
	sampleConfig := `# sysdash configuration file
# Place this file at ./.sysdash.yaml, ~/.sysdash.yaml or /etc/sysdash/config.yaml

# Address the dashboard listens on
listen: 127.0.0.1:5050

# CLI output format: "text" or "json" (json is used automatically when piped)
format: text

# Diagnostic log level: debug, info, warn, error
log_level: info

# Hostname used for the reports directory (default: os hostname)
# hostname: web-01

# Sysadmin root: reports/<hostname>, config/ and claude-admin/ live here
root: /opt/sysadmin

# System log read by /api/logs
system_log: /var/log/sysadmin/sysadmin.log

# Per-command timeout for df, free, uptime and ufw
command_timeout: 3s

# Terminal dashboard refresh interval
refresh_interval: 5s

# Log tail bounds
lines:
  default: 100
  max: 5000
`
	fmt.Fprint(globals.Stdout, sampleConfig)
	return nil
}

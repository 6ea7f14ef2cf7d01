package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration. It is built once at startup and
// passed explicitly to every component.
type Config struct {
	// Global settings
	Listen   string `mapstructure:"listen"`
	Format   string `mapstructure:"format"`
	LogLevel string `mapstructure:"log_level"`
	Hostname string `mapstructure:"hostname"`

	// Root is the sysadmin directory holding reports/, config/ and the
	// job scripts.
	Root      string `mapstructure:"root"`
	SystemLog string `mapstructure:"system_log"`

	CommandTimeout  time.Duration `mapstructure:"command_timeout"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`

	Lines LinesConfig `mapstructure:"lines"`
}

// LinesConfig bounds log tail requests
type LinesConfig struct {
	Default int `mapstructure:"default"`
	Max     int `mapstructure:"max"`
}

// Paths lists every on-disk location the dashboard reads from
type Paths struct {
	Root            string `json:"root"`
	ReportsDir      string `json:"reports_dir"`
	ConfigDir       string `json:"config_dir"`
	AdminDir        string `json:"admin_dir"`
	JobLogsDir      string `json:"job_logs_dir"`
	Alerts          string `json:"alerts"`
	Recommendations string `json:"recommendations"`
	ActivityLog     string `json:"activity_log"`
	Report          string `json:"report"`
	MonitoredApps   string `json:"monitored_apps"`
	SystemLog       string `json:"system_log"`
}

const (
	defaultListen          = "127.0.0.1:5050"
	defaultRoot            = "/opt/sysadmin"
	defaultSystemLog       = "/var/log/sysadmin/sysadmin.log"
	defaultCommandTimeout  = 3 * time.Second
	defaultRefreshInterval = 5 * time.Second
	defaultLines           = 100
	defaultMaxLines        = 5000
)

// Default returns a Config with default values
func Default() *Config {
	return &Config{
		Listen:          defaultListen,
		Format:          "text",
		LogLevel:        "info",
		Hostname:        hostname(),
		Root:            defaultRoot,
		SystemLog:       defaultSystemLog,
		CommandTimeout:  defaultCommandTimeout,
		RefreshInterval: defaultRefreshInterval,
		Lines: LinesConfig{
			Default: defaultLines,
			Max:     defaultMaxLines,
		},
	}
}

// Load loads configuration from files and environment
// Config file search order (highest precedence first):
// 1. ./.sysdash.yaml, ./.sysdash.yml, ./sysdash.yaml or ./sysdash.yml
// 2. the same names in the home directory
// 3. $XDG_CONFIG_HOME/sysdash/config.yaml (or ~/.config/sysdash/config.yaml)
// 4. /etc/sysdash/config.yaml
func Load() (*Config, error) {
	cfg := Default()

	configFile := findConfigFile()
	if configFile != "" {
		loaded, err := LoadFromFile(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	applyEnvOverrides(cfg)
	cfg.normalize()

	return cfg, nil
}

// LoadFromFile loads configuration from a specific file
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	cfg.normalize()

	return cfg, nil
}

// ConfigFile returns the path to the config file that would be loaded
func ConfigFile() string {
	return findConfigFile()
}

// ReportsDir is the per-host directory the maintenance jobs write into
func (c *Config) ReportsDir() string {
	return filepath.Join(c.Root, "reports", c.Hostname)
}

// ConfigDir holds shared configuration such as the monitored apps list
func (c *Config) ConfigDir() string {
	return filepath.Join(c.Root, "config")
}

// AdminDir holds the job scripts. It is always relative to Root.
func (c *Config) AdminDir() string {
	return filepath.Join(c.Root, "claude-admin")
}

// JobLogsDir holds one output file per job launch
func (c *Config) JobLogsDir() string {
	return filepath.Join(c.ReportsDir(), "jobs")
}

// Paths resolves every file location from the config
func (c *Config) Paths() Paths {
	reports := c.ReportsDir()
	return Paths{
		Root:            c.Root,
		ReportsDir:      reports,
		ConfigDir:       c.ConfigDir(),
		AdminDir:        c.AdminDir(),
		JobLogsDir:      c.JobLogsDir(),
		Alerts:          filepath.Join(reports, "alerts.json"),
		Recommendations: filepath.Join(reports, "recommendations.json"),
		ActivityLog:     filepath.Join(reports, "activity.log"),
		Report:          filepath.Join(reports, "latest.md"),
		MonitoredApps:   filepath.Join(c.ConfigDir(), "monitored-apps.yaml"),
		SystemLog:       c.SystemLog,
	}
}

// normalize resets out-of-range values to their defaults
func (c *Config) normalize() {
	if c.Listen == "" {
		c.Listen = defaultListen
	}
	if c.Hostname == "" {
		c.Hostname = hostname()
	}
	if c.Root == "" {
		c.Root = defaultRoot
	}
	if c.SystemLog == "" {
		c.SystemLog = defaultSystemLog
	}
	if c.CommandTimeout <= 0 {
		c.CommandTimeout = defaultCommandTimeout
	}
	if c.RefreshInterval <= 0 {
		c.RefreshInterval = defaultRefreshInterval
	}
	if c.Lines.Max <= 0 {
		c.Lines.Max = defaultMaxLines
	}
	if c.Lines.Default <= 0 {
		c.Lines.Default = defaultLines
	}
	if c.Lines.Default > c.Lines.Max {
		c.Lines.Default = c.Lines.Max
	}
}

// findConfigFile searches for config file in standard locations
func findConfigFile() string {
	names := []string{".sysdash.yaml", ".sysdash.yml", "sysdash.yaml", "sysdash.yml"}

	home, homeErr := os.UserHomeDir()
	configDir, configDirErr := os.UserConfigDir()

	var searchPaths []string

	// 1. Current directory
	if cwd, err := os.Getwd(); err == nil {
		searchPaths = append(searchPaths, cwd)
	}

	// 2. Home directory
	if homeErr == nil {
		searchPaths = append(searchPaths, home)
	}

	// 3. Config directory (e.g., ~/.config/sysdash/)
	if configDirErr == nil {
		searchPaths = append(searchPaths, filepath.Join(configDir, "sysdash"))
	}

	// 4. System config
	searchPaths = append(searchPaths, "/etc/sysdash")

	for _, dir := range searchPaths {
		for _, name := range names {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}

	// config.yaml is only accepted from dedicated config directories
	dedicated := []string{"/etc/sysdash"}
	if configDirErr == nil {
		dedicated = append([]string{filepath.Join(configDir, "sysdash")}, dedicated...)
	}
	for _, dir := range dedicated {
		path := filepath.Join(dir, "config.yaml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SYSDASH_LISTEN"); v != "" {
		cfg.Listen = v
	}
	if v := os.Getenv("SYSDASH_ROOT"); v != "" {
		cfg.Root = v
	}
	if v := os.Getenv("SYSDASH_HOSTNAME"); v != "" {
		cfg.Hostname = v
	}
	if v := os.Getenv("SYSDASH_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("SYSDASH_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("SYSDASH_SYSTEM_LOG"); v != "" {
		cfg.SystemLog = v
	}
	if v := os.Getenv("SYSDASH_COMMAND_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.CommandTimeout = d
		} else if secs, err := strconv.Atoi(v); err == nil {
			cfg.CommandTimeout = time.Duration(secs) * time.Second
		}
	}
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil || h == "" {
		return "localhost"
	}
	return h
}

package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/vburojevic/sysdash/internal/config"
	"github.com/vburojevic/sysdash/internal/logging"
	"github.com/vburojevic/sysdash/internal/output"
	"github.com/vburojevic/sysdash/internal/source"
)

// CLI is the root command structure for sysdash
type CLI struct {
	// Global flags
	Format   string `short:"f" default:"${config_format}" enum:"json,text" help:"Output format"`
	LogLevel string `default:"${config_log_level}" enum:"debug,info,warn,error" help:"Minimum level for diagnostic logs on stderr"`
	Root     string `help:"Override the sysadmin root directory"`
	Hostname string `help:"Override the hostname used for the reports directory"`
	Verbose  bool   `short:"v" help:"Show debug output"`

	// Commands
	Serve           ServeCmd           `cmd:"" help:"Run the HTTP dashboard"`
	Status          StatusCmd          `cmd:"" help:"Show disk, memory, load, uptime and firewall state"`
	Alerts          AlertsCmd          `cmd:"" help:"Show alerts written by the maintenance jobs"`
	Recommendations RecommendationsCmd `cmd:"" help:"Show recommendations from the daily job"`
	Apps            AppsCmd            `cmd:"" help:"List monitored apps"`
	Report          ReportCmd          `cmd:"" help:"Print the latest maintenance report"`
	Logs            LogsCmd            `cmd:"" help:"Print the tail of the activity or system log"`
	Trigger         TriggerCmd         `cmd:"" help:"Start a maintenance job (hourly or daily)"`
	UI              UICmd              `cmd:"" help:"Live terminal dashboard"`
	Config          ConfigCmd          `cmd:"" help:"Show or manage configuration"`
	Doctor          DoctorCmd          `cmd:"" help:"Check system requirements and configuration"`
	Version         VersionCmd         `cmd:"" help:"Show version information"`
}

// Globals holds shared state for all commands
type Globals struct {
	Format  string
	Verbose bool
	Stdout  io.Writer
	Stderr  io.Writer
	Config  *config.Config
	Logger  *zap.Logger

	// Runner executes host commands; nil means the exec runner
	Runner source.Runner
	// LoadavgPath overrides /proc/loadavg
	LoadavgPath string
}

// NewGlobalsWithConfig creates a new Globals instance with config fallbacks.
// Root and hostname flags override the loaded config.
func NewGlobalsWithConfig(cli *CLI, cfg *config.Config) *Globals {
	if cfg == nil {
		cfg = config.Default()
	}
	if cli.Root != "" {
		cfg.Root = cli.Root
	}
	if cli.Hostname != "" {
		cfg.Hostname = cli.Hostname
	}

	level := cli.LogLevel
	if cli.Verbose {
		level = "debug"
	}
	cfg.LogLevel = level

	return &Globals{
		Format:  cli.Format,
		Verbose: cli.Verbose,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Config:  cfg,
		Logger:  logging.New(level, cfg.Format),
	}
}

// ResolveFormat switches to json when the format was not chosen explicitly
// and stdout is not a terminal, so piped output stays machine-readable.
func (g *Globals) ResolveFormat(explicit bool) {
	if explicit {
		return
	}
	if f, ok := g.Stdout.(*os.File); ok && !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		g.Format = "json"
	}
}

// Debug prints a debug message if verbose mode is enabled
func (g *Globals) Debug(format string, args ...interface{}) {
	if g.Verbose {
		fmt.Fprintf(g.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

func (g *Globals) log() *zap.Logger {
	if g.Logger == nil {
		return zap.NewNop()
	}
	return g.Logger
}

// VersionCmd shows version information
type VersionCmd struct{}

// Run executes the version command
func (v *VersionCmd) Run(globals *Globals) error {
	if globals.Format == "json" {
		return output.NewJSONWriter(globals.Stdout).Write(map[string]string{
			"type":    "version",
			"version": Version,
			"commit":  Commit,
		})
	}
	_, err := io.WriteString(globals.Stdout, "sysdash version "+Version+" ("+Commit+")\n")
	return err
}

// Version information (set at build time)
var (
	Version = "dev"
	Commit  = "none"
)

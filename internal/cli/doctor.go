package cli

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"

	"github.com/vburojevic/sysdash/internal/config"
	"github.com/vburojevic/sysdash/internal/domain"
	"github.com/vburojevic/sysdash/internal/output"
)

var (
	lookPath = exec.LookPath
	geteuid  = unix.Geteuid
)

// DoctorCmd checks system requirements and configuration
type DoctorCmd struct{}

// checkResult represents a single diagnostic check
type checkResult struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "ok", "warning", "error"
	Message string `json:"message,omitempty"`
	Details string `json:"details,omitempty"`
}

// doctorReport is the complete diagnostic report
type doctorReport struct {
	Type       string        `json:"type"`
	Timestamp  string        `json:"timestamp"`
	Checks     []checkResult `json:"checks"`
	AllPassed  bool          `json:"all_passed"`
	ErrorCount int           `json:"error_count"`
	WarnCount  int           `json:"warn_count"`
}

// Run executes the doctor command
func (c *DoctorCmd) Run(globals *Globals) error {
	cfg := globals.Config
	if cfg == nil {
		cfg = config.Default()
	}
	paths := cfg.Paths()

	var checks []checkResult
	for _, bin := range []string{"df", "free", "uptime"} {
		checks = append(checks, c.checkBinary(bin, "error"))
	}
	checks = append(checks, c.checkFirewall())
	checks = append(checks, c.checkDir("Reports directory", paths.ReportsDir))
	for _, job := range domain.Jobs {
		checks = append(checks, c.checkScript(job, cfg))
	}
	checks = append(checks, c.checkFile("System log", paths.SystemLog))
	checks = append(checks, c.checkConfig())

	errorCount := 0
	warnCount := 0
	for _, check := range checks {
		if check.Status == "error" {
			errorCount++
		} else if check.Status == "warning" {
			warnCount++
		}
	}

	report := doctorReport{
		Type:       "doctor",
		Timestamp:  time.Now().Format(time.RFC3339),
		Checks:     checks,
		AllPassed:  errorCount == 0,
		ErrorCount: errorCount,
		WarnCount:  warnCount,
	}

	if globals.Format == "json" {
		return output.NewJSONWriter(globals.Stdout).Write(report)
	}

	fmt.Fprintln(globals.Stdout, "sysdash Doctor")
	fmt.Fprintln(globals.Stdout, "==============")
	fmt.Fprintln(globals.Stdout)

	for _, check := range checks {
		var icon string
		switch check.Status {
		case "ok":
			icon = output.Styles.Success.Render("✓")
		case "warning":
			icon = output.Styles.Warning.Render("⚠")
		case "error":
			icon = output.Styles.Danger.Render("✗")
		}

		fmt.Fprintf(globals.Stdout, "%s %s\n", icon, check.Name)
		if check.Message != "" {
			fmt.Fprintf(globals.Stdout, "  %s\n", check.Message)
		}
		if check.Details != "" {
			fmt.Fprintf(globals.Stdout, "  %s\n", check.Details)
		}
	}

	fmt.Fprintln(globals.Stdout)
	if errorCount == 0 && warnCount == 0 {
		fmt.Fprintln(globals.Stdout, "All checks passed!")
	} else {
		fmt.Fprintf(globals.Stdout, "Errors: %d, Warnings: %d\n", errorCount, warnCount)
	}
	return nil
}

func (c *DoctorCmd) checkBinary(name, severity string) checkResult {
	path, err := lookPath(name)
	if err != nil {
		return checkResult{
			Name:    name,
			Status:  severity,
			Message: name + " not found in PATH",
			Details: "the matching status field will report unknown",
		}
	}
	return checkResult{Name: name, Status: "ok", Message: path}
}

func (c *DoctorCmd) checkFirewall() checkResult {
	check := c.checkBinary("ufw", "warning")
	if check.Status != "ok" || geteuid() == 0 {
		return check
	}
	if _, err := lookPath("sudo"); err != nil {
		return checkResult{
			Name:    "ufw",
			Status:  "warning",
			Message: "not running as root and sudo not found",
			Details: "firewall state will report unknown",
		}
	}
	check.Details = "not running as root; requires passwordless sudo for ufw status"
	return check
}

func (c *DoctorCmd) checkDir(name, path string) checkResult {
	info, err := os.Stat(path)
	if err != nil {
		return checkResult{Name: name, Status: "warning", Message: path + " does not exist", Details: "run a maintenance job to create it"}
	}
	if !info.IsDir() {
		return checkResult{Name: name, Status: "error", Message: path + " is not a directory"}
	}
	return checkResult{Name: name, Status: "ok", Message: path}
}

func (c *DoctorCmd) checkScript(job domain.JobID, cfg *config.Config) checkResult {
	name := job.Title() + " job script"
	path := filepath.Join(cfg.AdminDir(), "run-"+string(job)+".sh")
	info, err := os.Stat(path)
	if err != nil {
		return checkResult{Name: name, Status: "error", Message: "Script not found: " + path}
	}
	if info.Mode()&0o111 == 0 {
		return checkResult{Name: name, Status: "error", Message: path + " is not executable"}
	}
	return checkResult{Name: name, Status: "ok", Message: path}
}

func (c *DoctorCmd) checkFile(name, path string) checkResult {
	f, err := os.Open(path)
	if err != nil {
		return checkResult{Name: name, Status: "warning", Message: "cannot read " + path, Details: err.Error()}
	}
	f.Close()
	return checkResult{Name: name, Status: "ok", Message: path}
}

func (c *DoctorCmd) checkConfig() checkResult {
	path := config.ConfigFile()
	if path == "" {
		return checkResult{Name: "Config file", Status: "ok", Message: "none found, using defaults"}
	}
	if _, err := config.LoadFromFile(path); err != nil {
		return checkResult{Name: "Config file", Status: "error", Message: path, Details: err.Error()}
	}
	return checkResult{Name: "Config file", Status: "ok", Message: path}
}

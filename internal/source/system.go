package source

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/vburojevic/sysdash/internal/domain"
)

// DiskUsage reads the root filesystem usage percentage from df
func (r *Reader) DiskUsage(ctx context.Context) Result[int] {
	// -P keeps each filesystem on one line so column positions hold
	out, err := r.runner.Run(ctx, "df", "-h", "-P", "/")
	if err == nil {
		var pct int
		if pct, err = ParseDF(out); err == nil {
			return Found(pct)
		}
	}
	r.fail(SourceDisk, err, zap.String("command", "df"))
	return Default(0)
}

// MemoryUsage reads the used memory percentage from free
func (r *Reader) MemoryUsage(ctx context.Context) Result[int] {
	out, err := r.runner.Run(ctx, "free")
	if err == nil {
		var pct int
		if pct, err = ParseFree(out); err == nil {
			return Found(pct)
		}
	}
	r.fail(SourceMemory, err, zap.String("command", "free"))
	return Default(0)
}

// LoadAverage reads the one minute load average
func (r *Reader) LoadAverage(ctx context.Context) Result[float64] {
	b, err := os.ReadFile(r.loadavgPath)
	if err == nil {
		var load float64
		if load, err = ParseLoadAvg(b); err == nil {
			return Found(load)
		}
	}
	r.fail(SourceLoad, err, zap.String("path", r.loadavgPath))
	return Default(0.0)
}

// Uptime reads the human readable uptime ("3 days, 4 hours")
func (r *Reader) Uptime(ctx context.Context) Result[string] {
	out, err := r.runner.Run(ctx, "uptime", "-p")
	if err == nil {
		var up string
		if up, err = ParseUptime(out); err == nil {
			return Found(up)
		}
	}
	r.fail(SourceUptime, err, zap.String("command", "uptime"))
	return Default(domain.UptimeUnknown)
}

// Firewall reads ufw status. Without root it goes through non-interactive
// sudo; a denied escalation resolves to unknown like any other failure.
func (r *Reader) Firewall(ctx context.Context) Result[domain.FirewallState] {
	name, args := "ufw", []string{"status"}
	if r.euid() != 0 {
		name, args = "sudo", []string{"-n", "ufw", "status"}
	}
	out, err := r.runner.Run(ctx, name, args...)
	if err != nil {
		r.fail(SourceFirewall, err, zap.String("command", name))
		return Default(domain.FirewallUnknown)
	}
	return Found(ParseUFW(out))
}

// ParseDF returns the Use% column of the first data line of df output.
// The header line is skipped and later lines are ignored.
func ParseDF(out []byte) (int, error) {
	lines := strings.Split(string(out), "\n")
	if len(lines) < 2 {
		return 0, errors.New("df: no data line")
	}
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 5 {
			return 0, fmt.Errorf("df: expected at least 5 columns, got %d", len(fields))
		}
		pct, err := strconv.Atoi(strings.TrimSuffix(fields[4], "%"))
		if err != nil {
			return 0, fmt.Errorf("df: bad usage column %q", fields[4])
		}
		if pct < 0 || pct > 100 {
			return 0, fmt.Errorf("df: usage %d out of range", pct)
		}
		return pct, nil
	}
	return 0, errors.New("df: no data line")
}

// ParseFree computes round(used/total*100) from the line of free output
// whose first token is exactly "Mem:". Any other layout is an error.
func ParseFree(out []byte) (int, error) {
	for _, line := range strings.Split(string(out), "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 || fields[0] != "Mem:" {
			continue
		}
		if len(fields) < 3 {
			return 0, fmt.Errorf("free: expected total and used columns, got %d fields", len(fields))
		}
		total, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return 0, fmt.Errorf("free: bad total %q", fields[1])
		}
		used, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return 0, fmt.Errorf("free: bad used %q", fields[2])
		}
		if total <= 0 || used < 0 || used > total {
			return 0, fmt.Errorf("free: inconsistent used %v / total %v", used, total)
		}
		return int(math.Round(used / total * 100)), nil
	}
	return 0, errors.New("free: no Mem: line")
}

// ParseLoadAvg returns the first field of /proc/loadavg
func ParseLoadAvg(b []byte) (float64, error) {
	fields := strings.Fields(string(b))
	if len(fields) == 0 {
		return 0, errors.New("loadavg: empty")
	}
	load, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, fmt.Errorf("loadavg: bad value %q", fields[0])
	}
	if load < 0 || math.IsNaN(load) || math.IsInf(load, 0) {
		return 0, fmt.Errorf("loadavg: value %v out of range", load)
	}
	return load, nil
}

// ParseUptime strips the "up " prefix from uptime -p output
func ParseUptime(out []byte) (string, error) {
	up := strings.TrimSpace(string(out))
	up = strings.TrimSpace(strings.TrimPrefix(up, "up "))
	if up == "" {
		return "", errors.New("uptime: empty output")
	}
	return up, nil
}

// ParseUFW maps ufw status output to a firewall state
func ParseUFW(out []byte) domain.FirewallState {
	if strings.Contains(string(out), "Status: active") {
		return domain.FirewallActive
	}
	return domain.FirewallInactive
}

package domain

import "time"

// FirewallState is the coarse state reported by the host firewall
type FirewallState string

const (
	FirewallActive   FirewallState = "active"
	FirewallInactive FirewallState = "inactive"
	FirewallUnknown  FirewallState = "unknown"
)

// UptimeUnknown is reported when the uptime command cannot be read
const UptimeUnknown = "unknown"

// StatusSnapshot is a best-effort composite of independently read host
// metrics. Numeric fields are nil when their source could not be read.
type StatusSnapshot struct {
	Hostname       string        `json:"hostname"`
	Timestamp      time.Time     `json:"timestamp"`
	DiskUsagePct   *int          `json:"disk_usage"`
	MemoryUsagePct *int          `json:"memory_usage"`
	LoadAvg        *float64      `json:"load_avg"`
	Uptime         string        `json:"uptime"`
	Firewall       FirewallState `json:"firewall"`
}

// NewStatusSnapshot returns a snapshot with every field set to its default
func NewStatusSnapshot(hostname string, ts time.Time) StatusSnapshot {
	return StatusSnapshot{
		Hostname:  hostname,
		Timestamp: ts,
		Uptime:    UptimeUnknown,
		Firewall:  FirewallUnknown,
	}
}

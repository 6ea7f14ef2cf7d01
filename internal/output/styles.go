package output

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vburojevic/sysdash/internal/domain"
)

// Styles holds all lipgloss styles for text output
var Styles = struct {
	// Severity styles
	Critical lipgloss.Style
	High     lipgloss.Style
	Medium   lipgloss.Style
	Info     lipgloss.Style

	// Summary styles
	Header  lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Danger  lipgloss.Style

	// TUI styles
	Title     lipgloss.Style
	StatusBar lipgloss.Style
	Panel     lipgloss.Style
	Help      lipgloss.Style
}{
	Critical: lipgloss.NewStyle().Foreground(lipgloss.Color("201")).Bold(true).Underline(true), // Magenta bold underline
	High:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),                 // Red bold
	Medium:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),                            // Orange
	Info:     lipgloss.NewStyle().Foreground(lipgloss.Color("39")),                             // Cyan

	Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(lipgloss.Color("239")),
	Label:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	Value:   lipgloss.NewStyle().Bold(true),
	Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
	Success: lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),  // Green
	Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true), // Orange
	Danger:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true), // Red

	Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Padding(0, 1),
	StatusBar: lipgloss.NewStyle().Background(lipgloss.Color("236")).Foreground(lipgloss.Color("252")).Padding(0, 1),
	Panel:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("239")).Padding(0, 1),
	Help:      lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
}

// SeverityStyle returns the style for an alert or recommendation bucket
func SeverityStyle(s domain.Severity) lipgloss.Style {
	switch s {
	case domain.SeverityCritical:
		return Styles.Critical
	case domain.SeverityHigh:
		return Styles.High
	case domain.SeverityMedium:
		return Styles.Medium
	default:
		return Styles.Info
	}
}

// UsageStyle colors a percentage: green below 75, orange below 90, red above.
// Unknown values are muted.
func UsageStyle(pct *int) lipgloss.Style {
	switch {
	case pct == nil:
		return Styles.Muted
	case *pct >= 90:
		return Styles.Danger
	case *pct >= 75:
		return Styles.Warning
	default:
		return Styles.Success
	}
}

// FirewallStyle returns the style for a firewall state
func FirewallStyle(state domain.FirewallState) lipgloss.Style {
	switch state {
	case domain.FirewallActive:
		return Styles.Success
	case domain.FirewallInactive:
		return Styles.Danger
	default:
		return Styles.Muted
	}
}

// AlertsText returns a styled one-word summary of the alert buckets
func AlertsText(s domain.AlertSummary) string {
	switch {
	case len(s.Critical) > 0:
		return Styles.Danger.Render("CRITICAL")
	case len(s.High) > 0:
		return Styles.Warning.Render("ATTENTION")
	case s.Total > 0:
		return Styles.Warning.Render("WARNINGS")
	default:
		return Styles.Success.Render("OK")
	}
}

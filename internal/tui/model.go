package tui

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vburojevic/sysdash/internal/domain"
	"github.com/vburojevic/sysdash/internal/output"
)

var highlightStyle = lipgloss.NewStyle().Background(lipgloss.Color("57")).Foreground(lipgloss.Color("230")).Bold(true)

// Source provides the dashboard's read model
type Source interface {
	Overview(ctx context.Context, lines int) domain.Overview
}

// Launcher starts maintenance jobs
type Launcher interface {
	Launch(name string) (domain.JobLaunchResult, error)
}

// Model represents the TUI state
type Model struct {
	source      Source
	launcher    Launcher
	interval    time.Duration
	lines       int
	overview    domain.Overview
	loaded      bool
	refreshing  bool
	lastLaunch  string
	content     string
	viewport    viewport.Model
	textinput   textinput.Model
	width       int
	height      int
	ready       bool
	searching   bool
	searchQuery string
	follow      bool
}

// OverviewMsg carries a freshly collected overview
type OverviewMsg domain.Overview

// LaunchMsg reports the outcome of a job trigger
type LaunchMsg struct {
	Result domain.JobLaunchResult
	Err    error
}

// TickMsg triggers periodic refreshes
type TickMsg time.Time

// New creates a dashboard model that refreshes every interval and shows
// the last lines of the activity log.
func New(source Source, launcher Launcher, interval time.Duration, lines int) Model {
	ti := textinput.New()
	ti.Placeholder = "Filter activity..."
	ti.CharLimit = 100
	ti.Width = 40

	return Model{
		source:    source,
		launcher:  launcher,
		interval:  interval,
		lines:     lines,
		textinput: ti,
		follow:    true,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.fetch(),
		tickCmd(m.interval),
	)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.searching {
			switch msg.String() {
			case "esc":
				m.searching = false
				m.textinput.Blur()
				m.searchQuery = ""
				m.updateContent()
			case "enter":
				m.searching = false
				m.textinput.Blur()
				m.searchQuery = m.textinput.Value()
				m.updateContent()
			default:
				m.textinput, cmd = m.textinput.Update(msg)
				cmds = append(cmds, cmd)
			}
			return m, tea.Batch(cmds...)
		}

		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "/":
			m.searching = true
			m.textinput.Focus()
			return m, textinput.Blink
		case "esc":
			if m.searchQuery != "" {
				m.searchQuery = ""
				m.textinput.SetValue("")
				m.updateContent()
			}
		case "r":
			if !m.refreshing {
				m.refreshing = true
				cmds = append(cmds, m.fetch())
			}
		case "h":
			cmds = append(cmds, m.launch(domain.JobHourly))
		case "d":
			cmds = append(cmds, m.launch(domain.JobDaily))
		case "f":
			m.follow = !m.follow
			if m.follow {
				m.viewport.GotoBottom()
			}
		case "g", "home":
			m.viewport.GotoTop()
		case "G", "end":
			m.viewport.GotoBottom()
		case "j", "down":
			m.viewport.LineDown(1)
		case "k", "up":
			m.viewport.LineUp(1)
		case "ctrl+d", "pgdown":
			m.viewport.HalfViewDown()
		case "ctrl+u", "pgup":
			m.viewport.HalfViewUp()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 4
		footerHeight := 2
		viewportHeight := m.height - headerHeight - footerHeight
		if viewportHeight < 1 {
			viewportHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(m.width, viewportHeight)
			m.viewport.YPosition = headerHeight
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = viewportHeight
		}
		m.updateViewport()

	case OverviewMsg:
		m.overview = domain.Overview(msg)
		m.loaded = true
		m.refreshing = false
		m.updateContent()

	case LaunchMsg:
		if msg.Err != nil {
			m.lastLaunch = output.Styles.Danger.Render(msg.Err.Error())
		} else {
			m.lastLaunch = output.Styles.Success.Render(msg.Result.Message)
		}

	case TickMsg:
		if !m.refreshing {
			m.refreshing = true
			cmds = append(cmds, m.fetch())
		}
		cmds = append(cmds, tickCmd(m.interval))
	}

	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View renders the UI
func (m Model) View() string {
	if !m.ready || !m.loaded {
		return "Collecting status..."
	}
	return fmt.Sprintf("%s\n%s\n%s", m.renderHeader(), m.viewport.View(), m.renderFooter())
}

func (m *Model) renderHeader() string {
	s := m.overview.Status
	titleStyle := output.Styles.StatusBar.Bold(true).Width(m.width)

	title := fmt.Sprintf("sysdash: %s  %s", s.Hostname, s.Timestamp.Format("15:04:05"))
	if !m.follow {
		title += " [NO-FOLLOW]"
	}

	label := output.Styles.Label.Render
	metrics := strings.Join([]string{
		label("disk ") + output.UsageStyle(s.DiskUsagePct).Render(output.Percent(s.DiskUsagePct)),
		label("mem ") + output.UsageStyle(s.MemoryUsagePct).Render(output.Percent(s.MemoryUsagePct)),
		label("load ") + output.Styles.Value.Render(output.Load(s.LoadAvg)),
		label("up ") + output.Styles.Value.Render(s.Uptime),
		label("firewall ") + output.FirewallStyle(s.Firewall).Render(string(s.Firewall)),
	}, "  ")

	a := m.overview.Alerts
	alerts := fmt.Sprintf("%s alerts: %s %s %s %s",
		output.AlertsText(a),
		output.Styles.Critical.Render(fmt.Sprintf("critical %d", len(a.Critical))),
		output.Styles.High.Render(fmt.Sprintf("high %d", len(a.High))),
		output.Styles.Medium.Render(fmt.Sprintf("medium %d", len(a.Medium))),
		output.Styles.Info.Render(fmt.Sprintf("info %d", len(a.Info))),
	)
	if m.searchQuery != "" {
		alerts += fmt.Sprintf(" | Filter: %q", m.searchQuery)
	}

	return titleStyle.Render(title) + "\n" + metrics + "\n" + alerts + "\n" + output.Styles.Header.Width(m.width).Render("Activity")
}

func (m *Model) renderFooter() string {
	if m.searching {
		return m.textinput.View()
	}

	help := "q:quit r:refresh h:run hourly d:run daily /:filter f:follow g/G:top/bottom j/k:scroll"
	footer := output.Styles.Help.Width(m.width).Render(help)
	if m.lastLaunch != "" {
		footer = m.lastLaunch + "\n" + footer
	}
	return footer
}

func (m *Model) updateContent() {
	pattern := searchPattern(m.searchQuery)
	var b strings.Builder
	for _, line := range m.overview.Activity {
		if pattern != nil && !pattern.MatchString(line) {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(highlight(line, pattern))
	}
	m.content = b.String()
	m.updateViewport()
}

func (m *Model) updateViewport() {
	if !m.ready {
		return
	}

	m.viewport.SetContent(m.content)
	if m.follow {
		m.viewport.GotoBottom()
	}
}

// searchPattern matches query literally and case-insensitively, or is nil
// when there is nothing to search for
func searchPattern(query string) *regexp.Regexp {
	if query == "" {
		return nil
	}
	return regexp.MustCompile("(?i)" + regexp.QuoteMeta(query))
}

// highlight styles every match of pattern in s. Offsets come from s itself
// since case folding can change a string's byte length.
func highlight(s string, pattern *regexp.Regexp) string {
	if pattern == nil || s == "" {
		return s
	}
	matches := pattern.FindAllStringIndex(s, -1)
	if matches == nil {
		return s
	}
	var b strings.Builder
	last := 0
	for _, loc := range matches {
		b.WriteString(s[last:loc[0]])
		b.WriteString(highlightStyle.Render(s[loc[0]:loc[1]]))
		last = loc[1]
	}
	b.WriteString(s[last:])
	return b.String()
}

// fetch collects an overview off the UI goroutine
func (m Model) fetch() tea.Cmd {
	source, lines, timeout := m.source, m.lines, m.interval
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return OverviewMsg(source.Overview(ctx, lines))
	}
}

func (m Model) launch(job domain.JobID) tea.Cmd {
	launcher := m.launcher
	return func() tea.Msg {
		res, err := launcher.Launch(string(job))
		return LaunchMsg{Result: res, Err: err}
	}
}

// tickCmd creates a periodic tick command
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

package tui

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vburojevic/sysdash/internal/domain"
)

type fakeSource struct {
	calls atomic.Int32
}

func (f *fakeSource) Overview(context.Context, int) domain.Overview {
	f.calls.Add(1)
	disk := 91
	status := domain.NewStatusSnapshot("web-01", time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	status.DiskUsagePct = &disk
	return domain.Overview{
		Status:   status,
		Alerts:   domain.NewAlertSummary([]domain.Alert{{Title: "disk"}}, nil, nil, nil),
		Activity: []string{"backup finished", "rotated logs", "backup started"},
	}
}

type fakeLauncher struct {
	jobs []string
	err  error
}

func (f *fakeLauncher) Launch(name string) (domain.JobLaunchResult, error) {
	f.jobs = append(f.jobs, name)
	if f.err != nil {
		return domain.JobLaunchResult{}, f.err
	}
	return domain.JobLaunchResult{Started: true, Message: "Hourly maintenance job started"}, nil
}

// collect runs cmd and flattens batches into their messages
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func ready(t *testing.T, m Model) Model {
	t.Helper()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	return next.(Model)
}

func TestOverviewRendersDashboard(t *testing.T) {
	src := &fakeSource{}
	m := ready(t, New(src, &fakeLauncher{}, time.Second, 100))
	assert.Equal(t, "Collecting status...", m.View())

	next, _ := m.Update(OverviewMsg(src.Overview(context.Background(), 100)))
	m = next.(Model)

	view := m.View()
	assert.Contains(t, view, "web-01")
	assert.Contains(t, view, "91%")
	assert.Contains(t, view, "rotated logs")
	assert.Contains(t, view, "critical 1")
}

func TestRefreshKeyFetches(t *testing.T) {
	src := &fakeSource{}
	m := ready(t, New(src, &fakeLauncher{}, time.Second, 100))

	next, cmd := m.Update(key("r"))
	m = next.(Model)
	assert.True(t, m.refreshing)

	var got bool
	for _, msg := range collect(cmd) {
		if _, ok := msg.(OverviewMsg); ok {
			got = true
		}
	}
	assert.True(t, got)
	assert.Equal(t, int32(1), src.calls.Load())

	// a second refresh while one is in flight is ignored
	_, cmd = m.Update(key("r"))
	collect(cmd)
	assert.Equal(t, int32(1), src.calls.Load())
}

func TestTriggerKeys(t *testing.T) {
	t.Run("launches jobs", func(t *testing.T) {
		l := &fakeLauncher{}
		m := ready(t, New(&fakeSource{}, l, time.Second, 100))

		_, cmd := m.Update(key("h"))
		msgs := collect(cmd)
		_, cmd = m.Update(key("d"))
		collect(cmd)
		assert.Equal(t, []string{"hourly", "daily"}, l.jobs)

		var launch LaunchMsg
		for _, msg := range msgs {
			if lm, ok := msg.(LaunchMsg); ok {
				launch = lm
			}
		}
		require.True(t, launch.Result.Started)

		next, _ := m.Update(launch)
		assert.Contains(t, next.(Model).lastLaunch, "Hourly maintenance job started")
	})

	t.Run("shows launch errors", func(t *testing.T) {
		m := ready(t, New(&fakeSource{}, &fakeLauncher{}, time.Second, 100))
		next, _ := m.Update(LaunchMsg{Err: errors.New("Script not found: run-daily.sh")})
		assert.Contains(t, next.(Model).lastLaunch, "Script not found")
	})
}

func TestFilterActivity(t *testing.T) {
	src := &fakeSource{}
	m := ready(t, New(src, &fakeLauncher{}, time.Second, 100))
	next, _ := m.Update(OverviewMsg(src.Overview(context.Background(), 100)))
	m = next.(Model)

	next, _ = m.Update(key("/"))
	m = next.(Model)
	require.True(t, m.searching)
	m.textinput.SetValue("backup")
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	assert.Equal(t, "backup", m.searchQuery)
	assert.Equal(t, 2, strings.Count(m.content, "\n")+1)
	assert.NotContains(t, m.content, "rotated")

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)
	assert.Empty(t, m.searchQuery)
	assert.Contains(t, m.content, "rotated logs")
}

func TestFilterActivityNonASCII(t *testing.T) {
	m := ready(t, New(&fakeSource{}, &fakeLauncher{}, time.Second, 100))
	overview := domain.Overview{Activity: []string{"ȺȺȺ disk full", "all quiet"}}
	next, _ := m.Update(OverviewMsg(overview))
	m = next.(Model)

	next, _ = m.Update(key("/"))
	m = next.(Model)
	m.textinput.SetValue("FULL")
	require.NotPanics(t, func() {
		next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	})
	m = next.(Model)

	assert.Contains(t, m.content, highlightStyle.Render("full"))
	assert.NotContains(t, m.content, "all quiet")
}

func TestQuit(t *testing.T) {
	m := ready(t, New(&fakeSource{}, &fakeLauncher{}, time.Second, 100))
	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestHighlight(t *testing.T) {
	assert.Equal(t, "plain", highlight("plain", nil))
	assert.Equal(t, "plain", highlight("plain", searchPattern("zzz")))

	out := highlight("Backup backup", searchPattern("backup"))
	assert.Equal(t, 2, strings.Count(out, highlightStyle.Render("Backup"))+strings.Count(out, highlightStyle.Render("backup")))

	t.Run("case folding that changes byte length", func(t *testing.T) {
		// Ⱥ is two bytes, its lower case form three
		var out string
		require.NotPanics(t, func() { out = highlight("ȺȺȺ disk full", searchPattern("full")) })
		assert.Equal(t, "ȺȺȺ disk "+highlightStyle.Render("full"), out)

		out = highlight("ȺȺȺ disk full", searchPattern("ⱥ"))
		assert.Equal(t, 3, strings.Count(out, highlightStyle.Render("Ⱥ")))
	})

	t.Run("query is matched literally", func(t *testing.T) {
		out := highlight("load 1.5 (x+y)", searchPattern("(x+y)"))
		assert.Equal(t, "load 1.5 "+highlightStyle.Render("(x+y)"), out)
		assert.Nil(t, searchPattern(""))
	})
}

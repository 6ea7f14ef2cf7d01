package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/vburojevic/sysdash/internal/tui"
)

// UICmd launches the live terminal dashboard
type UICmd struct {
	Lines int `short:"n" default:"0" help:"Activity lines to show (default from config)"`
}

// Run executes the UI command
func (c *UICmd) Run(globals *Globals) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	// Log lines on stderr would tear the alt screen.
	if !globals.Verbose {
		globals.Logger = zap.NewNop()
	}

	cfg := globals.Config
	a := newApp(globals)
	globals.Debug("Refreshing every %s from %s", cfg.RefreshInterval, cfg.ReportsDir())

	model := tui.New(a.service, a.dispatcher, cfg.RefreshInterval, c.Lines)
	p := tea.NewProgram(model, tea.WithAltScreen())

	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/vburojevic/sysdash/internal/httpapi"
)

const shutdownTimeout = 10 * time.Second

// ServeCmd runs the HTTP dashboard
type ServeCmd struct {
	Listen string `short:"L" help:"Address to listen on (default from config)"`
}

// Run executes the serve command
func (c *ServeCmd) Run(globals *Globals) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return c.serve(ctx, globals)
}

func (c *ServeCmd) serve(ctx context.Context, globals *Globals) error {
	cfg := globals.Config
	log := globals.log()
	a := newApp(globals)

	addr := cfg.Listen
	if c.Listen != "" {
		addr = c.Listen
	}

	srv := &http.Server{
		Addr: addr,
		Handler: httpapi.NewRouter(a.service, a.dispatcher, httpapi.Options{
			Hostname: cfg.Hostname,
			Command:  operatorCommand(cfg.Root),
			Logger:   log,
			Gatherer: a.registry,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("dashboard listening", zap.String("addr", addr), zap.String("hostname", cfg.Hostname), zap.String("root", cfg.Root))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return outputErrorCommon(globals, "LISTEN_FAILED", fmt.Sprintf("listen on %s: %v", addr, err))
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	// Launched jobs run in their own process group and keep going.
	return nil
}

func operatorCommand(root string) string {
	return fmt.Sprintf("cd %s && claude --dangerously-skip-permissions", root)
}

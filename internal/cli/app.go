package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/vburojevic/sysdash/internal/aggregate"
	"github.com/vburojevic/sysdash/internal/dispatch"
	"github.com/vburojevic/sysdash/internal/metrics"
	"github.com/vburojevic/sysdash/internal/source"
)

// app is the component graph every command is built from
type app struct {
	registry   *prometheus.Registry
	service    *aggregate.Service
	dispatcher *dispatch.Dispatcher
}

func newApp(globals *Globals) *app {
	cfg := globals.Config
	log := globals.log()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	runner := globals.Runner
	if runner == nil {
		runner = source.NewExecRunner(cfg.CommandTimeout)
	}
	readerOpts := []source.Option{source.WithMetrics(m)}
	if globals.LoadavgPath != "" {
		readerOpts = append(readerOpts, source.WithLoadavgPath(globals.LoadavgPath))
	}
	reader := source.NewReader(runner, log, readerOpts...)

	return &app{
		registry:   reg,
		service:    aggregate.NewService(cfg, reader, log, aggregate.WithMetrics(m)),
		dispatcher: dispatch.New(cfg.AdminDir(), cfg.Root, log, dispatch.WithMetrics(m), dispatch.WithLogDir(cfg.JobLogsDir())),
	}
}

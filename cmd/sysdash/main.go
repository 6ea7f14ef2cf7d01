package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/vburojevic/sysdash/internal/cli"
	"github.com/vburojevic/sysdash/internal/config"
)

func main() {
	// Load configuration from files/environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		cfg = config.Default()
	}

	var c cli.CLI

	// Config values become flag defaults; explicit flags still win.
	vars := kong.Vars{
		"config_format":    cfg.Format,
		"config_log_level": cfg.LogLevel,
	}

	ctx := kong.Parse(&c,
		kong.Name("sysdash"),
		kong.Description("Single-host sysadmin dashboard: status, alerts, reports and maintenance jobs"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
		vars,
	)

	globals := cli.NewGlobalsWithConfig(&c, cfg)
	defer func() { _ = globals.Logger.Sync() }()

	explicitFormat := false
	for _, p := range ctx.Path {
		if p.Flag != nil && p.Flag.Name == "format" {
			explicitFormat = true
		}
	}
	globals.ResolveFormat(explicitFormat)

	if err := ctx.Run(globals); err != nil {
		_ = globals.Logger.Sync()
		os.Exit(1)
	}
}

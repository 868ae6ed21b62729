// Command dlsortd is the bare sorter daemon: no subcommands, no terminal UI.
// It loads the configuration, sorts until SIGINT or SIGTERM and exits.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"dlsort/internal/config"
	"dlsort/internal/journal"
	"dlsort/internal/log"
	"dlsort/internal/report"
	"dlsort/internal/watch"
)

func main() {
	cfgPath := flag.String("config", "", "config file (default is $HOME/.config/dlsort/config.yaml)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	if err := run(*cfgPath, *debug); err != nil {
		log.LogError(err, "dlsortd stopped")
		os.Exit(1)
	}
}

func run(cfgPath string, debug bool) error {
	var (
		file *config.File
		err  error
	)
	if cfgPath != "" {
		file, err = config.LoadConfigFile(cfgPath)
	} else {
		file, err = config.LoadConfig()
	}
	if err != nil {
		return err
	}

	logOpts := []log.Option{log.WithOutput(os.Stderr), log.WithLevel(file.Log.Level)}
	if file.Log.JSON {
		logOpts = append(logOpts, log.WithJSON())
	}
	if file.Log.File != "" {
		logOpts = append(logOpts, log.WithFile(file.Log.File))
	}
	log.Configure(logOpts...)
	defer log.Default().Close()
	if debug {
		log.SetDebug(true)
	}

	cfg, err := file.Build()
	if err != nil {
		return err
	}

	var rep report.Reporter = report.NewLogReporter()
	if cfg.JournalPath() != "" {
		store, err := journal.Open(cfg.JournalPath())
		if err != nil {
			return fmt.Errorf("journal: %w", err)
		}
		defer store.Close()
		rep = report.Multi{rep, store}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return watch.NewDriver(cfg, watch.WithReporter(rep)).Run(ctx)
}

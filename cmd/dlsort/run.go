package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"dlsort/internal/config"
	"dlsort/internal/journal"
	"dlsort/internal/log"
	"dlsort/internal/report"
	"dlsort/internal/tui"
	"dlsort/internal/watch"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newRunCmd(opts *globalOptions) *cobra.Command {
	var (
		useTUI bool
		once   bool
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Sort the watch root continuously",
		Long: `Run a cycle immediately, then every interval and whenever new files
appear, until interrupted. Only one dlsort process may sort a destination
root at a time.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.watchConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("dry-run") {
				cfg = cfg.WithDryRun(dryRun)
			}
			warnOverlaps(cfg)

			store, err := openJournal(cfg)
			if err != nil {
				return err
			}
			if store != nil {
				defer store.Close()
			}

			if once {
				d := watch.NewDriver(cfg, watch.WithReporter(reporters(report.NewLogReporter(), store)))
				res, err := d.Once()
				if err != nil {
					return err
				}
				return res.Err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if useTUI {
				if isTerminal(os.Stdout) {
					return runMonitor(ctx, cfg, store, opts)
				}
				log.Warn("--tui needs a terminal, falling back to log output")
			}

			d := watch.NewDriver(cfg, watch.WithReporter(reporters(report.NewLogReporter(), store)))
			return d.Run(ctx)
		},
	}

	cmd.Flags().BoolVar(&useTUI, "tui", false, "show a live monitor instead of log lines")
	cmd.Flags().BoolVar(&once, "once", false, "run a single cycle and exit")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "plan moves without touching any file")

	return cmd
}

// runMonitor runs the driver behind the bubbletea monitor. Log lines would
// corrupt the screen, so they only go to the configured log file.
func runMonitor(ctx context.Context, cfg *config.WatchConfig, store *journal.Store, opts *globalOptions) error {
	opts.configureLogging(io.Discard)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var d *watch.Driver
	m := tui.New(cfg.WatchRoot(), cfg.DestinationRoot(), func() { d.Trigger() })
	p := tea.NewProgram(m, tea.WithContext(ctx))
	rep := tui.NewReporter(p)
	d = watch.NewDriver(cfg,
		watch.WithReporter(reporters(rep, store)),
		watch.WithCycleHook(rep.CycleDone),
	)

	done := make(chan error, 1)
	go func() {
		err := d.Run(ctx)
		rep.Stopped(err)
		done <- err
	}()

	_, uiErr := p.Run()
	interrupted := ctx.Err() != nil
	cancel()
	driverErr := <-done

	if driverErr != nil {
		return driverErr
	}
	if uiErr != nil && !interrupted {
		return fmt.Errorf("monitor: %w", uiErr)
	}
	return nil
}

// reporters joins the non-nil reporters
func reporters(primary report.Reporter, store *journal.Store) report.Reporter {
	if store == nil {
		return primary
	}
	return report.Multi{primary, store}
}

func openJournal(cfg *config.WatchConfig) (*journal.Store, error) {
	if cfg.JournalPath() == "" {
		return nil, nil
	}
	return journal.Open(cfg.JournalPath())
}

func warnOverlaps(cfg *config.WatchConfig) {
	for _, o := range cfg.Overlaps() {
		log.LogWithFields(log.F("extension", o.Extension), log.F("winner", o.Winner), log.F("shadowed", o.Shadowed)).
			Warn("Extension claimed by more than one category")
	}
}

package main

import (
	"fmt"
	"path/filepath"

	"dlsort/internal/report"
	"dlsort/internal/watch"
	"dlsort/pkg/types"

	"github.com/spf13/cobra"
)

// collector keeps the outcomes of a single cycle for printing
type collector struct {
	outcomes []types.MoveOutcome
	err      error
}

func (c *collector) Report(_ string, out types.MoveOutcome) { c.outcomes = append(c.outcomes, out) }
func (c *collector) CycleError(_ string, err error)         { c.err = err }

func newOnceCmd(opts *globalOptions) *cobra.Command {
	var (
		dryRun bool
		all    bool
	)

	cmd := &cobra.Command{
		Use:   "once",
		Short: "Run a single cycle and print what happened",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.watchConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("dry-run") {
				cfg = cfg.WithDryRun(dryRun)
			}

			store, err := openJournal(cfg)
			if err != nil {
				return err
			}
			if store != nil {
				defer store.Close()
			}

			col := &collector{}
			d := watch.NewDriver(cfg, watch.WithReporter(reporters(report.Multi{col, report.NewLogReporter()}, store)))
			res, err := d.Once()
			if err != nil {
				return err
			}

			pr := newPrinter(cmd.OutOrStdout())
			if col.err != nil {
				pr.Error(col.err.Error())
				return col.err
			}

			rows := make([][]string, 0, len(col.outcomes))
			for _, out := range col.outcomes {
				if out.Status == types.StatusSkipped && out.Reason != types.ReasonDryRun && !all {
					continue
				}
				rows = append(rows, outcomeRow(out))
			}

			if len(rows) > 0 {
				pr.Plain(renderTable([]string{"Status", "File", "Category", "Destination / Reason"}, rows, nil))
			}

			summary := fmt.Sprintf("%d moved, %d skipped, %d failed", res.Tally.Moved, res.Tally.Skipped, res.Tally.Failed)
			switch {
			case cfg.DryRun():
				pr.Info("Dry run: " + summary + ". No files were moved.")
			case res.Tally.Failed > 0:
				pr.Warning(summary)
			default:
				pr.Success(summary)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "show what would be moved without moving anything")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "also list files that were skipped")

	return cmd
}

func outcomeRow(out types.MoveOutcome) []string {
	status := out.Status.String()
	detail := out.Reason
	switch {
	case out.Status == types.StatusMoved:
		detail = filepath.Join(out.Category, filepath.Base(out.To))
	case out.Reason == types.ReasonDryRun:
		status = "planned"
		detail = filepath.Join(out.Category, filepath.Base(out.To))
	}
	return []string{status, out.Name, out.Category, detail}
}

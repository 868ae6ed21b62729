package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"dlsort/internal/journal"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newHistoryCmd(opts *globalOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent moves from the journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.watchConfig()
			if err != nil {
				return err
			}
			pr := newPrinter(cmd.OutOrStdout())
			if cfg.JournalPath() == "" {
				pr.Warning("No journal configured. Set `journal:` in " + opts.path)
				return nil
			}
			if !fileExists(cfg.JournalPath()) {
				pr.Info("Journal is empty.")
				return nil
			}

			store, err := journal.Open(cfg.JournalPath())
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				pr.Info("Journal is empty.")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				detail := e.Reason
				if e.To != "" && (e.Status == "moved" || e.Reason == "dry-run") {
					detail = filepath.Join(e.Category, filepath.Base(e.To))
				}
				rows = append(rows, []string{
					humanize.Time(e.At),
					e.Status,
					e.Name,
					detail,
					shortID(e.CycleID),
				})
			}
			pr.Plain(renderTable([]string{"When", "Status", "File", "Destination / Reason", "Cycle"}, rows, nil))
			pr.Info(fmt.Sprintf("%d most recent entries from %s", len(entries), cfg.JournalPath()))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "number of entries to show")
	return cmd
}

func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

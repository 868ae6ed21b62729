package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"dlsort/internal/classify"
	"dlsort/internal/journal"
	"dlsort/internal/watch"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func newStatusCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the configuration in effect and whether a sorter is running",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.watchConfig()
			if err != nil {
				return err
			}
			pr := newPrinter(cmd.OutOrStdout())
			title := cases.Title(language.English)

			pr.Header("dlsort " + version)
			rows := [][]string{
				{"Config", opts.path},
				{"Watch root", cfg.WatchRoot() + dirNote(cfg.WatchRoot())},
				{"Destination root", cfg.DestinationRoot() + dirNote(cfg.DestinationRoot())},
				{"Interval", cfg.Interval().String()},
				{"Collision", cfg.Collision()},
				{"Dry run", fmt.Sprintf("%t", cfg.DryRun())},
				{"Notifications", fmt.Sprintf("%t", cfg.Notify())},
			}
			pr.Plain(renderTable([]string{"Setting", "Value"}, rows, nil))

			catRows := make([][]string, 0, len(cfg.Categories())+1)
			for _, cat := range cfg.Categories() {
				catRows = append(catRows, []string{title.String(cat.Name), strings.Join(cat.Extensions, " ")})
			}
			catRows = append(catRows, []string{title.String(classify.Misc), "everything else"})
			pr.Plain(renderTable([]string{"Category", "Extensions"}, catRows, nil))

			for _, o := range cfg.Overlaps() {
				pr.Warning(fmt.Sprintf("%s is claimed by %s and %s; %s wins", o.Extension, o.Winner, o.Shadowed, o.Winner))
			}

			running, err := watch.Locked(cfg)
			switch {
			case err != nil:
				pr.Warning("Cannot check lock: " + err.Error())
			case running:
				pr.Success("A sorter is running for this destination root")
			default:
				pr.Info("No sorter is running for this destination root")
			}

			if cfg.JournalPath() != "" && fileExists(cfg.JournalPath()) {
				store, err := journal.Open(cfg.JournalPath())
				if err != nil {
					return err
				}
				defer store.Close()
				counts, err := store.Counts(cmd.Context())
				if err != nil {
					return err
				}
				statuses := make([]string, 0, len(counts))
				for s := range counts {
					statuses = append(statuses, s)
				}
				sort.Strings(statuses)
				countRows := make([][]string, 0, len(statuses))
				for _, s := range statuses {
					countRows = append(countRows, []string{title.String(s), fmt.Sprintf("%d", counts[s])})
				}
				pr.Plain(renderTable([]string{"Journal", "Entries"}, countRows, []columnAlignment{alignLeft, alignRight}))
				if recent, err := store.Recent(cmd.Context(), 1); err == nil && len(recent) > 0 {
					pr.Info("Last entry " + recent[0].At.Format(time.DateTime))
				}
			}
			return nil
		},
	}
}

func dirNote(path string) string {
	info, err := os.Stat(path)
	switch {
	case err != nil:
		return " (missing)"
	case !info.IsDir():
		return " (not a directory)"
	}
	return ""
}

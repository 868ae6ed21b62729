package config

import (
	"strings"
	"time"

	"dlsort/internal/errors"
)

// Category is a normalized category rule: lowercase, dot-prefixed extensions
type Category struct {
	Name       string
	Extensions []string
}

// Overlap records an extension claimed by more than one category.
// The first category wins.
type Overlap struct {
	Extension string
	Winner    string
	Shadowed  string
}

// WatchConfig is the immutable configuration passed to every pipeline
// component. Accessors return copies.
type WatchConfig struct {
	watchRoot       string
	destinationRoot string
	categories      []Category
	ignoreSuffixes  []string
	ignorePatterns  []string
	interval        time.Duration
	collision       string
	dryRun          bool
	sniffContent    bool
	notify          bool
	journal         string
}

// Build validates the file and produces a WatchConfig with expanded paths
// and normalized extensions and suffixes.
func (c *File) Build() (*WatchConfig, error) {
	if err := c.Validate(); err != nil {
		return nil, errors.NewConfigError("invalid configuration", "", errors.InvalidConfig, err)
	}

	watchRoot, _ := expandPath(c.WatchRoot)
	destRoot, _ := expandPath(c.DestinationRoot)
	interval, _ := time.ParseDuration(c.Interval)

	wc := &WatchConfig{
		watchRoot:       watchRoot,
		destinationRoot: destRoot,
		interval:        interval,
		collision:       c.Collision,
		dryRun:          c.DryRun,
		sniffContent:    c.SniffContent,
		notify:          c.Notify == nil || *c.Notify,
	}

	for _, rule := range c.Categories {
		cat := Category{Name: strings.TrimSpace(rule.Name)}
		for _, ext := range rule.Extensions {
			cat.Extensions = append(cat.Extensions, normalizeExt(ext))
		}
		wc.categories = append(wc.categories, cat)
	}
	for _, suffix := range c.IgnoreSuffixes {
		wc.ignoreSuffixes = append(wc.ignoreSuffixes, strings.ToLower(suffix))
	}
	wc.ignorePatterns = append(wc.ignorePatterns, c.IgnorePatterns...)

	if c.Journal != "" {
		journal, err := expandPath(c.Journal)
		if err != nil {
			return nil, errors.NewConfigError("invalid journal path", c.Journal, errors.InvalidConfig, err)
		}
		wc.journal = journal
	}

	return wc, nil
}

func (w *WatchConfig) WatchRoot() string       { return w.watchRoot }
func (w *WatchConfig) DestinationRoot() string { return w.destinationRoot }
func (w *WatchConfig) Interval() time.Duration { return w.interval }
func (w *WatchConfig) Collision() string       { return w.collision }
func (w *WatchConfig) DryRun() bool            { return w.dryRun }
func (w *WatchConfig) SniffContent() bool      { return w.sniffContent }
func (w *WatchConfig) Notify() bool            { return w.notify }
func (w *WatchConfig) JournalPath() string     { return w.journal }

// Categories returns the category rules in configured order
func (w *WatchConfig) Categories() []Category {
	out := make([]Category, len(w.categories))
	for i, cat := range w.categories {
		out[i] = Category{Name: cat.Name, Extensions: append([]string(nil), cat.Extensions...)}
	}
	return out
}

// IgnoreSuffixes returns the lowercase ignore suffixes
func (w *WatchConfig) IgnoreSuffixes() []string {
	return append([]string(nil), w.ignoreSuffixes...)
}

// IgnorePatterns returns the ignore globs
func (w *WatchConfig) IgnorePatterns() []string {
	return append([]string(nil), w.ignorePatterns...)
}

// Overlaps lists extensions claimed by several categories
func (w *WatchConfig) Overlaps() []Overlap {
	owner := make(map[string]string)
	var overlaps []Overlap
	for _, cat := range w.categories {
		for _, ext := range cat.Extensions {
			if first, ok := owner[ext]; ok {
				if first != cat.Name {
					overlaps = append(overlaps, Overlap{Extension: ext, Winner: first, Shadowed: cat.Name})
				}
				continue
			}
			owner[ext] = cat.Name
		}
	}
	return overlaps
}

// WithDryRun returns a copy with dry-run forced on or off
func (w *WatchConfig) WithDryRun(dryRun bool) *WatchConfig {
	cp := *w
	cp.categories = w.Categories()
	cp.ignoreSuffixes = w.IgnoreSuffixes()
	cp.ignorePatterns = w.IgnorePatterns()
	cp.dryRun = dryRun
	return &cp
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dlsort/internal/errors"

	"github.com/gobwas/glob"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Collision strategies
const (
	CollisionFail   = "fail"
	CollisionRename = "rename"
)

// CategoryRule maps a category label to the extensions it claims.
// Order across rules matters only when extension sets overlap.
type CategoryRule struct {
	Name       string   `yaml:"name" toml:"name"`
	Extensions []string `yaml:"extensions" toml:"extensions"`
}

// LogSettings configures the process logger
type LogSettings struct {
	Level string `yaml:"level" toml:"level"` // debug, info, warn, error
	JSON  bool   `yaml:"json" toml:"json"`   // JSON encoder instead of console
	File  string `yaml:"file" toml:"file"`   // Also append to this file
}

// File is the on-disk configuration. It is mutable and only used to build
// the immutable WatchConfig handed to the pipeline.
type File struct {
	WatchRoot       string         `yaml:"watch_root" toml:"watch_root"`             // Directory scanned each cycle
	DestinationRoot string         `yaml:"destination_root" toml:"destination_root"` // Category folders live here
	Interval        string         `yaml:"interval" toml:"interval"`                 // Go duration between cycles
	Collision       string         `yaml:"collision" toml:"collision"`               // fail or rename
	DryRun          bool           `yaml:"dry_run" toml:"dry_run"`                   // Plan only, never move
	SniffContent    bool           `yaml:"sniff_content" toml:"sniff_content"`       // Detect MIME type of extensionless files
	Notify          *bool          `yaml:"notify,omitempty" toml:"notify,omitempty"` // Run early cycles on fsnotify events
	Journal         string         `yaml:"journal" toml:"journal"`                   // SQLite outcome journal, empty disables
	Categories      []CategoryRule `yaml:"categories" toml:"categories"`
	IgnoreSuffixes  []string       `yaml:"ignore_suffixes" toml:"ignore_suffixes"`
	IgnorePatterns  []string       `yaml:"ignore_patterns" toml:"ignore_patterns"`
	Log             LogSettings    `yaml:"log" toml:"log"`
}

// DefaultPath returns ~/.config/dlsort/config.yaml
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "dlsort", "config.yaml"), nil
}

// LoadConfig loads configuration from the default location.
func LoadConfig() (*File, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFile(path)
}

// LoadConfigFile loads configuration from a specific file path. Files ending
// in .toml are decoded as TOML, anything else as YAML. If the file doesn't
// exist, returns default configuration.
func LoadConfigFile(path string) (*File, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.NewConfigError("error reading config file", path, errors.ConfigNotFound, err)
	}

	// Decode into a blank value so unset keys keep their defaults
	var loaded File
	if isTOML(path) {
		err = toml.Unmarshal(data, &loaded)
	} else {
		err = yaml.Unmarshal(data, &loaded)
	}
	if err != nil {
		return nil, errors.NewConfigError("error parsing config file", path, errors.InvalidConfig, err)
	}

	cfg.merge(&loaded)

	if err := cfg.Validate(); err != nil {
		return nil, errors.NewConfigError("invalid configuration", path, errors.InvalidConfig, err)
	}
	return cfg, nil
}

func (c *File) merge(loaded *File) {
	if loaded.WatchRoot != "" {
		c.WatchRoot = loaded.WatchRoot
	}
	if loaded.DestinationRoot != "" {
		c.DestinationRoot = loaded.DestinationRoot
	}
	if loaded.Interval != "" {
		c.Interval = loaded.Interval
	}
	if loaded.Collision != "" {
		c.Collision = loaded.Collision
	}
	c.DryRun = loaded.DryRun
	c.SniffContent = loaded.SniffContent
	if loaded.Notify != nil {
		c.Notify = loaded.Notify
	}
	c.Journal = loaded.Journal

	if len(loaded.Categories) > 0 {
		c.Categories = loaded.Categories
	}
	// An explicit empty list disables the defaults
	if loaded.IgnoreSuffixes != nil {
		c.IgnoreSuffixes = loaded.IgnoreSuffixes
	}
	if loaded.IgnorePatterns != nil {
		c.IgnorePatterns = loaded.IgnorePatterns
	}

	if loaded.Log.Level != "" {
		c.Log.Level = loaded.Log.Level
	}
	c.Log.JSON = loaded.Log.JSON
	c.Log.File = loaded.Log.File
}

// defaultConfig returns the reference setup: ~/Downloads sorted into
// ~/Downloads/Sorted every two seconds.
func defaultConfig() *File {
	notify := true
	cfg := &File{
		WatchRoot:       filepath.Join("~", "Downloads"),
		DestinationRoot: filepath.Join("~", "Downloads", "Sorted"),
		Interval:        "2s",
		Collision:       CollisionFail,
		Notify:          &notify,
		Categories: []CategoryRule{
			{Name: "images", Extensions: []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".webp"}},
			{Name: "documents", Extensions: []string{".pdf", ".doc", ".docx", ".txt", ".xls", ".xlsx"}},
			{Name: "audio", Extensions: []string{".mp3", ".wav", ".flac", ".m4a"}},
			{Name: "video", Extensions: []string{".mp4", ".avi", ".mkv", ".mov"}},
			{Name: "archives", Extensions: []string{".zip", ".rar", ".7z", ".tar", ".gz"}},
		},
		IgnoreSuffixes: []string{".crdownload", ".part", ".partial", ".download", ".tmp", ".temp", ".opdownload", ".!ut"},
		IgnorePatterns: []string{},
	}
	cfg.Log.Level = "info"
	return cfg
}

// New returns the default configuration
func New() *File {
	return defaultConfig()
}

// SaveConfig writes the configuration to path, creating parent directories.
func SaveConfig(cfg *File, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var (
		data []byte
		err  error
	)
	if isTOML(path) {
		data, err = toml.Marshal(cfg)
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks the configuration for settings the pipeline cannot run with.
// The watch root is not required to exist; a missing one is reported per cycle.
func (c *File) Validate() error {
	if c == nil {
		return fmt.Errorf("nil config")
	}

	if strings.TrimSpace(c.WatchRoot) == "" {
		return fmt.Errorf("watch_root is required")
	}
	if strings.TrimSpace(c.DestinationRoot) == "" {
		return fmt.Errorf("destination_root is required")
	}

	watchRoot, err := expandPath(c.WatchRoot)
	if err != nil {
		return fmt.Errorf("watch_root: %w", err)
	}
	destRoot, err := expandPath(c.DestinationRoot)
	if err != nil {
		return fmt.Errorf("destination_root: %w", err)
	}
	if watchRoot == destRoot {
		return fmt.Errorf("watch_root and destination_root must differ: %s", watchRoot)
	}
	// Files under a directory named like the destination root are treated as
	// already sorted, so such a watch root would never yield anything.
	if containsSegment(watchRoot, filepath.Base(destRoot)) {
		return fmt.Errorf("watch_root %s contains the destination segment %q", watchRoot, filepath.Base(destRoot))
	}

	interval, err := time.ParseDuration(c.Interval)
	if err != nil {
		return fmt.Errorf("invalid interval %q: %w", c.Interval, err)
	}
	if interval < time.Second {
		return fmt.Errorf("interval must be >= 1s")
	}

	switch c.Collision {
	case CollisionFail, CollisionRename:
	default:
		return fmt.Errorf("invalid collision setting: %s", c.Collision)
	}

	seen := make(map[string]bool, len(c.Categories))
	for i, rule := range c.Categories {
		name := strings.TrimSpace(rule.Name)
		if name == "" {
			return errors.NewCategoryError(fmt.Sprintf("category %d: name is required", i), "", nil)
		}
		if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
			return errors.NewCategoryError("category name must be a single path segment", name, nil)
		}
		if seen[name] {
			return errors.NewCategoryError("duplicate category", name, nil)
		}
		seen[name] = true
		if len(rule.Extensions) == 0 {
			return errors.NewCategoryError("category has no extensions", name, nil)
		}
		for _, ext := range rule.Extensions {
			if normalizeExt(ext) == "" {
				return errors.NewCategoryError("empty extension", name, nil)
			}
		}
	}

	for _, suffix := range c.IgnoreSuffixes {
		if suffix == "" {
			return fmt.Errorf("ignore_suffixes: empty suffix")
		}
	}
	for _, pattern := range c.IgnorePatterns {
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("ignore_patterns: %q: %w", pattern, err)
		}
	}

	return nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// expandPath resolves a leading ~ and returns an absolute, clean path
func expandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[1:])
	}
	return filepath.Abs(path)
}

func containsSegment(path, segment string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == segment {
			return true
		}
	}
	return false
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" || ext == "." {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

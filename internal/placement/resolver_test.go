package placement_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"dlsort/internal/config"
	"dlsort/internal/placement"
	"dlsort/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2026, 10, 17, 9, 5, 3, 0, time.Local)

func fixedClock() time.Time { return fixedTime }

func setup(t *testing.T, mutate func(*config.File)) (*config.WatchConfig, string) {
	t.Helper()
	root := t.TempDir()
	cfg := config.New()
	cfg.WatchRoot = filepath.Join(root, "Downloads")
	cfg.DestinationRoot = filepath.Join(root, "Downloads", "Sorted")
	if mutate != nil {
		mutate(cfg)
	}
	wc, err := cfg.Build()
	require.NoError(t, err)
	return wc, root
}

func TestResolve(t *testing.T) {
	wc, _ := setup(t, nil)
	r := placement.New(wc, placement.WithClock(fixedClock))

	c := types.CandidateFile{Path: filepath.Join(wc.WatchRoot(), "photo.JPG"), Name: "photo.JPG", SizeBytes: 500}
	d, err := r.Resolve(c, "images")
	require.NoError(t, err)

	assert.Equal(t, "images", d.Category)
	assert.Equal(t, filepath.Join(wc.DestinationRoot(), "images", "20261017_090503_photo.JPG"), d.DestinationPath)
	assert.Equal(t, "20261017_090503_photo.JPG", d.FileName())

	info, err := os.Stat(filepath.Join(wc.DestinationRoot(), "images"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestResolvePathShape(t *testing.T) {
	wc, _ := setup(t, nil)
	r := placement.New(wc)

	for _, tc := range []struct{ name, category string }{
		{"a.pdf", "documents"},
		{"weird name (1).tar.gz", "archives"},
		{"noext", "misc"},
	} {
		d, err := r.Resolve(types.CandidateFile{Name: tc.name}, tc.category)
		require.NoError(t, err)
		prefix := filepath.Join(wc.DestinationRoot(), tc.category) + string(filepath.Separator)
		assert.True(t, strings.HasPrefix(d.DestinationPath, prefix), d.DestinationPath)
		assert.True(t, strings.HasSuffix(d.FileName(), "_"+tc.name), d.FileName())
		assert.Len(t, strings.TrimSuffix(d.FileName(), "_"+tc.name), len(placement.TimestampLayout))
	}
}

func TestResolveIdempotentFolder(t *testing.T) {
	wc, _ := setup(t, nil)
	require.NoError(t, os.MkdirAll(filepath.Join(wc.DestinationRoot(), "video"), 0755))

	r := placement.New(wc)
	_, err := r.Resolve(types.CandidateFile{Name: "clip.mp4"}, "video")
	assert.NoError(t, err)
	_, err = r.Resolve(types.CandidateFile{Name: "clip2.mp4"}, "video")
	assert.NoError(t, err)
}

func TestResolveSameSecondCollides(t *testing.T) {
	wc, _ := setup(t, nil)
	r := placement.New(wc, placement.WithClock(fixedClock))

	first, err := r.Resolve(types.CandidateFile{Name: "data.csv"}, "misc")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(first.DestinationPath, []byte("x"), 0644))

	second, err := r.Resolve(types.CandidateFile{Name: "data.csv"}, "misc")
	require.NoError(t, err)
	assert.Equal(t, first.DestinationPath, second.DestinationPath, "no probing under the fail strategy")
}

func TestResolveRenameStrategy(t *testing.T) {
	wc, _ := setup(t, func(cfg *config.File) { cfg.Collision = config.CollisionRename })
	r := placement.New(wc, placement.WithClock(fixedClock))

	first, err := r.Resolve(types.CandidateFile{Name: "data.csv"}, "misc")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(first.DestinationPath, []byte("x"), 0644))

	second, err := r.Resolve(types.CandidateFile{Name: "data.csv"}, "misc")
	require.NoError(t, err)
	assert.Equal(t, "20261017_090503_data_(1).csv", second.FileName())
}

func TestResolveDryRunCreatesNothing(t *testing.T) {
	wc, _ := setup(t, func(cfg *config.File) { cfg.DryRun = true })
	r := placement.New(wc)

	d, err := r.Resolve(types.CandidateFile{Name: "a.zip"}, "archives")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Dir(d.DestinationPath))
	assert.True(t, os.IsNotExist(err))
}

func TestResolveFolderCreationFailure(t *testing.T) {
	wc, _ := setup(t, nil)
	// a regular file where the destination root should be
	require.NoError(t, os.MkdirAll(filepath.Dir(wc.DestinationRoot()), 0755))
	require.NoError(t, os.WriteFile(wc.DestinationRoot(), []byte("blocker"), 0644))

	_, err := placement.New(wc).Resolve(types.CandidateFile{Name: "a.pdf"}, "documents")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create category folder")
}

package eligibility_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"dlsort/internal/config"
	"dlsort/internal/eligibility"
	"dlsort/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const watchRoot = "/home/user/Downloads"

func newFilter(t *testing.T, mutate func(*config.File)) *eligibility.Filter {
	t.Helper()
	cfg := config.New()
	cfg.WatchRoot = watchRoot
	cfg.DestinationRoot = filepath.Join(watchRoot, "Sorted")
	if mutate != nil {
		mutate(cfg)
	}
	wc, err := cfg.Build()
	require.NoError(t, err)
	return eligibility.New(wc)
}

func candidate(name string, size int64) types.CandidateFile {
	return types.CandidateFile{
		Path:      filepath.Join(watchRoot, name),
		Name:      name,
		SizeBytes: size,
		IsHidden:  len(name) > 0 && name[0] == '.',
	}
}

func TestFilterRejections(t *testing.T) {
	f := newFilter(t, func(cfg *config.File) { cfg.IgnorePatterns = []string{"~$*"} })

	tests := []struct {
		name   string
		c      types.CandidateFile
		reason string
	}{
		{"chrome partial", candidate("movie.mp4.crdownload", 10<<20), types.ReasonIgnoredSuffix},
		{"suffix case-insensitive", candidate("setup.EXE.PART", 100), types.ReasonIgnoredSuffix},
		{"office lock file", candidate("~$report.docx", 162), types.ReasonIgnoredGlob},
		{"hidden", candidate(".hidden.txt", 12), types.ReasonHidden},
		{"empty", candidate("empty.pdf", 0), types.ReasonEmpty},
		{"unreadable", types.CandidateFile{
			Path: filepath.Join(watchRoot, "gone.zip"), Name: "gone.zip", SizeBytes: 999, SizeErr: os.ErrNotExist,
		}, types.ReasonUnreadable},
		{"already sorted", types.CandidateFile{
			Path: filepath.Join(watchRoot, "Sorted", "images", "a.jpg"), Name: "a.jpg", SizeBytes: 10,
		}, types.ReasonAlreadySorted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := f.Check(tt.c)
			assert.False(t, ok)
			assert.Equal(t, tt.reason, reason)
			assert.False(t, f.IsEligible(tt.c))
		})
	}
}

func TestSortedSegmentAlwaysRejected(t *testing.T) {
	f := newFilter(t, nil)
	for _, size := range []int64{0, 1, 500, 1 << 30} {
		for _, name := range []string{"a.jpg", ".b", "c.part", "plain"} {
			c := types.CandidateFile{
				Path:      filepath.Join("/elsewhere", "Sorted", name),
				Name:      name,
				SizeBytes: size,
			}
			ok, reason := f.Check(c)
			assert.False(t, ok, fmt.Sprintf("%s/%d", name, size))
			assert.Equal(t, types.ReasonAlreadySorted, reason)
		}
	}
}

func TestNonEmptyPlainFileEligible(t *testing.T) {
	f := newFilter(t, nil)
	for _, name := range []string{"photo.JPG", "archive.xyz", "noext", "report.final.pdf", "Sortedness.txt"} {
		assert.True(t, f.IsEligible(candidate(name, 1)), name)
	}
}

func TestEmptyNeverEligible(t *testing.T) {
	f := newFilter(t, nil)
	for _, name := range []string{"a.jpg", "b", "c.pdf"} {
		assert.False(t, f.IsEligible(candidate(name, 0)), name)
	}
}

func TestNoIgnoreSuffixes(t *testing.T) {
	f := newFilter(t, func(cfg *config.File) { cfg.IgnoreSuffixes = []string{} })
	assert.True(t, f.IsEligible(candidate("movie.mp4.crdownload", 10)))
}

func TestNewCandidateFromDisk(t *testing.T) {
	dir := t.TempDir()
	f := newFilter(t, func(cfg *config.File) {
		cfg.WatchRoot = dir
		cfg.DestinationRoot = filepath.Join(dir, "Sorted")
	})

	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, nil, 0644))
	assert.False(t, f.IsEligible(types.NewCandidate(path)), "zero bytes while being written")

	require.NoError(t, os.WriteFile(path, []byte("hello"), 0644))
	assert.True(t, f.IsEligible(types.NewCandidate(path)), "grew between cycles")

	require.NoError(t, os.Remove(path))
	c := types.NewCandidate(path)
	assert.Error(t, c.SizeErr)
	ok, reason := f.Check(c)
	assert.False(t, ok)
	assert.Equal(t, types.ReasonUnreadable, reason)
}

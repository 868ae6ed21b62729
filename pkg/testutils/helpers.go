package testutils

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
)

// WriteFiles creates files in dir with the given contents
func WriteFiles(t testing.TB, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644)
		require.NoError(t, err)
	}
}

// WriteSized creates dir/name holding size zero bytes and returns its path
func WriteSized(t testing.TB, dir, name string, size int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0644))
	return path
}

// RegularFiles returns the sorted names of the regular files directly in dir
func RegularFiles(t testing.TB, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

// Plain removes terminal styling from rendered output
func Plain(s string) string {
	return ansi.Strip(s)
}

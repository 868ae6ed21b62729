package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifierNudgesOnCreate(t *testing.T) {
	dir := t.TempDir()
	n, err := NewNotifier(dir, "Sorted")
	require.NoError(t, err)
	n.quiet = 20 * time.Millisecond
	require.NoError(t, n.Start())
	defer n.Stop()

	// Allow a brief moment for fsnotify to initialize watches
	time.Sleep(50 * time.Millisecond)

	// a burst of events collapses into one nudge
	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}

	select {
	case <-n.Nudges():
	case <-time.After(3 * time.Second):
		t.Fatal("Timeout waiting for nudge")
	}

	select {
	case <-n.Nudges():
		t.Fatal("burst produced more than one nudge")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestNotifierRelevant(t *testing.T) {
	n := &Notifier{ignore: "Sorted"}

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"create", fsnotify.Event{Name: "/in/a.zip", Op: fsnotify.Create}, true},
		{"write", fsnotify.Event{Name: "/in/a.zip", Op: fsnotify.Write}, true},
		{"rename away", fsnotify.Event{Name: "/in/a.zip", Op: fsnotify.Rename}, false},
		{"remove", fsnotify.Event{Name: "/in/a.zip", Op: fsnotify.Remove}, false},
		{"chmod", fsnotify.Event{Name: "/in/a.zip", Op: fsnotify.Chmod}, false},
		{"destination folder", fsnotify.Event{Name: "/in/Sorted", Op: fsnotify.Create}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.relevant(tt.event))
		})
	}
}

func TestNotifierMissingRoot(t *testing.T) {
	_, err := NewNotifier(filepath.Join(t.TempDir(), "absent"), "")
	assert.Error(t, err)
}

func TestNotifierStopIsIdempotent(t *testing.T) {
	n, err := NewNotifier(t.TempDir(), "")
	require.NoError(t, err)
	require.NoError(t, n.Start())
	assert.Error(t, n.Start())
	n.Stop()
	n.Stop()
}

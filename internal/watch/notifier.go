package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"dlsort/internal/log"

	"github.com/fsnotify/fsnotify"
)

// DefaultQuiet is how long the watch root must stay quiet before a burst of
// events is turned into a single nudge.
const DefaultQuiet = 250 * time.Millisecond

// Notifier turns filesystem events in the watch root into nudges that let
// the driver run a cycle before the next tick. It never decides anything
// about individual files; eligibility is still judged by the scan loop.
type Notifier struct {
	root    string
	ignore  string
	quiet   time.Duration
	nudges  chan struct{}
	stop    chan struct{}
	done    chan struct{}
	watcher *fsnotify.Watcher

	mutex   sync.Mutex
	running bool
}

// NewNotifier creates a notifier for root. Events for the entry named
// ignore (the destination folder when it lives inside the watch root) are
// dropped.
func NewNotifier(root, ignore string) (*Notifier, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("error accessing directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := w.Add(root); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to add directory %s to watcher: %w", root, err)
	}

	return &Notifier{
		root:    root,
		ignore:  ignore,
		quiet:   DefaultQuiet,
		nudges:  make(chan struct{}, 1),
		watcher: w,
	}, nil
}

// Nudges delivers at most one pending nudge at a time
func (n *Notifier) Nudges() <-chan struct{} {
	return n.nudges
}

// Start begins processing events
func (n *Notifier) Start() error {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	if n.running {
		return fmt.Errorf("notifier already running")
	}
	n.running = true
	n.stop = make(chan struct{})
	n.done = make(chan struct{})

	go n.loop()
	log.LogWithFields(log.F("directory", n.root)).Debug("Watching directory for changes")
	return nil
}

// Stop halts event processing and releases the fsnotify watcher
func (n *Notifier) Stop() {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	if !n.running {
		return
	}
	close(n.stop)
	<-n.done
	if err := n.watcher.Close(); err != nil {
		log.LogWithFields(log.F("error", err)).Error("Error closing fsnotify watcher")
	}
	n.running = false
}

func (n *Notifier) loop() {
	defer close(n.done)

	timer := time.NewTimer(n.quiet)
	timer.Stop()

	for {
		select {
		case event, ok := <-n.watcher.Events:
			if !ok {
				return
			}
			if !n.relevant(event) {
				continue
			}
			// restart the quiet period on every event
			timer.Reset(n.quiet)

		case <-timer.C:
			select {
			case n.nudges <- struct{}{}:
			default:
				// a nudge is already waiting
			}

		case err, ok := <-n.watcher.Errors:
			if !ok {
				return
			}
			log.LogWithFields(log.F("error", err)).Warn("fsnotify watcher error")

		case <-n.stop:
			timer.Stop()
			return
		}
	}
}

// relevant reports whether event may have produced a new candidate. Files
// leaving the root (rename, remove) never do.
func (n *Notifier) relevant(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
		return false
	}
	if n.ignore != "" && filepath.Base(event.Name) == n.ignore {
		return false
	}
	return true
}

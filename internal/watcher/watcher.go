// Package watcher turns raw fsnotify filesystem events into the small,
// typed command vocabulary the DataStore understands, absorbing bursts of
// related events (an editor doing a rewrite-then-rename save, a session
// file appended line-by-line) behind an adaptive debounce window so the
// DataStore is not re-scanning on every single write.
package watcher

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ccboard/ccboard/internal/models"
	"github.com/ccboard/ccboard/pkg/log"
	"github.com/fsnotify/fsnotify"
)

// CommandKind classifies a debounced filesystem change for the DataStore.
type CommandKind int

const (
	CmdSessionChanged CommandKind = iota
	CmdSessionRemoved
	CmdStatsChanged
	CmdSettingsChanged
	CmdMcpChanged
	CmdHooksChanged
	CmdFrontmatterChanged
)

// Command is one debounced unit of work dispatched to the DataStore.
type Command struct {
	Kind CommandKind
	Path string
}

const (
	baseWindow   = 500 * time.Millisecond
	burstWindow  = 2 * time.Second
	burstTrigger = 10
)

// Watcher wraps an fsnotify.Watcher with path classification and adaptive
// debouncing. The zero value is not usable; construct with New.
type Watcher struct {
	fsw    *fsnotify.Watcher
	out    chan<- Command
	errOut chan<- models.LoadError

	mu         sync.Mutex
	pending    map[string]CommandKind
	timer      *time.Timer
	eventCount int
	burst      bool

	done chan struct{}
}

// New creates a Watcher that delivers debounced commands on out and
// WatcherFailure diagnostics on errOut. Both channels should be read from
// continuously by the caller (typically the DataStore's command loop).
func New(out chan<- Command, errOut chan<- models.LoadError) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, models.LoadError{Kind: models.ErrWatcherFailure, Context: err.Error()}
	}
	return &Watcher{
		fsw:     fsw,
		out:     out,
		errOut:  errOut,
		pending: map[string]CommandKind{},
		done:    make(chan struct{}),
	}, nil
}

// Add registers a directory for watching. Failing to add one path is
// reported as a WatcherError rather than treated as fatal: the rest of the
// tree can still be watched, and the DataStore falls back to whatever it
// already loaded for the unwatchable path.
func (w *Watcher) Add(path string) {
	if err := w.fsw.Add(path); err != nil {
		log.Warnf("watcher: add %s: %v", path, err)
		w.reportError(path, err)
	}
}

func (w *Watcher) reportError(path string, err error) {
	if w.errOut == nil {
		return
	}
	select {
	case w.errOut <- models.LoadError{Kind: models.ErrWatcherFailure, Path: path, Context: err.Error()}:
	default:
	}
}

// Run processes fsnotify events until Close is called. It should be
// started in its own goroutine.
func (w *Watcher) Run() {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Errorf("watcher: %v", err)
			w.reportError("", err)
		case <-w.done:
			return
		}
	}
}

// Close stops the underlying fsnotify watcher and the Run loop.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	kind, ok := classify(ev.Name)
	if !ok {
		return
	}
	if ev.Op&fsnotify.Remove != 0 || ev.Op&fsnotify.Rename != 0 {
		if kind == CmdSessionChanged {
			kind = CmdSessionRemoved
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[ev.Name] = kind
	w.eventCount++

	if w.timer == nil {
		w.timer = time.AfterFunc(baseWindow, w.flush)
		return
	}

	// More than burstTrigger events inside the base window: this is a
	// burst (e.g. a session file being appended line by line), so extend
	// the window instead of flushing partial state repeatedly.
	if w.eventCount > burstTrigger && !w.burst {
		w.burst = true
		w.timer.Stop()
		w.timer = time.AfterFunc(burstWindow, w.flush)
	}
}

func (w *Watcher) flush() {
	w.mu.Lock()
	pending := w.pending
	w.pending = map[string]CommandKind{}
	w.eventCount = 0
	w.burst = false
	w.timer = nil
	w.mu.Unlock()

	for path, kind := range pending {
		select {
		case w.out <- Command{Kind: kind, Path: path}:
		default:
			log.Warnf("watcher: command channel full, dropping update for %s", path)
		}
	}
}

// classify maps a changed path to the command kind the DataStore should
// react with. ok is false for paths that are not state ccboard tracks
// (e.g. a lock file or a swap file fsnotify reports but that never matched
// one of the watched directories for a reason other than its directory).
func classify(path string) (CommandKind, bool) {
	base := filepath.Base(path)
	switch {
	case strings.HasSuffix(path, ".jsonl"):
		return CmdSessionChanged, true
	case base == "stats-cache.json":
		return CmdStatsChanged, true
	case base == "settings.json" || base == "settings.local.json":
		return CmdSettingsChanged, true
	case base == "claude_desktop_config.json" || base == "mcp.json":
		return CmdMcpChanged, true
	case strings.Contains(path, string(filepath.Separator)+"hooks"+string(filepath.Separator)):
		return CmdHooksChanged, true
	case strings.HasSuffix(base, ".md") && (strings.Contains(path, string(filepath.Separator)+"agents"+string(filepath.Separator)) ||
		strings.Contains(path, string(filepath.Separator)+"commands"+string(filepath.Separator)) ||
		strings.Contains(path, string(filepath.Separator)+"skills"+string(filepath.Separator))):
		return CmdFrontmatterChanged, true
	default:
		return 0, false
	}
}

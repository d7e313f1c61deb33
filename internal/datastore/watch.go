package datastore

import (
	"path/filepath"
	"strings"

	"github.com/ccboard/ccboard/internal/models"
	"github.com/ccboard/ccboard/internal/watcher"
	"github.com/ccboard/ccboard/pkg/log"
)

// StartWatching installs an fsnotify-backed Watcher over ASSISTANT_HOME (and
// the project path, if set) and starts a goroutine draining its Command
// channel into the matching Store update method. It is a no-op if the
// Store was constructed without Watch.
func (s *Store) StartWatching() error {
	if !s.opts.Watch {
		return nil
	}

	cmdCh := make(chan watcher.Command, 64)
	errCh := make(chan models.LoadError, 16)
	w, err := watcher.New(cmdCh, errCh)
	if err != nil {
		return err
	}

	w.Add(s.opts.AssistantHome)
	w.Add(s.projectsRoot())
	w.Add(s.hooksDir())
	w.Add(s.agentsDir())
	w.Add(s.commandsDir())
	w.Add(s.skillsDir())
	if s.opts.ProjectPath != "" {
		w.Add(s.opts.ProjectPath)
	}

	s.watch = w
	s.cmdCh = cmdCh
	s.errCh = errCh
	s.watchDone = make(chan struct{})

	go w.Run()
	go s.drainCommands()
	go s.drainWatcherErrors()
	return nil
}

func (s *Store) drainCommands() {
	for {
		select {
		case cmd, ok := <-s.cmdCh:
			if !ok {
				return
			}
			s.dispatch(cmd)
		case <-s.watchDone:
			return
		}
	}
}

func (s *Store) drainWatcherErrors() {
	for {
		select {
		case le, ok := <-s.errCh:
			if !ok {
				return
			}
			s.logLoadError(le)
			s.publish(models.Event{Kind: models.EventWatcherError, Message: le.Error()})
		case <-s.watchDone:
			return
		}
	}
}

func (s *Store) dispatch(cmd watcher.Command) {
	switch cmd.Kind {
	case watcher.CmdSessionChanged:
		if s.sessionExists(cmd.Path) {
			s.UpdateSession(cmd.Path)
		} else {
			s.AddSession(cmd.Path)
		}
	case watcher.CmdSessionRemoved:
		s.RemoveSession(sessionIDFromPath(cmd.Path))
	case watcher.CmdStatsChanged:
		s.ReloadStats()
	case watcher.CmdSettingsChanged:
		s.ReloadSettings()
	case watcher.CmdMcpChanged:
		s.ReloadMcp()
	case watcher.CmdHooksChanged:
		s.ReloadHooks()
	case watcher.CmdFrontmatterChanged:
		s.ReloadFrontmatter()
	default:
		log.Warnf("datastore: unrecognized watcher command kind %d for %s", cmd.Kind, cmd.Path)
	}
}

func (s *Store) sessionExists(path string) bool {
	id := sessionIDFromPath(path)
	_, ok := s.Session(id)
	return ok
}

func sessionIDFromPath(path string) models.SessionID {
	return models.SessionID(strings.TrimSuffix(filepath.Base(path), ".jsonl"))
}

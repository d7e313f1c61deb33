package datastore

import (
	"time"

	"github.com/ccboard/ccboard/pkg/log"
	"github.com/go-co-op/gocron/v2"
)

// statsRevalidateInterval bounds how stale the stats snapshot can get when
// the file watcher is disabled or has missed an event (e.g. the snapshot
// file was rewritten by a tool that doesn't touch mtime the way fsnotify
// expects).
const statsRevalidateInterval = 5 * time.Minute

// contentCacheSweepInterval controls how often the content cache's size is
// logged. The expirable LRU evicts on its own; this job exists purely so a
// long-running process's memory footprint is visible without attaching a
// profiler.
const contentCacheSweepInterval = time.Minute

// StartBackgroundTasks registers the periodic jobs a long-running Store
// needs beyond what the file watcher drives: stats re-validation and a
// content-cache size sweep. It is a companion to StartWatching, not a
// replacement - both can run together, and neither is required for the
// short-lived CLI path.
func (s *Store) StartBackgroundTasks() error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}

	if _, err := scheduler.NewJob(
		gocron.DurationJob(statsRevalidateInterval),
		gocron.NewTask(s.ReloadStats),
	); err != nil {
		return err
	}

	if _, err := scheduler.NewJob(
		gocron.DurationJob(contentCacheSweepInterval),
		gocron.NewTask(func() {
			log.Debugf("datastore: content cache holds %d session(s)", s.contentCache.Len())
		}),
	); err != nil {
		return err
	}

	s.scheduler = scheduler
	scheduler.Start()
	return nil
}

// StopBackgroundTasks shuts down the scheduler started by
// StartBackgroundTasks, if any.
func (s *Store) StopBackgroundTasks() error {
	if s.scheduler == nil {
		return nil
	}
	return s.scheduler.Shutdown()
}

package cliapp

import (
	"fmt"
	"io"

	"github.com/ccboard/ccboard/internal/config"
	"github.com/ccboard/ccboard/internal/metadatacache"
)

// runClearCache wipes the persistent metadata cache without touching any
// other on-disk state. It opens the cache directly rather than going
// through a DataStore, since clearing it has nothing to do with sessions,
// settings, or any other subsystem a full InitialLoad would pull in.
func runClearCache(stdout, stderr io.Writer, args []string) int {
	fs := newFlagSet("clear-cache", stderr)
	if err := fs.Parse(args); err != nil {
		return ExitUsageError
	}

	cache, err := metadatacache.Open(config.CachePath())
	if err != nil {
		return ioFailure(stderr, err)
	}
	defer cache.Close()

	if err := cache.Clear(); err != nil {
		return ioFailure(stderr, err)
	}

	fmt.Fprintln(stdout, "metadata cache cleared")
	return ExitOK
}

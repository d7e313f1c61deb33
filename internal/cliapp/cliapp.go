// Package cliapp implements the CLI-exposed subset of ccboard's read API:
// stats, search, recent, info, resume, clear-cache. Each subcommand except
// clear-cache (which opens only the metadata cache) opens its own
// short-lived DataStore instance (no file watcher, no background
// scheduler) so one-shot invocations don't pay for a subsystem they only
// need for a single snapshot.
package cliapp

import (
	"flag"
	"fmt"
	"io"

	"github.com/ccboard/ccboard/internal/config"
	"github.com/ccboard/ccboard/internal/datastore"
)

// Exit codes, per the CLI's documented contract: 0 success, 1 no matching
// results, 2 ambiguous identifier, 3 I/O failure.
const (
	ExitOK         = 0
	ExitNoResults  = 1
	ExitAmbiguous  = 2
	ExitIOFailure  = 3
	ExitUsageError = 64 // EX_USAGE from sysexits.h
)

// Env holds the streams and process-level knobs a subcommand needs,
// threaded explicitly instead of read from globals so tests can capture
// output without touching os.Stdout.
type Env struct {
	Stdout io.Writer
	Stderr io.Writer
	Args   []string
}

// Run dispatches args[0] to the matching subcommand and returns the process
// exit code. It never calls os.Exit itself - cmd/ccboard does that with the
// returned value.
func Run(env Env) int {
	if len(env.Args) == 0 {
		fmt.Fprintln(env.Stderr, "usage: ccboard <stats|search|recent|info|resume|clear-cache> [flags]")
		return ExitUsageError
	}

	name, rest := env.Args[0], env.Args[1:]
	switch name {
	case "stats":
		return runStats(env.Stdout, env.Stderr, rest)
	case "search":
		return runSearch(env.Stdout, env.Stderr, rest)
	case "recent":
		return runRecent(env.Stdout, env.Stderr, rest)
	case "info":
		return runInfo(env.Stdout, env.Stderr, rest)
	case "resume":
		return runResume(env.Stdout, env.Stderr, rest)
	case "clear-cache":
		return runClearCache(env.Stdout, env.Stderr, rest)
	default:
		fmt.Fprintf(env.Stderr, "ccboard: unknown command %q\n", name)
		return ExitUsageError
	}
}

// openShortLived constructs a DataStore scoped to a single snapshot: no
// watcher, no scheduler, backed by the same on-disk metadata cache the
// long-running server uses so a CLI call benefits from a warm cache.
func openShortLived() (*datastore.Store, error) {
	store, err := datastore.New(datastore.Options{
		AssistantHome: config.Keys.AssistantHome,
		CachePath:     config.CachePath(),
		Watch:         false,
	})
	if err != nil {
		return nil, err
	}
	store.InitialLoad()
	return store, nil
}

func ioFailure(stderr io.Writer, err error) int {
	fmt.Fprintf(stderr, "ccboard: %v\n", err)
	return ExitIOFailure
}

// newFlagSet builds a FlagSet that writes usage to stderr and returns a
// usage error instead of calling os.Exit, matching Run's contract.
func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

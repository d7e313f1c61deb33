package cliapp

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ccboard/ccboard/internal/datastore"
	"github.com/ccboard/ccboard/internal/models"
)

func runInfo(stdout, stderr io.Writer, args []string) int {
	fs := newFlagSet("info", stderr)
	jsonOut := fs.Bool("json", false, "print as JSON instead of a table")
	// Parse repeatedly so flags may follow the id as well as precede it.
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return ExitUsageError
		}
		if fs.NArg() == 0 {
			break
		}
		positional = append(positional, fs.Arg(0))
		args = fs.Args()[1:]
	}
	if len(positional) != 1 {
		fmt.Fprintln(stderr, "usage: ccboard info <session-id-or-prefix> [--json]")
		return ExitUsageError
	}

	store, err := openShortLived()
	if err != nil {
		return ioFailure(stderr, err)
	}
	defer store.Close()

	id, code, err := resolveOrReport(store, positional[0], stderr)
	if err != nil {
		return code
	}

	meta, ok := store.Session(id)
	if !ok {
		fmt.Fprintf(stderr, "ccboard: session %s disappeared mid-lookup\n", id)
		return ExitNoResults
	}

	if *jsonOut {
		return okOrFail(writeJSON(stdout, toRow(meta)), stderr)
	}

	row := toRow(meta)
	fmt.Fprintf(stdout, "id:            %s\n", row.ID)
	fmt.Fprintf(stdout, "project:       %s\n", row.Project)
	fmt.Fprintf(stdout, "branch:        %s\n", row.Branch)
	fmt.Fprintf(stdout, "last active:   %s\n", row.LastActive)
	fmt.Fprintf(stdout, "messages:      %d\n", row.Messages)
	fmt.Fprintf(stdout, "tokens:        %d\n", row.Tokens)
	fmt.Fprintf(stdout, "first message: %s\n", row.FirstSnippet)
	return ExitOK
}

// resolveOrReport resolves a session id-or-prefix, printing and translating
// the datastore's resolution error into the CLI's exit-code contract:
// ExitAmbiguous for multiple matches, ExitNoResults for none.
func resolveOrReport(store *datastore.Store, raw string, stderr io.Writer) (id models.SessionID, exitCode int, err error) {
	resolved, resolveErr := store.ResolveSessionID(raw)
	if resolveErr == nil {
		return resolved, ExitOK, nil
	}

	var ambiguous *datastore.AmbiguousIDError
	if errors.As(resolveErr, &ambiguous) {
		fmt.Fprintf(stderr, "ccboard: %v\n", ambiguous)
		matches := ambiguous.Matches
		if len(matches) == 0 {
			// A too-short prefix is rejected without a lookup, so list the
			// loaded sessions it would have matched here instead.
			for _, m := range store.RecentSessions(0) {
				if strings.HasPrefix(string(m.ID), raw) {
					matches = append(matches, m.ID)
				}
			}
			sort.Slice(matches, func(i, j int) bool { return matches[i] < matches[j] })
		}
		for _, m := range matches {
			fmt.Fprintf(stderr, "  %s\n", m)
		}
		return "", ExitAmbiguous, resolveErr
	}

	fmt.Fprintf(stderr, "ccboard: %v\n", resolveErr)
	return "", ExitNoResults, resolveErr
}

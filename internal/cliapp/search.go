package cliapp

import (
	"fmt"
	"io"
	"strings"
	"time"
)

func runSearch(stdout, stderr io.Writer, args []string) int {
	fs := newFlagSet("search", stderr)
	since := fs.String("since", "", "only include sessions active on or after this date (Nd, Nm, Ny, or YYYY-MM-DD)")
	limit := fs.Int("limit", 0, "maximum number of results (0 = unlimited)")
	jsonOut := fs.Bool("json", false, "print as JSON instead of a table")
	// Parse repeatedly so flags may follow the query as well as precede it.
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
		fmt.Fprintln(stderr, "usage: ccboard search <query> [--since <spec>] [--limit N] [--json]")
		return ExitUsageError
	}
	query := strings.ToLower(positional[0])

	var cutoff time.Time
	if *since != "" {
		t, err := parseSince(*since, time.Now())
		if err != nil {
			fmt.Fprintf(stderr, "ccboard: %v\n", err)
			return ExitUsageError
		}
		cutoff = t
	}

	store, err := openShortLived()
	if err != nil {
		return ioFailure(stderr, err)
	}
	defer store.Close()

	var rows []sessionRow
	for _, m := range store.RecentSessions(0) {
		if !sessionMatches(m.Project, m.Branch, m.FirstSnippet, query) {
			continue
		}
		if !cutoff.IsZero() {
			if m.LastTimestamp == nil || m.LastTimestamp.Before(cutoff) {
				continue
			}
		}
		rows = append(rows, toRow(m))
		if *limit > 0 && len(rows) >= *limit {
			break
		}
	}

	if len(rows) == 0 {
		if *jsonOut {
			writeJSON(stdout, []sessionRow{})
		}
		return ExitNoResults
	}

	if *jsonOut {
		return okOrFail(writeJSON(stdout, rows), stderr)
	}
	writeSessionTable(stdout, rows)
	return ExitOK
}

func sessionMatches(project, branch, snippet, query string) bool {
	return strings.Contains(strings.ToLower(project), query) ||
		strings.Contains(strings.ToLower(branch), query) ||
		strings.Contains(strings.ToLower(snippet), query)
}

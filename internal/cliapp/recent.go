package cliapp

import (
	"fmt"
	"io"
	"strconv"
)

func runRecent(stdout, stderr io.Writer, args []string) int {
	fs := newFlagSet("recent", stderr)
	jsonOut := fs.Bool("json", false, "print as JSON instead of a table")
	// Parse repeatedly so flags may follow the count as well as precede it.
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
		fmt.Fprintln(stderr, "usage: ccboard recent <N> [--json]")
		return ExitUsageError
	}
	n, err := strconv.Atoi(positional[0])
	if err != nil || n <= 0 {
		fmt.Fprintf(stderr, "ccboard: invalid count %q\n", positional[0])
		return ExitUsageError
	}

	store, err := openShortLived()
	if err != nil {
		return ioFailure(stderr, err)
	}
	defer store.Close()

	sessions := store.RecentSessions(n)
	if len(sessions) == 0 {
		if *jsonOut {
			writeJSON(stdout, []sessionRow{})
		}
		return ExitNoResults
	}

	rows := make([]sessionRow, len(sessions))
	for i, m := range sessions {
		rows[i] = toRow(m)
	}

	if *jsonOut {
		return okOrFail(writeJSON(stdout, rows), stderr)
	}
	writeSessionTable(stdout, rows)
	return ExitOK
}

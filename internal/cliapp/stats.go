package cliapp

import (
	"fmt"
	"io"
	"sort"
	"time"
)

func runStats(stdout, stderr io.Writer, args []string) int {
	fs := newFlagSet("stats", stderr)
	jsonOut := fs.Bool("json", false, "print as JSON instead of a table")
	if err := fs.Parse(args); err != nil {
		return ExitUsageError
	}

	store, err := openShortLived()
	if err != nil {
		return ioFailure(stderr, err)
	}
	defer store.Close()

	stats := store.Stats()
	quota, hasQuota := store.QuotaStatus(time.Now())

	if *jsonOut {
		payload := map[string]any{"stats": stats, "quota": nil}
		if hasQuota {
			payload["quota"] = quota
		}
		return okOrFail(writeJSON(stdout, payload), stderr)
	}

	if stats == nil {
		fmt.Fprintln(stdout, "no stats snapshot available")
	} else {
		fmt.Fprintf(stdout, "total tokens: %d\n", stats.TotalTokens.Total())
		fmt.Fprintf(stdout, "total cost:   $%.2f\n", stats.TotalCost)
		fmt.Fprintln(stdout, "by model:")
		models := make([]string, 0, len(stats.ByModel))
		for m := range stats.ByModel {
			models = append(models, m)
		}
		sort.Strings(models)
		for _, m := range models {
			u := stats.ByModel[m]
			fmt.Fprintf(stdout, "  %-30s %10d tokens  $%.2f\n", m, u.Tokens.Total(), u.Cost)
		}
	}

	if hasQuota {
		fmt.Fprintf(stdout, "quota: %.1f%% used (%s)\n", quota.UsagePercent, quota.AlertLevel)
	}

	return ExitOK
}

func okOrFail(err error, stderr io.Writer) int {
	if err != nil {
		return ioFailure(stderr, err)
	}
	return ExitOK
}

package cliapp

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// parseSince interprets the --since date spec: Nd, Nm, Ny (relative to now)
// or an absolute YYYY-MM-DD date.
func parseSince(spec string, now time.Time) (time.Time, error) {
	if spec == "" {
		return time.Time{}, nil
	}

	if t, err := time.Parse("2006-01-02", spec); err == nil {
		return t, nil
	}

	if len(spec) < 2 {
		return time.Time{}, fmt.Errorf("invalid --since value %q", spec)
	}
	unit := spec[len(spec)-1]
	n, err := strconv.Atoi(strings.TrimSuffix(spec, string(unit)))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --since value %q", spec)
	}

	switch unit {
	case 'd':
		return now.AddDate(0, 0, -n), nil
	case 'm':
		return now.AddDate(0, -n, 0), nil
	case 'y':
		return now.AddDate(-n, 0, 0), nil
	default:
		return time.Time{}, fmt.Errorf("invalid --since value %q: unit must be d, m, or y", spec)
	}
}

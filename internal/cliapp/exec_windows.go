//go:build windows

package cliapp

import "errors"

// execReplace has no POSIX-style process-replacement equivalent on
// Windows; runResume only calls it on non-Windows platforms, so this stub
// exists solely to keep the package building there.
func execReplace(bin string, argv, env []string) error {
	return errors.New("process replacement is not supported on windows")
}

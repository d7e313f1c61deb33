//go:build !windows

package cliapp

import "syscall"

// execReplace replaces the current process image with bin, argv, env. On
// success it does not return.
func execReplace(bin string, argv, env []string) error {
	return syscall.Exec(bin, argv, env)
}

//go:build !windows
// +build !windows

package rlimit

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Raise attempts to set the soft RLIMIT_NOFILE to at least n. It never
// lowers an existing higher limit, and never raises past the hard limit.
// A failure is non-fatal; the caller aborts only the pass that needed the
// higher ceiling, not the whole process.
func Raise(n uint64) error {
	var rlim unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &rlim); err != nil {
		return fmt.Errorf("dataselect: getrlimit: %w", err)
	}
	if rlim.Cur >= n {
		return nil
	}
	want := n
	if rlim.Max != unix.RLIM_INFINITY && want > rlim.Max {
		want = rlim.Max
	}
	rlim.Cur = want
	if err := unix.Setrlimit(unix.RLIMIT_NOFILE, &rlim); err != nil {
		return fmt.Errorf("dataselect: setrlimit(%d): %w", want, err)
	}
	return nil
}

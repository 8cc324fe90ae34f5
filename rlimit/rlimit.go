// Package rlimit raises the process's open-file-descriptor ceiling before a
// pass that will hold many files open concurrently.
package rlimit

// ForOpenFiles returns the soft-limit target to request before a pass holds
// n files open concurrently: 2n+20, leaving headroom for the pass's own
// output sinks alongside its inputs.
func ForOpenFiles(n int) uint64 {
	return uint64(2*n + 20)
}

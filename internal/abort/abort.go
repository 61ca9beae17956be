// Package abort holds the shared run-abort flag.
//
// The CLI sets the flag on the first interrupt; the analyzer and the
// execution engine poll it between files so an in-flight external process
// always runs to completion. Tests construct a fresh Flag per case rather
// than sharing a package-level singleton.
package abort

import "sync/atomic"

// Flag is a process-wide cooperative cancellation marker.
type Flag struct {
	set atomic.Bool
}

// New returns an unset flag.
func New() *Flag {
	return &Flag{}
}

// Set marks the run as aborting. Idempotent.
func (f *Flag) Set() {
	f.set.Store(true)
}

// Requested reports whether an abort has been requested. A nil flag never
// aborts, so callers without interrupt handling can pass nil.
func (f *Flag) Requested() bool {
	return f != nil && f.set.Load()
}

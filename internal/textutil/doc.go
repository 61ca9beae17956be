// Package textutil formats sizes, bitrates, and durations for log output
// and run summaries.
//
// All helpers are pure and allocation-light so they can be used freely in
// hot logging paths. Sizes use decimal units (GB, MB) to match the numbers
// reported by the external prober.
package textutil

// Package logging wires log/slog for the converter.
//
// Two handler formats are supported: a compact console format
// (timestamp LEVEL component: message key=value ...) and plain JSON.
// NewFromConfig tees output to stdout and a per-run log file under the
// configured log directory so every run leaves a reviewable transcript.
package logging

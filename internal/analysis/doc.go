// Package analysis decides what each candidate file needs.
//
// The classifier is a pure function from (file, metadata, thresholds) to a
// decision; the analyzer fans it out across all candidates concurrently and
// merges the results into rename/remux/convert buckets plus per-reason skip
// counters. Nothing in this package touches the persisted queue.
package analysis

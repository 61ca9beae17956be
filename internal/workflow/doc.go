// Package workflow wires the analyzer, queue, and engine into runs.
//
// A fresh scan walks the root, classifies everything concurrently,
// applies cheap renames immediately, persists remux/convert work into
// the queue, and then executes serially. A resume skips the walk and
// probe entirely, trusting the metadata cached in the queue and
// re-validating only that each source still exists. The coordinator
// holds the run lock for the whole run and owns the only queue handle;
// the analyzer never touches the queue.
package workflow

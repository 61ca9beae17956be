// Package queue persists pending remux/convert work in a local SQLite
// database so interrupted runs resume without re-probing.
//
// The store holds one table keyed by absolute path. An entry is written
// when analysis decides a file needs work and removed only after the
// execution engine confirms success, so a crash mid-run leaves the work
// represented for a later resume. Upsert semantics guarantee a path never
// appears twice.
package queue

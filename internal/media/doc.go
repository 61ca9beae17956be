// Package media models video files and their probed metadata.
//
// VideoFile is the identity of a file on disk; VideoInfo is the metadata
// snapshot fetched from the external prober. The Prober interface isolates
// the subprocess boundary so classification and execution logic can be
// exercised with fakes.
package media

// Package stats accumulates per-file outcomes into a run summary.
package stats

import (
	"io"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"vconvert/internal/textutil"
)

// ConversionStats captures the before/after numbers for one completed
// conversion or remux.
type ConversionStats struct {
	SourceBytes       int64
	OutputBytes       int64
	SourceBitrateKbps int64
	OutputBitrateKbps int64
	Elapsed           time.Duration
}

// BytesSaved returns how much smaller the output is; negative when the
// output grew.
func (c ConversionStats) BytesSaved() int64 {
	return c.SourceBytes - c.OutputBytes
}

// PercentChange returns the output size relative to the source as a
// percentage delta (-40 means the output is 40% smaller).
func (c ConversionStats) PercentChange() float64 {
	if c.SourceBytes == 0 {
		return 0
	}
	return (float64(c.OutputBytes) - float64(c.SourceBytes)) / float64(c.SourceBytes) * 100
}

// AnalysisStats aggregates what the analyzer saw in one pass.
type AnalysisStats struct {
	Scanned     int
	Renames     int
	Remuxes     int
	Conversions int
	Skipped     int
}

// RunStats aggregates a whole run across both execution buckets.
type RunStats struct {
	Renamed     int
	Remuxed     int
	Converted   int
	Failed      int
	Skipped     int
	SourceBytes int64
	OutputBytes int64
	Elapsed     time.Duration
}

// AddConversion folds one completed file into the totals.
func (r *RunStats) AddConversion(c ConversionStats) {
	r.SourceBytes += c.SourceBytes
	r.OutputBytes += c.OutputBytes
}

// Merge folds another RunStats into this one.
func (r *RunStats) Merge(other RunStats) {
	r.Renamed += other.Renamed
	r.Remuxed += other.Remuxed
	r.Converted += other.Converted
	r.Failed += other.Failed
	r.Skipped += other.Skipped
	r.SourceBytes += other.SourceBytes
	r.OutputBytes += other.OutputBytes
	r.Elapsed += other.Elapsed
}

// Processed returns how many files completed successfully.
func (r RunStats) Processed() int {
	return r.Renamed + r.Remuxed + r.Converted
}

// SpaceSaved returns the net byte reduction across the run.
func (r RunStats) SpaceSaved() int64 {
	return r.SourceBytes - r.OutputBytes
}

// WriteSummary renders the end-of-run summary with grouped digits.
func (r RunStats) WriteSummary(w io.Writer) {
	p := message.NewPrinter(language.English)
	p.Fprintf(w, "Run complete in %s\n", textutil.FormatElapsed(r.Elapsed))
	p.Fprintf(w, "  renamed:   %d\n", r.Renamed)
	p.Fprintf(w, "  remuxed:   %d\n", r.Remuxed)
	p.Fprintf(w, "  converted: %d\n", r.Converted)
	p.Fprintf(w, "  failed:    %d\n", r.Failed)
	p.Fprintf(w, "  skipped:   %d\n", r.Skipped)
	if r.SourceBytes > 0 {
		p.Fprintf(w, "  processed %s into %s (saved %s)\n",
			textutil.FormatSize(r.SourceBytes),
			textutil.FormatSize(r.OutputBytes),
			textutil.FormatSize(r.SpaceSaved()))
	}
}

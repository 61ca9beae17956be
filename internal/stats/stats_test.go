package stats

import (
	"strings"
	"testing"
	"time"
)

func TestConversionStats(t *testing.T) {
	c := ConversionStats{SourceBytes: 1000, OutputBytes: 600}
	if c.BytesSaved() != 400 {
		t.Fatalf("BytesSaved = %d", c.BytesSaved())
	}
	if c.PercentChange() != -40 {
		t.Fatalf("PercentChange = %g", c.PercentChange())
	}

	grew := ConversionStats{SourceBytes: 1000, OutputBytes: 1500}
	if grew.BytesSaved() != -500 || grew.PercentChange() != 50 {
		t.Fatalf("grew = %d, %g", grew.BytesSaved(), grew.PercentChange())
	}

	empty := ConversionStats{}
	if empty.PercentChange() != 0 {
		t.Fatalf("zero-source PercentChange = %g", empty.PercentChange())
	}
}

func TestRunStatsMerge(t *testing.T) {
	a := RunStats{Renamed: 1, Remuxed: 2, Converted: 3, Failed: 1, SourceBytes: 100, OutputBytes: 60}
	b := RunStats{Converted: 2, Skipped: 4, SourceBytes: 50, OutputBytes: 30, Elapsed: time.Minute}
	a.Merge(b)

	if a.Processed() != 8 {
		t.Fatalf("Processed = %d, want 8", a.Processed())
	}
	if a.Failed != 1 || a.Skipped != 4 {
		t.Fatalf("counters = %+v", a)
	}
	if a.SpaceSaved() != 60 {
		t.Fatalf("SpaceSaved = %d", a.SpaceSaved())
	}
	if a.Elapsed != time.Minute {
		t.Fatalf("Elapsed = %s", a.Elapsed)
	}
}

func TestWriteSummary(t *testing.T) {
	r := RunStats{
		Converted:   1250,
		SourceBytes: 2_000_000_000,
		OutputBytes: 1_200_000_000,
		Elapsed:     90 * time.Second,
	}
	var buf strings.Builder
	r.WriteSummary(&buf)
	out := buf.String()

	if !strings.Contains(out, "converted: 1,250") {
		t.Fatalf("summary lacks grouped count:\n%s", out)
	}
	if !strings.Contains(out, "2.00 GB") || !strings.Contains(out, "1.20 GB") {
		t.Fatalf("summary lacks sizes:\n%s", out)
	}
}

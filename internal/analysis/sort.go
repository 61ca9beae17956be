package analysis

import (
	"sort"

	"vconvert/internal/queue"
)

// SortFiles orders a work bucket in place according to the configured
// processing priority. Impact favors files whose conversion frees the
// most: bitrate over frame rate, scaled by duration.
func SortFiles(files []ProcessableFile, order queue.SortOrder) {
	less := func(a, b ProcessableFile) bool { return a.File.Path < b.File.Path }
	switch order {
	case queue.SortBitrate:
		less = func(a, b ProcessableFile) bool { return a.Info.BitrateKbps > b.Info.BitrateKbps }
	case queue.SortBitrateAsc:
		less = func(a, b ProcessableFile) bool { return a.Info.BitrateKbps < b.Info.BitrateKbps }
	case queue.SortSize:
		less = func(a, b ProcessableFile) bool { return a.Info.SizeBytes > b.Info.SizeBytes }
	case queue.SortSizeAsc:
		less = func(a, b ProcessableFile) bool { return a.Info.SizeBytes < b.Info.SizeBytes }
	case queue.SortDuration:
		less = func(a, b ProcessableFile) bool { return a.Info.DurationSeconds > b.Info.DurationSeconds }
	case queue.SortDurationAsc:
		less = func(a, b ProcessableFile) bool { return a.Info.DurationSeconds < b.Info.DurationSeconds }
	case queue.SortResolution:
		less = func(a, b ProcessableFile) bool { return resolution(a) > resolution(b) }
	case queue.SortResolutionAsc:
		less = func(a, b ProcessableFile) bool { return resolution(a) < resolution(b) }
	case queue.SortImpact:
		less = func(a, b ProcessableFile) bool { return impact(a) > impact(b) }
	}
	sort.SliceStable(files, func(i, j int) bool { return less(files[i], files[j]) })
}

func resolution(f ProcessableFile) int {
	return f.Info.Width * f.Info.Height
}

func impact(f ProcessableFile) float64 {
	if f.Info.FramesPerSecond <= 0 {
		return 0
	}
	return float64(f.Info.BitrateKbps) / f.Info.FramesPerSecond * f.Info.DurationSeconds
}

package analysis

import (
	"testing"

	"vconvert/internal/media"
	"vconvert/internal/queue"
)

func TestSortFiles(t *testing.T) {
	build := func(path string, bitrate int64, size int64, duration float64, width, height int, fps float64) ProcessableFile {
		return ProcessableFile{
			File: media.NewVideoFile(path),
			Info: media.VideoInfo{
				BitrateKbps:     bitrate,
				SizeBytes:       size,
				DurationSeconds: duration,
				Width:           width,
				Height:          height,
				FramesPerSecond: fps,
			},
		}
	}

	files := func() []ProcessableFile {
		return []ProcessableFile{
			build("/v/b.mkv", 4000, 500, 120, 1280, 720, 30),
			build("/v/a.mkv", 12000, 2000, 60, 3840, 2160, 24),
			build("/v/c.mkv", 8000, 1000, 600, 1920, 1080, 60),
		}
	}

	cases := []struct {
		order queue.SortOrder
		first string
	}{
		{queue.SortName, "/v/a.mkv"},
		{queue.SortBitrate, "/v/a.mkv"},
		{queue.SortBitrateAsc, "/v/b.mkv"},
		{queue.SortSize, "/v/a.mkv"},
		{queue.SortSizeAsc, "/v/b.mkv"},
		{queue.SortDuration, "/v/c.mkv"},
		{queue.SortDurationAsc, "/v/a.mkv"},
		{queue.SortResolution, "/v/a.mkv"},
		{queue.SortResolutionAsc, "/v/b.mkv"},
		// impact: a=12000/24*60=30000, b=4000/30*120=16000, c=8000/60*600=80000
		{queue.SortImpact, "/v/c.mkv"},
	}
	for _, tc := range cases {
		bucket := files()
		SortFiles(bucket, tc.order)
		if bucket[0].File.Path != tc.first {
			t.Fatalf("sort %s put %s first, want %s", tc.order, bucket[0].File.Path, tc.first)
		}
	}
}

func TestSortFilesZeroFPSImpact(t *testing.T) {
	bucket := []ProcessableFile{
		{File: media.NewVideoFile("/v/nofps.mkv"), Info: media.VideoInfo{BitrateKbps: 99999}},
		{File: media.NewVideoFile("/v/normal.mkv"), Info: media.VideoInfo{BitrateKbps: 1000, FramesPerSecond: 30, DurationSeconds: 60}},
	}
	SortFiles(bucket, queue.SortImpact)
	if bucket[0].File.Path != "/v/normal.mkv" {
		t.Fatalf("zero-fps file sorted first: %s", bucket[0].File.Path)
	}
}

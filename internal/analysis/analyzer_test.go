package analysis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"vconvert/internal/abort"
	"vconvert/internal/media"
)

type fakeProber struct {
	mu     sync.Mutex
	infos  map[string]media.VideoInfo
	errs   map[string]error
	probed []string
}

func (p *fakeProber) Probe(_ context.Context, path string) (*media.VideoInfo, error) {
	p.mu.Lock()
	p.probed = append(p.probed, path)
	p.mu.Unlock()
	if err, ok := p.errs[path]; ok {
		return nil, err
	}
	if info, ok := p.infos[path]; ok {
		return &info, nil
	}
	return nil, fmt.Errorf("no fixture for %s", path)
}

func TestAnalyzeBucketsAndCounters(t *testing.T) {
	prober := &fakeProber{
		infos: map[string]media.VideoInfo{
			"/v/rename.mp4":  {Codec: "hevc", BitrateKbps: 9000},
			"/v/remux.mkv":   {Codec: "hevc", BitrateKbps: 9000},
			"/v/convert.mkv": {Codec: "h264", BitrateKbps: 9000},
			"/v/slow.mp4":    {Codec: "h264", BitrateKbps: 1000},
		},
		errs: map[string]error{
			"/v/broken.mkv": errors.New("exit status 1"),
		},
	}

	files := []media.VideoFile{
		media.NewVideoFile("/v/rename.mp4"),
		media.NewVideoFile("/v/remux.mkv"),
		media.NewVideoFile("/v/convert.mkv"),
		media.NewVideoFile("/v/slow.mp4"),
		media.NewVideoFile("/v/broken.mkv"),
	}

	analyzer := New(prober, Filter{MinBitrateKbps: 5000}, WithExists(neverExists), WithWorkers(3))
	report := analyzer.Analyze(context.Background(), files)

	if report.Aborted {
		t.Fatal("report aborted without an abort")
	}
	if report.Analyzed != len(files) {
		t.Fatalf("Analyzed = %d, want %d", report.Analyzed, len(files))
	}
	if len(report.Renames) != 1 || report.Renames[0].File.Path != "/v/rename.mp4" {
		t.Fatalf("renames = %+v", report.Renames)
	}
	if len(report.Remuxes) != 1 || report.Remuxes[0].File.Path != "/v/remux.mkv" {
		t.Fatalf("remuxes = %+v", report.Remuxes)
	}
	if len(report.Conversions) != 1 || report.Conversions[0].File.Path != "/v/convert.mkv" {
		t.Fatalf("conversions = %+v", report.Conversions)
	}
	if report.SkipCounts[SkipBitrateBelowThreshold] != 1 || report.SkipCounts[SkipAnalysisFailed] != 1 {
		t.Fatalf("skip counts = %+v", report.SkipCounts)
	}
	if report.WorkCount() != 2 {
		t.Fatalf("WorkCount = %d, want 2", report.WorkCount())
	}
}

func TestAnalyzeAbortStopsNewWork(t *testing.T) {
	flag := abort.New()
	flag.Set()

	prober := &fakeProber{infos: map[string]media.VideoInfo{}}
	files := []media.VideoFile{
		media.NewVideoFile("/v/a.mkv"),
		media.NewVideoFile("/v/b.mkv"),
	}

	analyzer := New(prober, Filter{}, WithAbort(flag), WithWorkers(1))
	report := analyzer.Analyze(context.Background(), files)

	if !report.Aborted {
		t.Fatal("report not marked aborted")
	}
	if report.Analyzed != 0 {
		t.Fatalf("Analyzed = %d after pre-set abort, want 0", report.Analyzed)
	}
	if len(prober.probed) != 0 {
		t.Fatalf("prober ran %d times after abort", len(prober.probed))
	}
}

func TestAnalyzeKeepsInputOrderWithinBuckets(t *testing.T) {
	infos := map[string]media.VideoInfo{}
	var files []media.VideoFile
	for i := 0; i < 20; i++ {
		path := fmt.Sprintf("/v/file%02d.mkv", i)
		infos[path] = media.VideoInfo{Codec: "h264", BitrateKbps: 9000}
		files = append(files, media.NewVideoFile(path))
	}

	analyzer := New(&fakeProber{infos: infos}, Filter{}, WithExists(neverExists), WithWorkers(8))
	report := analyzer.Analyze(context.Background(), files)

	if len(report.Conversions) != len(files) {
		t.Fatalf("conversions = %d, want %d", len(report.Conversions), len(files))
	}
	for i, f := range report.Conversions {
		if f.File.Path != files[i].Path {
			t.Fatalf("bucket order broken at %d: %s", i, f.File.Path)
		}
	}
}

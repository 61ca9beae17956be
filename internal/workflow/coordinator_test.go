package workflow

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"vconvert/internal/abort"
	"vconvert/internal/config"
	"vconvert/internal/encoding"
	"vconvert/internal/media"
	"vconvert/internal/queue"
	"vconvert/internal/testsupport"
)

// mapProber serves metadata by path; paths carrying the output marker
// fall back to markerInfo so post-encode validation probes succeed.
type mapProber struct {
	mu         sync.Mutex
	infos      map[string]media.VideoInfo
	markerInfo media.VideoInfo
}

func (p *mapProber) Probe(_ context.Context, path string) (*media.VideoInfo, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if info, ok := p.infos[path]; ok {
		return &info, nil
	}
	if media.NewVideoFile(path).HasCodecMarker() {
		info := p.markerInfo
		return &info, nil
	}
	return nil, errors.New("exit status 1")
}

// touchRunner pretends every encode succeeds, creating the output file.
type touchRunner struct {
	calls   int
	onCall  func(n int)
	failAll bool
}

func (r *touchRunner) Run(_ context.Context, _ string, args []string) error {
	r.calls++
	if r.onCall != nil {
		r.onCall(r.calls)
	}
	if r.failAll {
		return errors.New("exit status 1")
	}
	return os.WriteFile(args[len(args)-1], []byte("out"), 0o644)
}

type fixture struct {
	cfg    *config.Config
	store  *queue.Store
	prober *mapProber
	runner *touchRunner
	root   string
}

func newFixture(t *testing.T, mutate ...func(*config.Config)) *fixture {
	t.Helper()
	cfg := testsupport.NewConfig(t, mutate...)
	return &fixture{
		cfg:    cfg,
		store:  testsupport.MustOpenStore(t, cfg),
		prober: &mapProber{infos: map[string]media.VideoInfo{}, markerInfo: media.VideoInfo{Codec: "hevc", SizeBytes: 1, DurationSeconds: 100}},
		runner: &touchRunner{},
		root:   t.TempDir(),
	}
}

func (f *fixture) addSource(t *testing.T, name string, info media.VideoInfo) string {
	t.Helper()
	path := filepath.Join(f.root, name)
	testsupport.WriteFile(t, path, 4)
	f.prober.infos[path] = info
	return path
}

func (f *fixture) coordinator(t *testing.T, opts ...Option) *Coordinator {
	t.Helper()
	engine := encoding.NewEngine(f.runner, f.prober,
		encoding.WithRemover(os.Remove))
	return New(f.cfg, f.store, engine, f.prober, opts...)
}

func TestRunFreshScan(t *testing.T) {
	f := newFixture(t)
	f.addSource(t, "rename.mp4", media.VideoInfo{Codec: "hevc", BitrateKbps: 9000, SizeBytes: 100, DurationSeconds: 100})
	f.addSource(t, "remux.mkv", media.VideoInfo{Codec: "hevc", BitrateKbps: 9000, SizeBytes: 100, DurationSeconds: 100})
	convertPath := f.addSource(t, "convert.mkv", media.VideoInfo{Codec: "h264", BitrateKbps: 9000, SizeBytes: 100, DurationSeconds: 100})
	f.addSource(t, "skip.mkv", media.VideoInfo{Codec: "h264", BitrateKbps: 1000, SizeBytes: 100, DurationSeconds: 100})
	// validation probe for the converted output
	f.prober.markerInfo = media.VideoInfo{Codec: "hevc", BitrateKbps: 4000, SizeBytes: 50, DurationSeconds: 100}

	run, err := f.coordinator(t).Run(context.Background(), f.root)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if run.Renamed != 1 || run.Remuxed != 1 || run.Converted != 1 || run.Failed != 0 {
		t.Fatalf("run = %+v", run)
	}
	if run.Skipped != 1 {
		t.Fatalf("Skipped = %d, want 1", run.Skipped)
	}
	if _, err := os.Stat(filepath.Join(f.root, "rename.x265.mp4")); err != nil {
		t.Fatalf("rename not applied: %v", err)
	}
	if _, err := os.Stat(filepath.Join(f.root, "rename.mp4")); !os.IsNotExist(err) {
		t.Fatal("renamed source still present")
	}
	if _, err := os.Stat(convertPath); !os.IsNotExist(err) {
		t.Fatal("converted source not removed")
	}

	pending, err := f.store.Pending(context.Background(), queue.Filter{})
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("queue not empty after successful run: %+v", pending)
	}
}

func TestRunFailureKeepsQueueRecord(t *testing.T) {
	f := newFixture(t)
	f.runner.failAll = true
	path := f.addSource(t, "convert.mkv", media.VideoInfo{Codec: "h264", BitrateKbps: 9000, SizeBytes: 100, DurationSeconds: 100})

	run, err := f.coordinator(t).Run(context.Background(), f.root)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if run.Failed != 1 || run.Converted != 0 {
		t.Fatalf("run = %+v", run)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("source touched by failed run: %v", err)
	}

	pending, err := f.store.Pending(context.Background(), queue.Filter{})
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if len(pending) != 1 || pending[0].Path != path {
		t.Fatalf("pending = %+v, want the failed file", pending)
	}
}

func TestRunCountLimitPrefersRemuxes(t *testing.T) {
	f := newFixture(t, func(cfg *config.Config) {
		cfg.Execute.Count = 2
	})
	f.addSource(t, "r1.mkv", media.VideoInfo{Codec: "hevc", BitrateKbps: 9000, SizeBytes: 100, DurationSeconds: 100})
	f.addSource(t, "r2.mkv", media.VideoInfo{Codec: "hevc", BitrateKbps: 9000, SizeBytes: 100, DurationSeconds: 100})
	f.addSource(t, "c1.mkv", media.VideoInfo{Codec: "h264", BitrateKbps: 9000, SizeBytes: 100, DurationSeconds: 100})

	run, err := f.coordinator(t).Run(context.Background(), f.root)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if run.Remuxed != 2 || run.Converted != 0 {
		t.Fatalf("run = %+v, want both remuxes and no conversion", run)
	}

	// classification survives for the deferred conversion
	pending, err := f.store.Pending(context.Background(), queue.Filter{Action: queue.ActionConvert})
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending conversions = %+v", pending)
	}
}

func TestResumeTrustsCachedInfoAndIsIdempotent(t *testing.T) {
	f := newFixture(t)
	path := filepath.Join(f.root, "cached.mkv")
	testsupport.WriteFile(t, path, 4)
	// deliberately no prober entry for the source: resume must not re-probe
	f.prober.markerInfo = media.VideoInfo{Codec: "hevc", SizeBytes: 50, DurationSeconds: 100}

	err := f.store.Upsert(context.Background(), queue.PendingFile{
		Path:      path,
		Extension: "mkv",
		Info:      media.VideoInfo{Codec: "h264", BitrateKbps: 9000, SizeBytes: 100, DurationSeconds: 100},
		Action:    queue.ActionConvert,
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	run, err := f.coordinator(t).Resume(context.Background())
	if err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if run.Converted != 1 {
		t.Fatalf("run = %+v", run)
	}

	again, err := f.coordinator(t).Resume(context.Background())
	if err != nil {
		t.Fatalf("second Resume: %v", err)
	}
	if again.Processed() != 0 || again.Failed != 0 {
		t.Fatalf("second resume did work: %+v", again)
	}
	stats, err := f.store.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Total != 0 {
		t.Fatalf("queue mutated on idle resume: %+v", stats)
	}
}

func TestResumePrunesMissingSources(t *testing.T) {
	f := newFixture(t)
	err := f.store.Upsert(context.Background(), queue.PendingFile{
		Path:      filepath.Join(f.root, "gone.mkv"),
		Extension: "mkv",
		Info:      media.VideoInfo{Codec: "h264", BitrateKbps: 9000},
		Action:    queue.ActionConvert,
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	run, err := f.coordinator(t).Resume(context.Background())
	if err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if run.Processed() != 0 || run.Failed != 0 {
		t.Fatalf("run = %+v", run)
	}
	stats, err := f.store.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Total != 0 {
		t.Fatalf("missing record not pruned: %+v", stats)
	}
}

func TestAbortStopsBetweenFiles(t *testing.T) {
	flag := abort.New()
	f := newFixture(t)
	f.addSource(t, "a.mkv", media.VideoInfo{Codec: "hevc", BitrateKbps: 9000, SizeBytes: 100, DurationSeconds: 100})
	f.addSource(t, "b.mkv", media.VideoInfo{Codec: "hevc", BitrateKbps: 9000, SizeBytes: 100, DurationSeconds: 100})
	f.runner.onCall = func(int) { flag.Set() }

	run, err := f.coordinator(t, WithAbort(flag)).Run(context.Background(), f.root)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if f.runner.calls != 1 {
		t.Fatalf("runner ran %d times after abort mid-batch, want 1", f.runner.calls)
	}
	if run.Remuxed != 1 {
		t.Fatalf("run = %+v", run)
	}

	// the unstarted file stays correctly represented for a future run
	pending, err := f.store.Pending(context.Background(), queue.Filter{})
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending = %+v, want the unstarted file", pending)
	}
}

func TestDryRunMutatesNothing(t *testing.T) {
	f := newFixture(t)
	renamePath := f.addSource(t, "rename.mp4", media.VideoInfo{Codec: "hevc", BitrateKbps: 9000})
	convertPath := f.addSource(t, "convert.mkv", media.VideoInfo{Codec: "h264", BitrateKbps: 9000, SizeBytes: 100, DurationSeconds: 100})

	engine := encoding.NewEngine(f.runner, f.prober, encoding.WithDryRun(true))
	coord := New(f.cfg, f.store, engine, f.prober, WithDryRun(true))

	run, err := coord.Run(context.Background(), f.root)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if run.Renamed != 1 || run.Converted != 1 {
		t.Fatalf("run = %+v", run)
	}
	if f.runner.calls != 0 {
		t.Fatalf("runner invoked %d times during dry run", f.runner.calls)
	}
	for _, path := range []string{renamePath, convertPath} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("dry run touched %s: %v", path, err)
		}
	}
	stats, err := f.store.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Total != 0 {
		t.Fatalf("dry run wrote queue records: %+v", stats)
	}
}

func TestSkipBucketFlags(t *testing.T) {
	f := newFixture(t, func(cfg *config.Config) {
		cfg.Execute.SkipConvert = true
	})
	f.addSource(t, "remux.mkv", media.VideoInfo{Codec: "hevc", BitrateKbps: 9000, SizeBytes: 100, DurationSeconds: 100})
	f.addSource(t, "convert.mkv", media.VideoInfo{Codec: "h264", BitrateKbps: 9000, SizeBytes: 100, DurationSeconds: 100})

	run, err := f.coordinator(t).Run(context.Background(), f.root)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if run.Remuxed != 1 || run.Converted != 0 {
		t.Fatalf("run = %+v", run)
	}
}

func TestExecutionOrderFollowsSort(t *testing.T) {
	f := newFixture(t, func(cfg *config.Config) {
		cfg.Execute.Sort = "bitrate"
	})
	f.addSource(t, "low.mkv", media.VideoInfo{Codec: "hevc", BitrateKbps: 6000, SizeBytes: 100, DurationSeconds: 100})
	f.addSource(t, "high.mkv", media.VideoInfo{Codec: "hevc", BitrateKbps: 20000, SizeBytes: 100, DurationSeconds: 100})

	// record processing order through the runner's output argument
	recorder := &recordingRunner{}
	engine := encoding.NewEngine(recorder, f.prober, encoding.WithRemover(os.Remove))
	coord := New(f.cfg, f.store, engine, f.prober)
	if _, err := coord.Run(context.Background(), f.root); err != nil {
		t.Fatalf("Run: %v", err)
	}
	order := recorder.outputs
	if len(order) != 2 || !strings.Contains(order[0], "high.x265.mp4") {
		t.Fatalf("processing order = %v, want high bitrate first", order)
	}
}

type recordingRunner struct {
	outputs []string
}

func (r *recordingRunner) Run(_ context.Context, _ string, args []string) error {
	out := args[len(args)-1]
	r.outputs = append(r.outputs, out)
	return os.WriteFile(out, []byte("out"), 0o644)
}

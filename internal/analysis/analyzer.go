package analysis

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"sync"

	"vconvert/internal/abort"
	"vconvert/internal/logging"
	"vconvert/internal/media"
)

// Analyzer fans the classifier out across candidate files.
type Analyzer struct {
	prober  media.Prober
	filter  Filter
	exists  func(string) bool
	workers int
	flag    *abort.Flag
	logger  *slog.Logger
}

// Option adjusts analyzer construction.
type Option func(*Analyzer)

// WithWorkers overrides the worker-pool size.
func WithWorkers(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.workers = n
		}
	}
}

// WithExists overrides the output-existence check, used by tests.
func WithExists(exists func(string) bool) Option {
	return func(a *Analyzer) { a.exists = exists }
}

// WithAbort wires the shared abort flag.
func WithAbort(flag *abort.Flag) Option {
	return func(a *Analyzer) { a.flag = flag }
}

// WithLogger attaches a logger; a no-op logger is used otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) { a.logger = logger }
}

// New builds an analyzer over the given prober and filter.
func New(prober media.Prober, filter Filter, opts ...Option) *Analyzer {
	a := &Analyzer{
		prober:  prober,
		filter:  filter,
		workers: runtime.NumCPU(),
		exists: func(path string) bool {
			_, err := os.Stat(path)
			return err == nil
		},
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SkippedFile pairs a skipped candidate with its reason.
type SkippedFile struct {
	File   media.VideoFile
	Reason SkipReason
}

// Report aggregates classification results into work buckets and skip
// counters.
type Report struct {
	Renames     []ProcessableFile
	Remuxes     []ProcessableFile
	Conversions []ProcessableFile
	Skips       []SkippedFile
	SkipCounts  map[SkipKind]int
	Analyzed    int
	Aborted     bool
}

// WorkCount returns how many files need remux or conversion.
func (r *Report) WorkCount() int {
	return len(r.Remuxes) + len(r.Conversions)
}

// Analyze probes and classifies every candidate concurrently. Each task
// reads only the immutable filter and returns an owned result, so the
// merge needs no locking beyond the fan-in. The abort flag is polled per
// task; files not yet dispatched when it trips are left unanalyzed.
func (a *Analyzer) Analyze(ctx context.Context, files []media.VideoFile) *Report {
	results := make([]*Result, len(files))
	indexes := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < a.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				if a.flag.Requested() || ctx.Err() != nil {
					continue
				}
				file := files[i]
				info, err := a.prober.Probe(ctx, file.Path)
				result := Classify(file, info, err, a.filter, a.exists)
				results[i] = &result
			}
		}()
	}

dispatch:
	for i := range files {
		select {
		case indexes <- i:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(indexes)
	wg.Wait()

	report := &Report{SkipCounts: make(map[SkipKind]int)}
	report.Aborted = a.flag.Requested() || ctx.Err() != nil
	for i, result := range results {
		if result == nil {
			continue
		}
		report.Analyzed++
		switch result.Decision {
		case DecisionRename:
			report.Renames = append(report.Renames, result.File)
		case DecisionRemux:
			report.Remuxes = append(report.Remuxes, result.File)
		case DecisionConvert:
			report.Conversions = append(report.Conversions, result.File)
		case DecisionSkip:
			report.Skips = append(report.Skips, SkippedFile{File: files[i], Reason: result.Skip})
			report.SkipCounts[result.Skip.Kind]++
			a.logger.Debug("skipping file",
				logging.String("file", files[i].Name),
				logging.String("reason", result.Skip.String()))
		}
	}
	return report
}

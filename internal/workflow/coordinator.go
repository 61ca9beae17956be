package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gofrs/flock"

	"vconvert/internal/abort"
	"vconvert/internal/analysis"
	"vconvert/internal/config"
	"vconvert/internal/encoding"
	"vconvert/internal/fileutil"
	"vconvert/internal/logging"
	"vconvert/internal/media"
	"vconvert/internal/queue"
	"vconvert/internal/stats"
)

// Coordinator runs the whole pipeline for one invocation.
type Coordinator struct {
	cfg    *config.Config
	store  *queue.Store
	engine *encoding.Engine
	prober media.Prober
	flag   *abort.Flag
	logger *slog.Logger
	remove func(string) error
	sort   queue.SortOrder
	dryRun bool
}

// Option adjusts coordinator construction.
type Option func(*Coordinator)

// WithAbort wires the shared abort flag.
func WithAbort(flag *abort.Flag) Option {
	return func(c *Coordinator) { c.flag = flag }
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logging.NewComponentLogger(logger, "workflow")
	}
}

// WithDryRun reports planned work without mutating files or the queue.
func WithDryRun(dryRun bool) Option {
	return func(c *Coordinator) { c.dryRun = dryRun }
}

// New builds a coordinator. The queue store handle stays owned by the
// coordinator; nothing else mutates it during a run.
func New(cfg *config.Config, store *queue.Store, engine *encoding.Engine, prober media.Prober, opts ...Option) *Coordinator {
	c := &Coordinator{
		cfg:    cfg,
		store:  store,
		engine: engine,
		prober: prober,
		logger: logging.NewNop(),
		remove: fileutil.NewRemover(cfg.Execute.Delete),
		sort:   queue.SortName,
	}
	if order, err := queue.ParseSortOrder(cfg.Execute.Sort); err == nil {
		c.sort = order
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Coordinator) filter() analysis.Filter {
	return analysis.Filter{
		MinBitrateKbps:     c.cfg.Filter.MinBitrateKbps,
		MaxBitrateKbps:     c.cfg.Filter.MaxBitrateKbps,
		MinDurationSeconds: c.cfg.Filter.MinDurationSeconds,
		MaxDurationSeconds: c.cfg.Filter.MaxDurationSeconds,
		Overwrite:          c.cfg.Execute.Overwrite,
	}
}

// Run performs a fresh scan over root and executes the resulting work.
func (c *Coordinator) Run(ctx context.Context, root string) (stats.RunStats, error) {
	var run stats.RunStats
	start := time.Now()

	unlock, err := c.acquireLock()
	if err != nil {
		return run, err
	}
	defer unlock()

	files, err := CollectFiles(root, WalkOptions{
		Extensions: c.cfg.ScanExtensions(),
		Include:    c.cfg.Scan.Include,
		Exclude:    c.cfg.Scan.Exclude,
		Recurse:    c.cfg.Scan.Recurse,
	})
	if err != nil {
		return run, err
	}
	c.logger.Info("scan complete",
		logging.String("root", root),
		logging.Int("candidates", len(files)))

	analyzer := analysis.New(c.prober, c.filter(),
		analysis.WithAbort(c.flag),
		analysis.WithLogger(c.logger))
	report := analyzer.Analyze(ctx, files)
	run.Skipped = len(report.Skips)

	if c.cfg.Execute.ResolveDuplicates && !c.dryRun {
		outcome := analysis.ResolveDuplicates(ctx, c.prober, report.Skips, c.remove, c.logger)
		if outcome.Removed > 0 || outcome.Mismatched > 0 {
			c.logger.Info("duplicate resolution",
				logging.Int("removed", outcome.Removed),
				logging.Int("mismatched", outcome.Mismatched),
				logging.Int("failed", outcome.Failed))
		}
	}

	c.applyRenames(report.Renames, &run)

	if !c.dryRun {
		for _, file := range report.Remuxes {
			if err := c.upsert(ctx, file, queue.ActionRemux); err != nil {
				return run, err
			}
		}
		for _, file := range report.Conversions {
			if err := c.upsert(ctx, file, queue.ActionConvert); err != nil {
				return run, err
			}
		}
	}

	remuxes, conversions := c.truncate(report.Remuxes, report.Conversions)
	c.execute(ctx, remuxes, conversions, &run)
	run.Elapsed = time.Since(start)
	return run, nil
}

// Resume executes work recorded by an earlier run. Cached metadata is
// trusted; only source existence is re-validated, via the missing-record
// prune.
func (c *Coordinator) Resume(ctx context.Context) (stats.RunStats, error) {
	var run stats.RunStats
	start := time.Now()

	unlock, err := c.acquireLock()
	if err != nil {
		return run, err
	}
	defer unlock()

	pruned, err := c.store.RemoveMissing(ctx)
	if err != nil {
		return run, err
	}
	if pruned > 0 {
		c.logger.Info("pruned missing queue records", logging.Int("count", pruned))
	}

	pending, err := c.store.Pending(ctx, queue.Filter{
		Extensions:     c.cfg.Scan.Extensions,
		MinBitrateKbps: c.cfg.Filter.MinBitrateKbps,
		MaxBitrateKbps: c.cfg.Filter.MaxBitrateKbps,
		MinDuration:    c.cfg.Filter.MinDurationSeconds,
		MaxDuration:    c.cfg.Filter.MaxDurationSeconds,
		Sort:           c.sort,
	})
	if err != nil {
		return run, err
	}

	var remuxes, conversions []analysis.ProcessableFile
	for _, record := range pending {
		file := analysis.NewProcessableFile(media.NewVideoFile(record.Path), record.Info)
		switch record.Action {
		case queue.ActionRemux:
			remuxes = append(remuxes, file)
		default:
			conversions = append(conversions, file)
		}
	}
	c.logger.Info("resuming from queue",
		logging.Int("remux", len(remuxes)),
		logging.Int("convert", len(conversions)))

	remuxes, conversions = c.truncate(remuxes, conversions)
	c.execute(ctx, remuxes, conversions, &run)
	run.Elapsed = time.Since(start)
	return run, nil
}

// acquireLock takes the single-run flock so two runs never share the
// encoder or mutate the queue concurrently.
func (c *Coordinator) acquireLock() (func(), error) {
	lock := flock.New(c.cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another run holds the lock at %s", c.cfg.LockPath())
	}
	return func() { _ = lock.Unlock() }, nil
}

// applyRenames stamps the codec marker onto files that are already in
// the target codec and container. Renames are cheap and applied
// immediately, before any queue work.
func (c *Coordinator) applyRenames(renames []analysis.ProcessableFile, run *stats.RunStats) {
	for _, file := range renames {
		target := media.MarkerPath(file.File.Path)
		if c.dryRun {
			c.logger.Info("dry run rename",
				logging.String("from", file.File.Path),
				logging.String("to", target))
			run.Renamed++
			continue
		}
		if _, err := os.Stat(target); err == nil {
			c.logger.Warn("rename target already exists",
				logging.String("from", file.File.Path),
				logging.String("to", target))
			run.Failed++
			continue
		}
		if err := os.Rename(file.File.Path, target); err != nil {
			c.logger.Warn("rename failed",
				logging.String("file", file.File.Path),
				logging.Error(err))
			run.Failed++
			continue
		}
		run.Renamed++
	}
}

func (c *Coordinator) upsert(ctx context.Context, file analysis.ProcessableFile, action queue.PendingAction) error {
	return c.store.Upsert(ctx, queue.PendingFile{
		Path:      file.File.Path,
		Extension: file.File.Extension,
		Info:      file.Info,
		Action:    action,
	})
}

// truncate applies the global count limit across both buckets, remuxes
// first because they are cheap. Each bucket is sorted by the configured
// processing priority before the cut.
func (c *Coordinator) truncate(remuxes, conversions []analysis.ProcessableFile) ([]analysis.ProcessableFile, []analysis.ProcessableFile) {
	if c.cfg.Execute.SkipRemux {
		remuxes = nil
	}
	if c.cfg.Execute.SkipConvert {
		conversions = nil
	}
	analysis.SortFiles(remuxes, c.sort)
	analysis.SortFiles(conversions, c.sort)

	limit := c.cfg.Execute.Count
	if limit <= 0 {
		return remuxes, conversions
	}
	if len(remuxes) >= limit {
		return remuxes[:limit], nil
	}
	remaining := limit - len(remuxes)
	if len(conversions) > remaining {
		conversions = conversions[:remaining]
	}
	return remuxes, conversions
}

// execute runs the remux bucket then the convert bucket, one file at a
// time. The abort flag is checked between files only, so an in-flight
// encode always runs to completion. A queue record is removed only after
// its operation succeeded; failures leave both the record and the source
// untouched.
func (c *Coordinator) execute(ctx context.Context, remuxes, conversions []analysis.ProcessableFile, run *stats.RunStats) {
	for _, file := range remuxes {
		if c.flag.Requested() || ctx.Err() != nil {
			c.logger.Info("abort requested, stopping before next file")
			return
		}
		result := c.engine.Remux(ctx, file)
		c.finish(ctx, file, result, run)
	}
	for _, file := range conversions {
		if c.flag.Requested() || ctx.Err() != nil {
			c.logger.Info("abort requested, stopping before next file")
			return
		}
		result := c.engine.Convert(ctx, file)
		c.finish(ctx, file, result, run)
	}
}

func (c *Coordinator) finish(ctx context.Context, file analysis.ProcessableFile, result encoding.ProcessResult, run *stats.RunStats) {
	switch result.Outcome {
	case encoding.OutcomeRemuxed:
		run.Remuxed++
	case encoding.OutcomeConverted:
		run.Converted++
		run.AddConversion(result.Stats)
	default:
		run.Failed++
		c.logger.Error("processing failed",
			logging.String("file", file.File.Name),
			logging.Error(result.Err))
		return
	}

	c.logger.Info("processed",
		logging.String("file", file.File.Name),
		logging.String("outcome", result.Outcome.String()),
		logging.Duration("elapsed", result.Elapsed))

	if c.dryRun {
		return
	}
	if err := c.store.Remove(ctx, file.File.Path); err != nil {
		c.logger.Warn("failed to remove queue record",
			logging.String("file", file.File.Path),
			logging.Error(err))
	}
}

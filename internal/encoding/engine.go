package encoding

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"vconvert/internal/analysis"
	"vconvert/internal/logging"
	"vconvert/internal/media"
	"vconvert/internal/stats"
)

// MinDurationRatio is the floor for output duration relative to source
// duration; shorter outputs count as truncated and fail validation.
const MinDurationRatio = 0.85

// Engine performs remux and convert operations one file at a time.
type Engine struct {
	runner Runner
	prober media.Prober
	remove func(string) error
	binary string
	dryRun bool
	logger *slog.Logger
}

// EngineOption adjusts engine construction.
type EngineOption func(*Engine)

// WithRemover sets the source-disposal policy (delete or trash).
func WithRemover(remove func(string) error) EngineOption {
	return func(e *Engine) { e.remove = remove }
}

// WithBinary overrides the encoder executable name.
func WithBinary(binary string) EngineOption {
	return func(e *Engine) {
		if strings.TrimSpace(binary) != "" {
			e.binary = binary
		}
	}
}

// WithDryRun makes the engine print commands and fabricate success
// without touching any file.
func WithDryRun(dryRun bool) EngineOption {
	return func(e *Engine) { e.dryRun = dryRun }
}

// WithEngineLogger attaches a logger.
func WithEngineLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) { e.logger = logger }
}

// NewEngine builds an engine over the given runner and prober.
func NewEngine(runner Runner, prober media.Prober, opts ...EngineOption) *Engine {
	e := &Engine{
		runner: runner,
		prober: prober,
		remove: os.Remove,
		binary: "ffmpeg",
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Remux repackages the existing streams into the target container. A
// failed stream copy is retried once with audio transcoded to AAC, which
// covers sources whose audio codec the container refuses. The source is
// disposed of only after the encoder exits zero.
func (e *Engine) Remux(ctx context.Context, file analysis.ProcessableFile) ProcessResult {
	input := file.File.Path
	output := file.OutputPath
	start := time.Now()

	args := remuxArgs(input, output, false)
	if e.dryRun {
		e.logger.Info("dry run", logging.String("command", e.binary+" "+strings.Join(args, " ")))
		return remuxed(time.Since(start))
	}

	err := e.runner.Run(ctx, e.binary, args)
	if err != nil {
		_ = os.Remove(output)
		e.logger.Warn("remux stream copy failed, retrying with AAC audio",
			logging.String("file", file.File.Name),
			logging.Error(err))
		if err := e.runner.Run(ctx, e.binary, remuxArgs(input, output, true)); err != nil {
			_ = os.Remove(output)
			return failed(time.Since(start), "remux %s: %w", file.File.Name, err)
		}
	}

	e.disposeSource(input)
	return remuxed(time.Since(start))
}

// Convert re-encodes the video into the target codec. The CUDA-filtered
// invocation runs first and falls back once to CPU filtering; the output
// is then re-probed, re-encoded once at a lower quality if it outgrew the
// source, and rejected outright if its duration fell below
// MinDurationRatio of the source. Only after validation passes is the
// source disposed of.
func (e *Engine) Convert(ctx context.Context, file analysis.ProcessableFile) ProcessResult {
	input := file.File.Path
	output := file.OutputPath
	info := file.Info
	start := time.Now()

	quality := QualityLevel(info)
	copyAudio := file.File.Extension == "mp4" || file.File.Extension == "mkv"

	e.logger.Info("converting",
		logging.String("file", file.File.Name),
		logging.String("info", info.String()),
		logging.Int("quality", quality))

	args := convertArgs(input, output, quality, copyAudio, true)
	if e.dryRun {
		e.logger.Info("dry run", logging.String("command", e.binary+" "+strings.Join(args, " ")))
		return converted(stats.ConversionStats{
			SourceBytes:       info.SizeBytes,
			SourceBitrateKbps: info.BitrateKbps,
		}, time.Since(start))
	}

	cudaFilters := true
	if err := e.runner.Run(ctx, e.binary, args); err != nil {
		_ = os.Remove(output)
		e.logger.Warn("CUDA filtering failed, retrying with CPU filtering",
			logging.String("file", file.File.Name),
			logging.Error(err))
		cudaFilters = false
		if err := e.runner.Run(ctx, e.binary, convertArgs(input, output, quality, copyAudio, false)); err != nil {
			_ = os.Remove(output)
			return failed(time.Since(start), "convert %s: %w", file.File.Name, err)
		}
	}

	outputInfo, err := e.prober.Probe(ctx, output)
	if err != nil {
		_ = os.Remove(output)
		return failed(time.Since(start), "probe converted %s: %w", file.File.Name, err)
	}

	// One quality-reduced re-encode when the output outgrew its source;
	// an oversized first pass is never accepted as-is.
	if outputInfo.SizeBytes > info.SizeBytes {
		quality += 2
		e.logger.Warn("output larger than source, reconverting at lower quality",
			logging.String("file", file.File.Name),
			logging.Int64("output_bytes", outputInfo.SizeBytes),
			logging.Int64("source_bytes", info.SizeBytes),
			logging.Int("quality", quality))
		_ = os.Remove(output)

		if err := e.runner.Run(ctx, e.binary, convertArgs(input, output, quality, copyAudio, cudaFilters)); err != nil {
			_ = os.Remove(output)
			return failed(time.Since(start), "reconvert %s: %w", file.File.Name, err)
		}
		outputInfo, err = e.prober.Probe(ctx, output)
		if err != nil {
			_ = os.Remove(output)
			return failed(time.Since(start), "probe reconverted %s: %w", file.File.Name, err)
		}
	}

	if outputInfo.DurationSeconds < info.DurationSeconds*MinDurationRatio {
		_ = os.Remove(output)
		return failed(time.Since(start), "convert %s: output duration %.1fs below %.0f%% of source %.1fs",
			file.File.Name, outputInfo.DurationSeconds, MinDurationRatio*100, info.DurationSeconds)
	}

	e.disposeSource(input)
	return converted(stats.ConversionStats{
		SourceBytes:       info.SizeBytes,
		OutputBytes:       outputInfo.SizeBytes,
		SourceBitrateKbps: info.BitrateKbps,
		OutputBitrateKbps: outputInfo.BitrateKbps,
	}, time.Since(start))
}

// disposeSource applies the removal policy to an already-replaced source.
// Failures are warnings only; the conversion stands.
func (e *Engine) disposeSource(path string) {
	if err := e.remove(path); err != nil {
		e.logger.Warn("failed to remove source file",
			logging.String("file", path),
			logging.Error(err))
	}
}

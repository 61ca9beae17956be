package analysis

import (
	"context"
	"log/slog"
	"math"

	"vconvert/internal/logging"
	"vconvert/internal/media"
)

// DurationMatchTolerance is how far an existing output's duration may
// deviate from its source before the pair stops counting as the same
// content. The value is a heuristic, not a guaranteed-correct rule;
// mismatches are reported and left alone.
const DurationMatchTolerance = 0.10

// DuplicateOutcome summarizes one duplicate-resolution pass.
type DuplicateOutcome struct {
	Removed    int
	Mismatched int
	Failed     int
}

// ResolveDuplicates inspects every OutputExists skip: the conflicting
// output is re-probed and, when its duration matches the source within
// DurationMatchTolerance, the source candidate is handed to remove. Any
// disagreement takes no destructive action.
func ResolveDuplicates(ctx context.Context, prober media.Prober, skips []SkippedFile, remove func(string) error, logger *slog.Logger) DuplicateOutcome {
	if logger == nil {
		logger = logging.NewNop()
	}

	var outcome DuplicateOutcome
	for _, skipped := range skips {
		if skipped.Reason.Kind != SkipOutputExists {
			continue
		}

		info, err := prober.Probe(ctx, skipped.Reason.OutputPath)
		if err != nil {
			outcome.Failed++
			logger.Warn("duplicate check probe failed",
				logging.String("output", skipped.Reason.OutputPath),
				logging.Error(err))
			continue
		}

		source := skipped.Reason.SourceDuration
		if !durationsMatch(source, info.DurationSeconds) {
			outcome.Mismatched++
			logger.Warn("duplicate durations disagree, leaving both files",
				logging.String("file", skipped.File.Path),
				logging.Float64("source_seconds", source),
				logging.Float64("output_seconds", info.DurationSeconds))
			continue
		}

		if err := remove(skipped.File.Path); err != nil {
			outcome.Failed++
			logger.Warn("duplicate removal failed",
				logging.String("file", skipped.File.Path),
				logging.Error(err))
			continue
		}
		outcome.Removed++
		logger.Info("removed duplicate source",
			logging.String("file", skipped.File.Path),
			logging.String("output", skipped.Reason.OutputPath))
	}
	return outcome
}

func durationsMatch(source, output float64) bool {
	if source <= 0 || output <= 0 {
		return false
	}
	return math.Abs(source-output) <= source*DurationMatchTolerance
}

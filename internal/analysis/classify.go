package analysis

import (
	"vconvert/internal/media"
)

// Classify decides what one file needs. It is pure: filesystem existence
// checks go through the injected exists func, and the verdict depends only
// on the arguments. First match wins; threshold checks run before the
// output-existence check so filtered-out files are never reported as
// duplicates, and the already-target check runs before bitrate checks so
// a cheap rename is never skipped for low bitrate.
func Classify(file media.VideoFile, info *media.VideoInfo, probeErr error, filter Filter, exists func(string) bool) Result {
	if probeErr != nil {
		return skip(file, media.VideoInfo{}, SkipReason{Kind: SkipAnalysisFailed, Err: probeErr})
	}

	if media.IsTargetCodec(info.Codec) && media.IsTargetContainer(file.Extension) {
		if !file.HasCodecMarker() {
			return Result{Decision: DecisionRename, File: NewProcessableFile(file, *info)}
		}
		return skip(file, *info, SkipReason{Kind: SkipAlreadyConverted})
	}

	if info.BitrateKbps < filter.MinBitrateKbps {
		return skip(file, *info, SkipReason{
			Kind:          SkipBitrateBelowThreshold,
			BitrateKbps:   info.BitrateKbps,
			ThresholdKbps: filter.MinBitrateKbps,
		})
	}
	if filter.MaxBitrateKbps > 0 && info.BitrateKbps > filter.MaxBitrateKbps {
		return skip(file, *info, SkipReason{
			Kind:          SkipBitrateAboveThreshold,
			BitrateKbps:   info.BitrateKbps,
			ThresholdKbps: filter.MaxBitrateKbps,
		})
	}
	if filter.MinDurationSeconds > 0 && info.DurationSeconds < filter.MinDurationSeconds {
		return skip(file, *info, SkipReason{
			Kind:             SkipDurationBelowThreshold,
			DurationSeconds:  info.DurationSeconds,
			ThresholdSeconds: filter.MinDurationSeconds,
		})
	}
	if filter.MaxDurationSeconds > 0 && info.DurationSeconds > filter.MaxDurationSeconds {
		return skip(file, *info, SkipReason{
			Kind:             SkipDurationAboveThreshold,
			DurationSeconds:  info.DurationSeconds,
			ThresholdSeconds: filter.MaxDurationSeconds,
		})
	}

	outputPath := media.OutputPath(file.Path)
	if !filter.Overwrite && exists(outputPath) {
		return skip(file, *info, SkipReason{
			Kind:           SkipOutputExists,
			OutputPath:     outputPath,
			SourceDuration: info.DurationSeconds,
		})
	}

	if media.IsTargetCodec(info.Codec) {
		return Result{Decision: DecisionRemux, File: NewProcessableFile(file, *info)}
	}
	return Result{Decision: DecisionConvert, File: NewProcessableFile(file, *info)}
}

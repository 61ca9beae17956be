package analysis

import (
	"fmt"

	"vconvert/internal/media"
	"vconvert/internal/textutil"
)

// Filter is the immutable per-run threshold set the classifier reads.
type Filter struct {
	MinBitrateKbps     int64
	MaxBitrateKbps     int64
	MinDurationSeconds float64
	MaxDurationSeconds float64
	Overwrite          bool
}

// ProcessableFile owns a candidate, its metadata snapshot, and the
// deterministically computed output path.
type ProcessableFile struct {
	File       media.VideoFile
	Info       media.VideoInfo
	OutputPath string
}

// NewProcessableFile pairs a file with its metadata and derives the
// output path.
func NewProcessableFile(file media.VideoFile, info media.VideoInfo) ProcessableFile {
	return ProcessableFile{
		File:       file,
		Info:       info,
		OutputPath: media.OutputPath(file.Path),
	}
}

// Decision is the classifier verdict for one file.
type Decision int

const (
	DecisionSkip Decision = iota
	DecisionRename
	DecisionRemux
	DecisionConvert
)

func (d Decision) String() string {
	switch d {
	case DecisionRename:
		return "rename"
	case DecisionRemux:
		return "remux"
	case DecisionConvert:
		return "convert"
	default:
		return "skip"
	}
}

// SkipKind enumerates why a file was left alone.
type SkipKind int

const (
	SkipAlreadyConverted SkipKind = iota
	SkipBitrateBelowThreshold
	SkipBitrateAboveThreshold
	SkipDurationBelowThreshold
	SkipDurationAboveThreshold
	SkipOutputExists
	SkipAnalysisFailed
)

// SkipReason carries the skip kind plus the variant data needed for a
// one-line user-visible explanation.
type SkipReason struct {
	Kind             SkipKind
	BitrateKbps      int64
	ThresholdKbps    int64
	DurationSeconds  float64
	ThresholdSeconds float64
	OutputPath       string
	SourceDuration   float64
	Err              error
}

func (r SkipReason) String() string {
	switch r.Kind {
	case SkipAlreadyConverted:
		return "already converted"
	case SkipBitrateBelowThreshold:
		return fmt.Sprintf("bitrate %s below threshold %s",
			textutil.FormatBitrate(r.BitrateKbps), textutil.FormatBitrate(r.ThresholdKbps))
	case SkipBitrateAboveThreshold:
		return fmt.Sprintf("bitrate %s above threshold %s",
			textutil.FormatBitrate(r.BitrateKbps), textutil.FormatBitrate(r.ThresholdKbps))
	case SkipDurationBelowThreshold:
		return fmt.Sprintf("duration %s below threshold %s",
			textutil.FormatSeconds(r.DurationSeconds), textutil.FormatSeconds(r.ThresholdSeconds))
	case SkipDurationAboveThreshold:
		return fmt.Sprintf("duration %s above threshold %s",
			textutil.FormatSeconds(r.DurationSeconds), textutil.FormatSeconds(r.ThresholdSeconds))
	case SkipOutputExists:
		return fmt.Sprintf("output already exists: %s", r.OutputPath)
	case SkipAnalysisFailed:
		return fmt.Sprintf("analysis failed: %v", r.Err)
	default:
		return "skipped"
	}
}

// Result is one classified file: a decision plus the data the decision
// variant carries.
type Result struct {
	Decision Decision
	File     ProcessableFile
	Skip     SkipReason
}

func skip(file media.VideoFile, info media.VideoInfo, reason SkipReason) Result {
	return Result{
		Decision: DecisionSkip,
		File:     ProcessableFile{File: file, Info: info},
		Skip:     reason,
	}
}

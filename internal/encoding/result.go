package encoding

import (
	"fmt"
	"time"

	"vconvert/internal/stats"
)

// Outcome categorizes how processing one file ended.
type Outcome int

const (
	OutcomeFailed Outcome = iota
	OutcomeRemuxed
	OutcomeConverted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRemuxed:
		return "remuxed"
	case OutcomeConverted:
		return "converted"
	default:
		return "failed"
	}
}

// ProcessResult is the engine verdict for one file. Every outcome carries
// timing; only successful outcomes carry stats.
type ProcessResult struct {
	Outcome Outcome
	Stats   stats.ConversionStats
	Elapsed time.Duration
	Err     error
}

// Succeeded reports whether the file may be removed from the queue.
func (r ProcessResult) Succeeded() bool {
	return r.Outcome != OutcomeFailed
}

func remuxed(elapsed time.Duration) ProcessResult {
	return ProcessResult{Outcome: OutcomeRemuxed, Elapsed: elapsed}
}

func converted(s stats.ConversionStats, elapsed time.Duration) ProcessResult {
	s.Elapsed = elapsed
	return ProcessResult{Outcome: OutcomeConverted, Stats: s, Elapsed: elapsed}
}

func failed(elapsed time.Duration, format string, args ...any) ProcessResult {
	return ProcessResult{Outcome: OutcomeFailed, Elapsed: elapsed, Err: fmt.Errorf(format, args...)}
}

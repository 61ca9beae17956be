package queue

import (
	"fmt"
	"strings"

	"vconvert/internal/media"
)

// PendingAction names the work a queued file still owes.
type PendingAction string

const (
	ActionRemux   PendingAction = "remux"
	ActionConvert PendingAction = "convert"
)

// ParseAction converts a stored or user-supplied action name.
func ParseAction(value string) (PendingAction, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case string(ActionRemux):
		return ActionRemux, nil
	case string(ActionConvert):
		return ActionConvert, nil
	default:
		return "", fmt.Errorf("unknown pending action %q", value)
	}
}

// PendingFile is one persisted queue record: a path, its cached metadata
// snapshot, and the action it owes.
type PendingFile struct {
	Path      string
	Extension string
	Info      media.VideoInfo
	Action    PendingAction
	CreatedAt string
	UpdatedAt string
}

// SortOrder selects the processing priority applied when loading pending
// records. It governs order only, never correctness.
type SortOrder string

const (
	SortBitrate       SortOrder = "bitrate"
	SortBitrateAsc    SortOrder = "bitrate-asc"
	SortSize          SortOrder = "size"
	SortSizeAsc       SortOrder = "size-asc"
	SortDuration      SortOrder = "duration"
	SortDurationAsc   SortOrder = "duration-asc"
	SortResolution    SortOrder = "resolution"
	SortResolutionAsc SortOrder = "resolution-asc"
	SortImpact        SortOrder = "impact"
	SortName          SortOrder = "name"
)

// ParseSortOrder validates a user-supplied sort name.
func ParseSortOrder(value string) (SortOrder, error) {
	order := SortOrder(strings.ToLower(strings.TrimSpace(value)))
	switch order {
	case SortBitrate, SortBitrateAsc, SortSize, SortSizeAsc, SortDuration, SortDurationAsc,
		SortResolution, SortResolutionAsc, SortImpact, SortName:
		return order, nil
	case "":
		return SortName, nil
	default:
		return "", fmt.Errorf("unknown sort order %q", value)
	}
}

// SQLOrderClause translates the order into an ORDER BY clause over the
// pending_files columns. Impact estimates how much a conversion matters:
// bitrate over frame rate, scaled by duration.
func (o SortOrder) SQLOrderClause() string {
	switch o {
	case SortBitrate:
		return "bitrate_kbps DESC"
	case SortBitrateAsc:
		return "bitrate_kbps ASC"
	case SortSize:
		return "size_bytes DESC"
	case SortSizeAsc:
		return "size_bytes ASC"
	case SortDuration:
		return "duration_seconds DESC"
	case SortDurationAsc:
		return "duration_seconds ASC"
	case SortResolution:
		return "width * height DESC"
	case SortResolutionAsc:
		return "width * height ASC"
	case SortImpact:
		return "CASE WHEN frames_per_second > 0 THEN bitrate_kbps / frames_per_second * duration_seconds ELSE 0 END DESC"
	default:
		return "path ASC"
	}
}

// Filter narrows which pending records a query returns. Zero values mean
// no constraint; Limit 0 means unlimited.
type Filter struct {
	Action         PendingAction
	Extensions     []string
	MinBitrateKbps int64
	MaxBitrateKbps int64
	MinDuration    float64
	MaxDuration    float64
	Limit          int
	Sort           SortOrder
}

// Stats aggregates the queue contents for reporting.
type Stats struct {
	Total        int
	Remux        int
	Convert      int
	TotalBytes   int64
	TotalSeconds float64
}

// ExtensionStat counts queue records sharing one source extension.
type ExtensionStat struct {
	Extension  string
	Count      int
	TotalBytes int64
}

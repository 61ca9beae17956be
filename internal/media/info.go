package media

import (
	"fmt"
	"strconv"
	"strings"
)

// VideoInfo is a metadata snapshot for one file, fetched once per probe
// and re-fetched after an encode to validate the output.
type VideoInfo struct {
	Codec           string
	BitrateKbps     int64
	SizeBytes       int64
	DurationSeconds float64
	Width           int
	Height          int
	FramesPerSecond float64
}

// Is4K reports whether the larger frame dimension reaches UHD, which
// covers portrait-oriented sources as well.
func (i VideoInfo) Is4K() bool {
	return max(i.Width, i.Height) >= 2160
}

// BitrateMbps returns the bitrate in megabits per second.
func (i VideoInfo) BitrateMbps() float64 {
	return float64(i.BitrateKbps) / 1000
}

// String renders a compact one-line description for log records.
func (i VideoInfo) String() string {
	return fmt.Sprintf("%s %dx%d %.1f Mbps %.1fs", i.Codec, i.Width, i.Height, i.BitrateMbps(), i.DurationSeconds)
}

// ParseProbeOutput decodes line-based key=value prober output into a
// VideoInfo. Missing fields default safely: empty codec, zero bitrate and
// dimensions, zero duration. The prober emits stream fields before
// container fields, so the first positive bit_rate wins; the BPS/BPS-eng
// tags fill in when no bit_rate is usable.
func ParseProbeOutput(output string) VideoInfo {
	var info VideoInfo
	var tagBPS int64

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		key, value, ok := strings.Cut(line, "=")
		if !ok || value == "" || value == "N/A" {
			continue
		}
		switch key {
		case "codec_name":
			if info.Codec == "" {
				info.Codec = strings.ToLower(value)
			}
		case "bit_rate":
			if info.BitrateKbps == 0 {
				if bps, err := strconv.ParseInt(value, 10, 64); err == nil && bps > 0 {
					info.BitrateKbps = bps / 1000
				}
			}
		case "TAG:BPS", "TAG:BPS-eng", "BPS", "BPS-eng":
			if tagBPS == 0 {
				if bps, err := strconv.ParseInt(value, 10, 64); err == nil && bps > 0 {
					tagBPS = bps
				}
			}
		case "size":
			if size, err := strconv.ParseInt(value, 10, 64); err == nil && size > 0 {
				info.SizeBytes = size
			}
		case "duration":
			if info.DurationSeconds == 0 {
				if d, err := strconv.ParseFloat(value, 64); err == nil && d > 0 {
					info.DurationSeconds = d
				}
			}
		case "width":
			if w, err := strconv.Atoi(value); err == nil && info.Width == 0 {
				info.Width = w
			}
		case "height":
			if h, err := strconv.Atoi(value); err == nil && info.Height == 0 {
				info.Height = h
			}
		case "r_frame_rate":
			if info.FramesPerSecond == 0 {
				info.FramesPerSecond = parseFrameRate(value)
			}
		}
	}

	if info.BitrateKbps == 0 && tagBPS > 0 {
		info.BitrateKbps = tagBPS / 1000
	}
	return info
}

// parseFrameRate handles fractional rates like "30000/1001" as well as
// plain decimals. Zero denominators yield 0.
func parseFrameRate(value string) float64 {
	if num, den, ok := strings.Cut(value, "/"); ok {
		n, errN := strconv.ParseFloat(num, 64)
		d, errD := strconv.ParseFloat(den, 64)
		if errN != nil || errD != nil || d == 0 {
			return 0
		}
		return n / d
	}
	rate, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return rate
}

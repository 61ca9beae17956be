package encoding

import (
	"strconv"

	"vconvert/internal/media"
)

// Shared leading arguments for every encoder invocation.
var defaultArgs = []string{"-hide_banner", "-nostdin", "-stats", "-loglevel", "info", "-y"}

// QualityLevel picks the constant-quality parameter for an encode from a
// monotonic table keyed by resolution class and source bitrate. Values
// run 1 to 51; lower means better quality and a bigger file. Sources the
// table does not recognize land in the most conservative bucket.
func QualityLevel(info media.VideoInfo) int {
	mbps := info.BitrateMbps()
	if info.Is4K() {
		switch {
		case mbps > 26:
			return 30
		case mbps > 18:
			return 31
		case mbps > 10:
			return 32
		default:
			return 33
		}
	}
	switch {
	case mbps > 16:
		return 28
	case mbps > 12:
		return 29
	case mbps > 6:
		return 30
	default:
		return 31
	}
}

// remuxArgs builds the stream-copy invocation: first video stream, all
// audio if any, attachments and data streams dropped, subtitles dropped
// to avoid failures with non-mov_text formats.
func remuxArgs(input, output string, aacAudio bool) []string {
	args := append([]string{}, defaultArgs...)
	args = append(args,
		"-i", input,
		"-map", "0:v:0",
		"-map", "0:a?",
		"-map", "-0:t",
		"-map", "-0:d",
		"-sn",
		"-c:v", "copy",
	)
	if aacAudio {
		args = append(args, "-c:a", "aac", "-b:a", "128k")
	} else {
		args = append(args, "-c:a", "copy")
	}
	return append(args,
		"-movflags", "+faststart",
		"-tag:v", "hvc1",
		output,
	)
}

// convertArgs builds the NVENC encode invocation. cudaFilters selects
// GPU-side upload and scaling; the CPU path is slower but compatible
// with pixel formats the CUDA filters reject.
func convertArgs(input, output string, quality int, copyAudio, cudaFilters bool) []string {
	args := append([]string{}, defaultArgs...)
	args = append(args, "-probesize", "50M", "-analyzeduration", "1M")
	if cudaFilters {
		args = append(args, "-extra_hw_frames", "64")
	}
	args = append(args, "-i", input)
	if cudaFilters {
		args = append(args, "-vf", "hwupload_cuda,scale_cuda=format=nv12")
	}
	args = append(args,
		"-c:v", "hevc_nvenc",
		"-rc:v", "vbr",
		"-cq:v", strconv.Itoa(quality),
		"-preset", "p5",
		"-b:v", "0",
		"-rc-lookahead", "48",
		"-spatial_aq", "1",
		"-temporal_aq", "1",
		"-tag:v", "hvc1",
	)
	if copyAudio {
		args = append(args, "-c:a", "copy")
	} else {
		args = append(args, "-c:a", "aac", "-b:a", "128k")
	}
	return append(args, output)
}

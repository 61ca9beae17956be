package media

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// Prober fetches the metadata snapshot for a file. Implementations must
// be safe for concurrent use; the analyzer probes many files at once.
type Prober interface {
	Probe(ctx context.Context, path string) (*VideoInfo, error)
}

// FFprobe is the production Prober. It shells out to an ffprobe-compatible
// binary and parses its flat key=value output.
type FFprobe struct {
	Binary string
	// Logger receives stderr chatter from probes that still succeed.
	Logger *slog.Logger
}

// NewFFprobe returns a Prober backed by the named binary ("ffprobe" when
// empty).
func NewFFprobe(binary string) *FFprobe {
	if strings.TrimSpace(binary) == "" {
		binary = "ffprobe"
	}
	return &FFprobe{Binary: binary}
}

var probeArgs = []string{
	"-v", "error",
	"-show_entries",
	"stream=codec_name,bit_rate,width,height,r_frame_rate:stream_tags=BPS,BPS-eng:format=bit_rate,size,duration",
	"-select_streams", "v:0",
	"-of", "default=nokey=0:noprint_wrappers=1",
}

// Probe runs the prober against path. A non-zero exit returns an error
// carrying the trimmed stderr; on success any stderr chatter is logged as
// a warning, never fatal. A missing size field falls back to os.Stat.
func (p *FFprobe) Probe(ctx context.Context, path string) (*VideoInfo, error) {
	args := append(append([]string{}, probeArgs...), "--", path)
	cmd := exec.CommandContext(ctx, p.Binary, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			return nil, fmt.Errorf("probe %s: %w", path, err)
		}
		return nil, fmt.Errorf("probe %s: %w: %s", path, err, detail)
	}

	if chatter := strings.TrimSpace(stderr.String()); chatter != "" && p.Logger != nil {
		p.Logger.Warn("probe reported warnings", "path", path, "detail", chatter)
	}

	info := ParseProbeOutput(stdout.String())
	if info.SizeBytes == 0 {
		if fi, err := os.Stat(path); err == nil {
			info.SizeBytes = fi.Size()
		}
	}
	return &info, nil
}

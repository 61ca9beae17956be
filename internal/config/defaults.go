package config

const (
	defaultDataDir        = "~/.local/share/vconvert"
	defaultLogDir         = "~/.local/share/vconvert/logs"
	defaultMinBitrateKbps = 8000
	defaultSortOrder      = "name"
	defaultLogFormat      = "auto"
	defaultLogLevel       = "info"
)

// DefaultExtensions are the extensions scanned when no override is given.
var DefaultExtensions = []string{"mp4", "mkv"}

// OtherExtensions covers the known video containers excluding mp4.
var OtherExtensions = []string{"mkv", "wmv", "flv", "m4v", "ts", "mpg", "avi", "mov", "webm"}

// AllExtensions covers every known video container.
var AllExtensions = []string{"mp4", "mkv", "wmv", "flv", "m4v", "ts", "mpg", "avi", "mov", "webm"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Filter: Filter{
			MinBitrateKbps: defaultMinBitrateKbps,
		},
		Execute: Execute{
			Sort: defaultSortOrder,
		},
		Tools: Tools{
			FFmpeg:  "ffmpeg",
			FFprobe: "ffprobe",
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

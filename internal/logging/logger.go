package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Options describes logger construction parameters.
type Options struct {
	Level   string
	Format  string
	Writers []io.Writer
}

// New constructs a slog logger using the provided options.
func New(opts Options) (*slog.Logger, error) {
	level := parseLevel(opts.Level)

	var out io.Writer
	switch len(opts.Writers) {
	case 0:
		out = os.Stdout
	case 1:
		out = opts.Writers[0]
	default:
		out = io.MultiWriter(opts.Writers...)
	}

	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = "console"
	}

	switch format {
	case "json":
		return slog.New(newJSONHandler(out, level)), nil
	case "console":
		return slog.New(newConsoleHandler(out, level)), nil
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}
}

// NewRunLogger creates a logger that writes to stdout and, when logDir is
// set, to a run-scoped log file named after runID. The file always receives
// the JSON format so transcripts stay machine-readable regardless of the
// console format.
func NewRunLogger(logDir, runID, level, format string) (*slog.Logger, string, error) {
	consoleLogger, err := New(Options{Level: level, Format: format, Writers: []io.Writer{os.Stdout}})
	if err != nil {
		return nil, "", err
	}
	if strings.TrimSpace(logDir) == "" {
		return consoleLogger, "", nil
	}

	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, "", fmt.Errorf("ensure log directory: %w", err)
	}
	logPath := filepath.Join(logDir, fmt.Sprintf("run-%s-%s.log", time.Now().UTC().Format("20060102-150405"), runID))
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o664)
	if err != nil {
		return nil, "", fmt.Errorf("open log file %s: %w", logPath, err)
	}

	lvl := parseLevel(level)
	var consoleHandler slog.Handler
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		consoleHandler = newJSONHandler(os.Stdout, lvl)
	} else {
		consoleHandler = newConsoleHandler(os.Stdout, lvl)
	}
	fileHandler := newJSONHandler(file, lvl)

	return slog.New(newTeeHandler(consoleHandler, fileHandler)), logPath, nil
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "info", "":
		return slog.LevelInfo
	default:
		return slog.LevelInfo
	}
}

func newJSONHandler(w io.Writer, level slog.Level) slog.Handler {
	opts := slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.TimeKey:
				attr.Key = "ts"
				if attr.Value.Kind() == slog.KindTime {
					attr.Value = slog.StringValue(attr.Value.Time().UTC().Format(time.RFC3339))
				}
			case slog.LevelKey:
				attr.Value = slog.StringValue(strings.ToLower(attr.Value.String()))
			}
			return attr
		},
	}
	return slog.NewJSONHandler(w, &opts)
}

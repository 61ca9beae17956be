package textutil

import (
	"fmt"
	"time"
)

const (
	kilobyte = 1000
	megabyte = 1000 * kilobyte
	gigabyte = 1000 * megabyte
	terabyte = 1000 * gigabyte
)

// FormatSize renders a byte count using decimal units.
func FormatSize(bytes int64) string {
	switch {
	case bytes < 0:
		return "-" + FormatSize(-bytes)
	case bytes >= terabyte:
		return fmt.Sprintf("%.2f TB", float64(bytes)/float64(terabyte))
	case bytes >= gigabyte:
		return fmt.Sprintf("%.2f GB", float64(bytes)/float64(gigabyte))
	case bytes >= megabyte:
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(megabyte))
	case bytes >= kilobyte:
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(kilobyte))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// FormatBitrate renders a kbps value as Mbps with one decimal.
func FormatBitrate(kbps int64) string {
	return fmt.Sprintf("%.1f Mbps", float64(kbps)/1000.0)
}

// FormatSeconds renders a duration given in seconds as h/m/s components,
// omitting leading zero components.
func FormatSeconds(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int64(seconds + 0.5)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %02dm %02ds", hours, minutes, secs)
	case minutes > 0:
		return fmt.Sprintf("%dm %02ds", minutes, secs)
	default:
		return fmt.Sprintf("%ds", secs)
	}
}

// FormatElapsed renders a wall-clock duration for summaries, second precision.
func FormatElapsed(d time.Duration) string {
	return FormatSeconds(d.Seconds())
}

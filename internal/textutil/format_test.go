package textutil_test

import (
	"testing"
	"time"

	"vconvert/internal/textutil"
)

func TestFormatSize(t *testing.T) {
	cases := []struct {
		bytes int64
		want  string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1500, "1.50 KB"},
		{2_292_495_805, "2.29 GB"},
		{1_000_000, "1.00 MB"},
		{3_500_000_000_000, "3.50 TB"},
		{-1500, "-1.50 KB"},
	}
	for _, tc := range cases {
		if got := textutil.FormatSize(tc.bytes); got != tc.want {
			t.Errorf("FormatSize(%d) = %q, want %q", tc.bytes, got, tc.want)
		}
	}
}

func TestFormatBitrate(t *testing.T) {
	if got := textutil.FormatBitrate(7562); got != "7.6 Mbps" {
		t.Errorf("FormatBitrate(7562) = %q", got)
	}
	if got := textutil.FormatBitrate(500); got != "0.5 Mbps" {
		t.Errorf("FormatBitrate(500) = %q", got)
	}
}

func TestFormatSeconds(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "0s"},
		{42, "42s"},
		{90, "1m 30s"},
		{3661, "1h 01m 01s"},
		{10878, "3h 01m 18s"},
		{-5, "0s"},
	}
	for _, tc := range cases {
		if got := textutil.FormatSeconds(tc.seconds); got != tc.want {
			t.Errorf("FormatSeconds(%v) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestFormatElapsed(t *testing.T) {
	if got := textutil.FormatElapsed(95 * time.Second); got != "1m 35s" {
		t.Errorf("FormatElapsed = %q", got)
	}
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, path, exists, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatalf("Load reported existing file at %s", path)
	}
	if cfg.Filter.MinBitrateKbps != defaultMinBitrateKbps {
		t.Fatalf("MinBitrateKbps = %d, want %d", cfg.Filter.MinBitrateKbps, defaultMinBitrateKbps)
	}
	if cfg.Execute.Sort != "name" {
		t.Fatalf("Sort = %q, want name", cfg.Execute.Sort)
	}
	if !filepath.IsAbs(cfg.Paths.DataDir) {
		t.Fatalf("DataDir not expanded: %q", cfg.Paths.DataDir)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[filter]
min_bitrate_kbps = 5000

[scan]
extensions = [".MKV", "mp4"]
recurse = true

[execute]
sort = "Bitrate"

[logging]
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("Load did not report existing file")
	}
	if cfg.Filter.MinBitrateKbps != 5000 {
		t.Fatalf("MinBitrateKbps = %d, want 5000", cfg.Filter.MinBitrateKbps)
	}
	if got := cfg.Scan.Extensions; len(got) != 2 || got[0] != "mkv" || got[1] != "mp4" {
		t.Fatalf("Extensions = %v, want [mkv mp4]", got)
	}
	if !cfg.Scan.Recurse {
		t.Fatal("Recurse not set")
	}
	if cfg.Execute.Sort != "bitrate" {
		t.Fatalf("Sort = %q, want bitrate", cfg.Execute.Sort)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "max below min bitrate",
			content: "[filter]\nmin_bitrate_kbps = 8000\nmax_bitrate_kbps = 4000\n",
			want:    "max_bitrate_kbps",
		},
		{
			name:    "negative duration",
			content: "[filter]\nmin_duration_seconds = -1.0\n",
			want:    "min_duration_seconds",
		},
		{
			name:    "unknown sort",
			content: "[execute]\nsort = \"alphabetical\"\n",
			want:    "execute.sort",
		},
		{
			name:    "unknown log format",
			content: "[logging]\nformat = \"xml\"\n",
			want:    "logging.format",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := Load(path)
			if err == nil {
				t.Fatal("Load accepted invalid config")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestScanExtensionSelection(t *testing.T) {
	cfg := Default()
	if got := cfg.ScanExtensions(); len(got) != 2 || got[0] != "mp4" || got[1] != "mkv" {
		t.Fatalf("default extensions = %v", got)
	}

	cfg.Scan.ConvertOtherTypes = true
	if got := cfg.ScanExtensions(); len(got) != len(OtherExtensions) || got[0] != "mkv" {
		t.Fatalf("other extensions = %v", got)
	}

	cfg.Scan.ConvertAllTypes = true
	if got := cfg.ScanExtensions(); len(got) != len(AllExtensions) || got[0] != "mp4" {
		t.Fatalf("all extensions = %v", got)
	}

	cfg.Scan.Extensions = []string{"webm"}
	if got := cfg.ScanExtensions(); len(got) != 1 || got[0] != "webm" {
		t.Fatalf("explicit extensions = %v", got)
	}
}

func TestSampleConfigParses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := WriteSample(path); err != nil {
		t.Fatalf("WriteSample: %v", err)
	}
	if err := WriteSample(path); err == nil {
		t.Fatal("WriteSample overwrote existing file")
	}
	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("sample config not found after write")
	}
	if cfg.Filter.MinBitrateKbps != defaultMinBitrateKbps {
		t.Fatalf("sample MinBitrateKbps = %d", cfg.Filter.MinBitrateKbps)
	}
}

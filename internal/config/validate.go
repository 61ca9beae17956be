package config

import "fmt"

var validSortOrders = map[string]bool{
	"bitrate":        true,
	"bitrate-asc":    true,
	"size":           true,
	"size-asc":       true,
	"duration":       true,
	"duration-asc":   true,
	"resolution":     true,
	"resolution-asc": true,
	"impact":         true,
	"name":           true,
}

// "auto" picks console on a terminal and json otherwise.
var validLogFormats = map[string]bool{
	"auto":    true,
	"console": true,
	"json":    true,
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks threshold sanity and enumerated fields. It assumes
// normalize has already run.
func (c *Config) Validate() error {
	if c.Filter.MinBitrateKbps < 0 {
		return fmt.Errorf("filter.min_bitrate_kbps must not be negative: %d", c.Filter.MinBitrateKbps)
	}
	if c.Filter.MaxBitrateKbps < 0 {
		return fmt.Errorf("filter.max_bitrate_kbps must not be negative: %d", c.Filter.MaxBitrateKbps)
	}
	if c.Filter.MaxBitrateKbps > 0 && c.Filter.MaxBitrateKbps < c.Filter.MinBitrateKbps {
		return fmt.Errorf("filter.max_bitrate_kbps (%d) must not be below filter.min_bitrate_kbps (%d)",
			c.Filter.MaxBitrateKbps, c.Filter.MinBitrateKbps)
	}
	if c.Filter.MinDurationSeconds < 0 {
		return fmt.Errorf("filter.min_duration_seconds must not be negative: %g", c.Filter.MinDurationSeconds)
	}
	if c.Filter.MaxDurationSeconds < 0 {
		return fmt.Errorf("filter.max_duration_seconds must not be negative: %g", c.Filter.MaxDurationSeconds)
	}
	if c.Filter.MaxDurationSeconds > 0 && c.Filter.MaxDurationSeconds < c.Filter.MinDurationSeconds {
		return fmt.Errorf("filter.max_duration_seconds (%g) must not be below filter.min_duration_seconds (%g)",
			c.Filter.MaxDurationSeconds, c.Filter.MinDurationSeconds)
	}
	if c.Execute.Count < 0 {
		return fmt.Errorf("execute.count must not be negative: %d", c.Execute.Count)
	}
	if !validSortOrders[c.Execute.Sort] {
		return fmt.Errorf("execute.sort must be one of bitrate, size, duration, resolution, impact, name: %q", c.Execute.Sort)
	}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be auto, console, or json: %q", c.Logging.Format)
	}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be debug, info, warn, or error: %q", c.Logging.Level)
	}
	return nil
}

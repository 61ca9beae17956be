package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}

	c.Scan.Extensions = lowercaseAll(c.Scan.Extensions)
	c.Scan.Include = trimAll(c.Scan.Include)
	c.Scan.Exclude = trimAll(c.Scan.Exclude)

	c.Execute.Sort = strings.ToLower(strings.TrimSpace(c.Execute.Sort))
	if c.Execute.Sort == "" {
		c.Execute.Sort = defaultSortOrder
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	return nil
}

// ScanExtensions resolves the effective extension list, applying the
// all/other type toggles when no explicit list is configured.
func (c *Config) ScanExtensions() []string {
	switch {
	case len(c.Scan.Extensions) > 0:
		return append([]string{}, c.Scan.Extensions...)
	case c.Scan.ConvertAllTypes:
		return append([]string{}, AllExtensions...)
	case c.Scan.ConvertOtherTypes:
		return append([]string{}, OtherExtensions...)
	default:
		return append([]string{}, DefaultExtensions...)
	}
}

func lowercaseAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(v, ".")))
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

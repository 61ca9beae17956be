// Package config loads, normalizes, and validates converter configuration.
//
// Configuration lives in a TOML file (default ~/.config/vconvert/config.toml)
// and is merged with command-line flags by the CLI layer; flags always win.
// Load returns a Config with every path expanded to an absolute form so the
// rest of the program never deals with tildes or relative paths.
package config

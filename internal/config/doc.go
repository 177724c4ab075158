// Package config loads, normalizes, and validates vx configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. A missing config file is not an error:
// every knob has a usable default, so vx works out of the box with
// mkvmerge/mkvextract on PATH.
//
// The minimum tool version and the codec table are compiled in and are not
// configurable; only tool locations, timeouts, concurrency, logging, and the
// optional run journal are.
package config

// Package config loads, normalizes, and validates sprocket configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob the
// panel service and CLI need: log locations, the settings and ffmpeg discovery
// file paths, probe and poll timing, and log output options.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config

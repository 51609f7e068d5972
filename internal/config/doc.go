// Package config loads, normalizes, and validates Stockwell configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// STOCKWELL_SCRIPT_KEY. The Config type centralizes every knob the CLI needs:
// catalog connection and project settings, library scan defaults, journal and
// lock locations, and logging.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config

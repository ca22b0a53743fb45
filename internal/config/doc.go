// Package config loads, normalizes, and validates tubefeed configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob
// the CLI needs: staging and library directories, feed metadata, and
// acquisition policy.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config

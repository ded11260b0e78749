// Package config loads, normalizes, and validates the TOML configuration
// for the dubbing pipeline. All tunables flow from here into components as
// explicit values; nothing reads ambient global state at runtime.
package config

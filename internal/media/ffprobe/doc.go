// Package ffprobe provides a typed wrapper around ffprobe JSON output.
// The fitter uses it to measure clip lengths; commands use it to inspect
// source media.
package ffprobe

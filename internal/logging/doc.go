// Package logging builds the slog loggers used across the pipeline: a
// console handler with flat key=value rendering for interactive use and a
// JSON handler for machine consumption.
package logging

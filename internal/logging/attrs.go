package logging

import "log/slog"

const (
	// FieldComponent is the standardized structured logging key for
	// component names; the console handler promotes it into the prefix.
	FieldComponent = "component"
	// FieldSegmentID is the standardized structured logging key for
	// segment identifiers.
	FieldSegmentID = "segment_id"
	// FieldBatch is the standardized structured logging key for the
	// 1-based translation batch index.
	FieldBatch = "batch"
	// FieldProvider is the standardized structured logging key for the
	// active synthesis backend name.
	FieldProvider = "provider"
)

// Error wraps an error as a standard "error" attribute.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

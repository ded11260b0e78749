package services

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel markers classify failures for the boundaries that consume them.
// Configuration and auth problems are fatal before a run starts; transport,
// parse, and media-tool failures degrade a single batch or segment.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrAuth          = errors.New("auth error")
	ErrTransport     = errors.New("transport error")
	ErrResponseParse = errors.New("response parse error")
	ErrMediaTool     = errors.New("media tool error")
	ErrTransient     = errors.New("transient failure")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatal reports whether an error must stop the run before it starts rather
// than degrade a single batch or segment.
func IsFatal(err error) bool {
	return errors.Is(err, ErrConfiguration) || errors.Is(err, ErrAuth)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}

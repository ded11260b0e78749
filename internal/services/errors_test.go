package services_test

import (
	"errors"
	"testing"

	"dubber/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("connection refused")
	err := services.Wrap(services.ErrTransport, "translate", "send batch", "batch 3", base)
	if !errors.Is(err, services.ErrTransport) {
		t.Fatalf("wrapped error lost its marker: %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("wrapped error lost its cause: %v", err)
	}
	want := "transport error: translate: send batch: batch 3: connection refused"
	if err.Error() != want {
		t.Fatalf("message = %q, want %q", err.Error(), want)
	}
}

func TestWrapNilMarkerDefaultsTransient(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("nil marker should default to transient: %v", err)
	}
	if err.Error() != "transient failure: service failure" {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestIsFatal(t *testing.T) {
	if !services.IsFatal(services.Wrap(services.ErrAuth, "tts", "", "missing api key", nil)) {
		t.Fatal("auth errors are fatal")
	}
	if !services.IsFatal(services.Wrap(services.ErrConfiguration, "tts", "", "unknown provider", nil)) {
		t.Fatal("configuration errors are fatal")
	}
	if services.IsFatal(services.Wrap(services.ErrTransport, "tts", "", "timeout", nil)) {
		t.Fatal("transport errors degrade, not abort")
	}
}

package deps

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatalf("expected detail message for missing binary")
	}
}

func TestRequirementsDefaults(t *testing.T) {
	reqs := Requirements("", "")
	if len(reqs) != 2 || reqs[0].Command != "ffmpeg" || reqs[1].Command != "ffprobe" {
		t.Fatalf("requirements = %+v", reqs)
	}
	custom := Requirements("/opt/ffmpeg/bin/ffmpeg", "")
	if custom[0].Command != "/opt/ffmpeg/bin/ffmpeg" {
		t.Fatalf("override lost: %+v", custom[0])
	}
}

func TestFirstMissing(t *testing.T) {
	statuses := []Status{
		{Name: "A", Available: true},
		{Name: "B", Available: false, Optional: true},
		{Name: "C", Available: false},
	}
	missing := FirstMissing(statuses)
	if missing == nil || missing.Name != "C" {
		t.Fatalf("missing = %+v", missing)
	}
	if FirstMissing(statuses[:2]) != nil {
		t.Fatal("optional unavailable should not count as missing")
	}
}

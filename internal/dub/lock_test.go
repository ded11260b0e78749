package dub

import (
	"errors"
	"testing"
)

func TestAcquireLockExcludesSecondRun(t *testing.T) {
	dir := t.TempDir()
	first, err := AcquireLock(dir)
	if err != nil {
		t.Fatalf("AcquireLock: %v", err)
	}
	defer first.Release()

	if _, err := AcquireLock(dir); !errors.Is(err, ErrWorkDirBusy) {
		t.Fatalf("second AcquireLock = %v, want ErrWorkDirBusy", err)
	}

	if err := first.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	second, err := AcquireLock(dir)
	if err != nil {
		t.Fatalf("AcquireLock after release: %v", err)
	}
	second.Release()
}

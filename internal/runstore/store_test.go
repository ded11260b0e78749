package runstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestCreateAndFinishRun(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	run, err := store.CreateRun(ctx, "/videos/talk.mp4", "vi", "fpt", "meta-llama/llama-3.3-70b-instruct:free")
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}
	if run.ID == 0 || run.Status != RunStatusRunning {
		t.Fatalf("run = %+v", run)
	}

	if err := store.FinishRun(ctx, run.ID, RunStatusCompleted, ""); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}
	loaded, err := store.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if loaded.Status != RunStatusCompleted || loaded.SourcePath != "/videos/talk.mp4" {
		t.Fatalf("loaded = %+v", loaded)
	}
	if loaded.CreatedAt.IsZero() || loaded.UpdatedAt.Before(loaded.CreatedAt) {
		t.Fatalf("timestamps = %v / %v", loaded.CreatedAt, loaded.UpdatedAt)
	}
}

func TestFinishRunUnknownID(t *testing.T) {
	store := openStore(t)
	if err := store.FinishRun(context.Background(), 42, RunStatusFailed, "boom"); !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("FinishRun = %v, want ErrRunNotFound", err)
	}
}

func TestLatestRunAndList(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if _, err := store.LatestRun(ctx); !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("LatestRun on empty store = %v, want ErrRunNotFound", err)
	}

	first, _ := store.CreateRun(ctx, "/a.mp4", "vi", "openai", "m")
	second, err := store.CreateRun(ctx, "/b.mp4", "vi", "openai", "m")
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}

	latest, err := store.LatestRun(ctx)
	if err != nil {
		t.Fatalf("LatestRun: %v", err)
	}
	if latest.ID != second.ID {
		t.Fatalf("latest = %d, want %d", latest.ID, second.ID)
	}

	runs, err := store.ListRuns(ctx, 10)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != second.ID || runs[1].ID != first.ID {
		t.Fatalf("runs = %+v", runs)
	}
}

func TestSegmentStateUpsertAndProgress(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	run, _ := store.CreateRun(ctx, "/a.mp4", "vi", "fpt", "m")

	for i := 1; i <= 4; i++ {
		if err := store.UpsertSegmentState(ctx, SegmentState{
			RunID:     run.ID,
			SegmentID: i,
			Status:    SegmentStatusTranslated,
		}); err != nil {
			t.Fatalf("UpsertSegmentState: %v", err)
		}
	}
	// Move two segments forward and fail one.
	if err := store.UpsertSegmentState(ctx, SegmentState{
		RunID: run.ID, SegmentID: 1, Status: SegmentStatusSynthesized,
		AudioPath: "/clips/1.mp3", Remedy: "sped",
	}); err != nil {
		t.Fatalf("UpsertSegmentState: %v", err)
	}
	if err := store.UpsertSegmentState(ctx, SegmentState{
		RunID: run.ID, SegmentID: 2, Status: SegmentStatusFailed,
	}); err != nil {
		t.Fatalf("UpsertSegmentState: %v", err)
	}

	states, err := store.SegmentStates(ctx, run.ID)
	if err != nil {
		t.Fatalf("SegmentStates: %v", err)
	}
	if len(states) != 4 {
		t.Fatalf("len(states) = %d", len(states))
	}
	if states[0].Status != SegmentStatusSynthesized || states[0].AudioPath != "/clips/1.mp3" || states[0].Remedy != "sped" {
		t.Fatalf("states[0] = %+v", states[0])
	}

	progress, err := store.RunProgress(ctx, run.ID)
	if err != nil {
		t.Fatalf("RunProgress: %v", err)
	}
	if progress.Total != 4 || progress.Synthesized != 1 || progress.Failed != 1 || progress.Translated != 2 {
		t.Fatalf("progress = %+v", progress)
	}
}

func TestOpenRejectsVersionMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := store.db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	store.Close()

	if _, err := Open(path); !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("Open = %v, want ErrSchemaMismatch", err)
	}
}

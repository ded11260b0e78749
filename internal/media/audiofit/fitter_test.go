package audiofit

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// stubFitter returns a fitter whose measure/stretch/trim are scripted, plus
// a clip file on disk so the superseded-file cleanup has something to act on.
func stubFitter(t *testing.T, durations map[string]float64) (*Fitter, string) {
	t.Helper()
	dir := t.TempDir()
	clip := filepath.Join(dir, "clip.mp3")
	if err := os.WriteFile(clip, []byte("mp3"), 0o644); err != nil {
		t.Fatalf("write clip: %v", err)
	}
	fitter := New(Options{}, nil)
	fitter.measure = func(_ context.Context, path string) (float64, error) {
		d, ok := durations[filepath.Base(path)]
		if !ok {
			return 0, errors.New("no duration scripted for " + path)
		}
		return d, nil
	}
	fitter.stretch = func(_ context.Context, _, output string, _ float64) error {
		return os.WriteFile(output, []byte("sped"), 0o644)
	}
	fitter.trim = func(_ context.Context, _, output string, _ float64) error {
		return os.WriteFile(output, []byte("trimmed"), 0o644)
	}
	return fitter, clip
}

func TestFitLeavesShortClipsAlone(t *testing.T) {
	fitter, clip := stubFitter(t, map[string]float64{"clip.mp3": 2.0})
	result, err := fitter.Fit(context.Background(), clip, 3.0)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if result.Remedy != RemedyUnchanged || result.Path != clip || result.AppliedSpeed != 1.0 {
		t.Fatalf("result = %+v", result)
	}
}

func TestFitSpeedsUpWithMargin(t *testing.T) {
	fitter, clip := stubFitter(t, map[string]float64{
		"clip.mp3":      3.6,
		"clip-sped.mp3": 2.9,
	})
	result, err := fitter.Fit(context.Background(), clip, 3.0)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if result.Remedy != RemedySped {
		t.Fatalf("remedy = %s", result.Remedy)
	}
	want := 3.6 / 3.0 * 1.15
	if math.Abs(result.AppliedSpeed-want) > 1e-9 {
		t.Fatalf("applied speed = %v, want %v", result.AppliedSpeed, want)
	}
	if _, err := os.Stat(clip); !os.IsNotExist(err) {
		t.Fatal("superseded clip should be removed")
	}
}

func TestFitCapsAtMaxSpeed(t *testing.T) {
	// 4.5s into a 3s slot needs 1.5*1.15 = 1.725, past the 1.5 ceiling.
	fitter, clip := stubFitter(t, map[string]float64{
		"clip.mp3":      4.5,
		"clip-sped.mp3": 3.0,
	})
	result, err := fitter.Fit(context.Background(), clip, 3.0)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if result.AppliedSpeed != 1.5 {
		t.Fatalf("applied speed = %v, want ceiling 1.5", result.AppliedSpeed)
	}
	if result.Remedy != RemedySped {
		t.Fatalf("remedy = %s", result.Remedy)
	}
}

func TestFitTrimsSmallOverrun(t *testing.T) {
	fitter, clip := stubFitter(t, map[string]float64{
		"clip.mp3":      6.0,
		"clip-sped.mp3": 3.5,
	})
	result, err := fitter.Fit(context.Background(), clip, 3.0)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if result.Remedy != RemedyTrimmed {
		t.Fatalf("remedy = %s", result.Remedy)
	}
	if filepath.Base(result.Path) != "clip-trim.mp3" {
		t.Fatalf("path = %s", result.Path)
	}
	if result.Duration != 3.0 {
		t.Fatalf("duration = %v, want slot length", result.Duration)
	}
}

func TestFitAcceptsLargeOverrun(t *testing.T) {
	fitter, clip := stubFitter(t, map[string]float64{
		"clip.mp3":      9.0,
		"clip-sped.mp3": 4.5,
	})
	result, err := fitter.Fit(context.Background(), clip, 3.0)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if result.Remedy != RemedyOverrun {
		t.Fatalf("remedy = %s", result.Remedy)
	}
	if filepath.Base(result.Path) != "clip-sped.mp3" {
		t.Fatalf("path = %s", result.Path)
	}
}

func TestFitStretchFailureKeepsOriginal(t *testing.T) {
	fitter, clip := stubFitter(t, map[string]float64{"clip.mp3": 6.0})
	fitter.stretch = func(context.Context, string, string, float64) error {
		return errors.New("ffmpeg exploded")
	}
	result, err := fitter.Fit(context.Background(), clip, 3.0)
	if err == nil {
		t.Fatal("expected an error")
	}
	if result.Path != clip || result.Remedy != RemedyUnchanged {
		t.Fatalf("result = %+v", result)
	}
	if _, statErr := os.Stat(clip); statErr != nil {
		t.Fatal("original clip must survive a failed stretch")
	}
}

func TestFitTrimFailureKeepsSpedClip(t *testing.T) {
	fitter, clip := stubFitter(t, map[string]float64{
		"clip.mp3":      6.0,
		"clip-sped.mp3": 3.5,
	})
	fitter.trim = func(context.Context, string, string, float64) error {
		return errors.New("trim failed")
	}
	result, err := fitter.Fit(context.Background(), clip, 3.0)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if result.Remedy != RemedyOverrun || filepath.Base(result.Path) != "clip-sped.mp3" {
		t.Fatalf("result = %+v", result)
	}
}

func TestAdjustSpeedReplacesClip(t *testing.T) {
	fitter, clip := stubFitter(t, nil)
	out, err := fitter.AdjustSpeed(context.Background(), clip, 1.2)
	if err != nil {
		t.Fatalf("AdjustSpeed: %v", err)
	}
	if filepath.Base(out) != "clip-retimed.mp3" {
		t.Fatalf("out = %s", out)
	}
	if _, err := os.Stat(clip); !os.IsNotExist(err) {
		t.Fatal("input clip should be removed")
	}
}

func TestAdjustSpeedNoopAtUnity(t *testing.T) {
	fitter, clip := stubFitter(t, nil)
	out, err := fitter.AdjustSpeed(context.Background(), clip, 1.0)
	if err != nil || out != clip {
		t.Fatalf("AdjustSpeed = %q, %v", out, err)
	}
}

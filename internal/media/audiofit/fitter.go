package audiofit

import (
	"context"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"dubber/internal/logging"
	"dubber/internal/media/ffprobe"
)

// Remedy names the action the fitter took on a clip.
type Remedy string

const (
	// RemedyUnchanged means the clip already fit its slot.
	RemedyUnchanged Remedy = "unchanged"
	// RemedySped means speeding the clip up was enough.
	RemedySped Remedy = "sped"
	// RemedyTrimmed means the clip hit the speed ceiling and its small
	// remaining overrun was cut off.
	RemedyTrimmed Remedy = "trimmed"
	// RemedyOverrun means the clip still runs past its slot: the overrun
	// was too large to trim without losing speech.
	RemedyOverrun Remedy = "overrun"
)

// Result reports what happened to one clip.
type Result struct {
	// Path is the clip to use from here on. It replaces the input path
	// whenever the fitter produced a new file.
	Path string
	// AppliedSpeed is the tempo factor applied, 1.0 when unchanged.
	AppliedSpeed float64
	// Duration is the measured length of the final clip in seconds.
	Duration float64
	Remedy   Remedy
}

// Options configures a Fitter.
type Options struct {
	FFmpegBinary  string
	FFprobeBinary string
	// MaxSpeed caps the tempo factor.
	MaxSpeed float64
	// Margin is the safety factor multiplied into the required speed-up so
	// the result lands slightly under the slot rather than exactly on it.
	Margin float64
	// TrimThresholdSeconds bounds how much audio trimming may cut off.
	// Overruns past it are accepted instead.
	TrimThresholdSeconds float64
}

// Fitter fits speech clips into timeline slots.
type Fitter struct {
	opts   Options
	logger *slog.Logger

	measure func(ctx context.Context, path string) (float64, error)
	stretch func(ctx context.Context, input, output string, speed float64) error
	trim    func(ctx context.Context, input, output string, seconds float64) error
}

// New constructs a Fitter. Zero option values fall back to the defaults
// used throughout: max speed 1.5, margin 1.15, trim threshold 1s.
func New(opts Options, logger *slog.Logger) *Fitter {
	if opts.MaxSpeed <= 0 {
		opts.MaxSpeed = 1.5
	}
	if opts.Margin <= 0 {
		opts.Margin = 1.15
	}
	if opts.TrimThresholdSeconds <= 0 {
		opts.TrimThresholdSeconds = 1.0
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	f := &Fitter{
		opts:   opts,
		logger: logger.With(logging.FieldComponent, "audiofit"),
	}
	f.measure = func(ctx context.Context, path string) (float64, error) {
		return ffprobe.Duration(ctx, f.opts.FFprobeBinary, path)
	}
	f.stretch = func(ctx context.Context, input, output string, speed float64) error {
		return runFFmpeg(ctx, f.opts.FFmpegBinary, stretchArgs(input, output, speed))
	}
	f.trim = func(ctx context.Context, input, output string, seconds float64) error {
		return runFFmpeg(ctx, f.opts.FFmpegBinary, trimArgs(input, output, seconds))
	}
	return f
}

// Fit makes the clip at path fit into a slot of the given length. When a
// new file is produced the superseded one is removed; on failure the
// untouched input clip is returned alongside the error so the caller can
// still use it.
func (f *Fitter) Fit(ctx context.Context, path string, slotSeconds float64) (Result, error) {
	actual, err := f.measure(ctx, path)
	if err != nil {
		return Result{Path: path, AppliedSpeed: 1.0, Remedy: RemedyUnchanged}, err
	}
	if actual <= slotSeconds {
		return Result{Path: path, AppliedSpeed: 1.0, Duration: actual, Remedy: RemedyUnchanged}, nil
	}

	required := actual / slotSeconds * f.opts.Margin
	applied := math.Min(required, f.opts.MaxSpeed)

	spedPath := derivePath(path, "sped")
	if err := f.stretch(ctx, path, spedPath, applied); err != nil {
		return Result{Path: path, AppliedSpeed: 1.0, Duration: actual, Remedy: RemedyUnchanged}, err
	}
	removeQuietly(path)

	fitted, err := f.measure(ctx, spedPath)
	if err != nil {
		return Result{Path: spedPath, AppliedSpeed: applied, Remedy: RemedySped}, err
	}
	if fitted <= slotSeconds {
		return Result{Path: spedPath, AppliedSpeed: applied, Duration: fitted, Remedy: RemedySped}, nil
	}

	// The speed ceiling was not enough. Small overruns are usually
	// trailing silence, so cutting them is safe; large ones would lose
	// actual speech and are kept instead.
	overrun := fitted - slotSeconds
	if overrun >= f.opts.TrimThresholdSeconds {
		f.logger.Warn("clip overruns its slot",
			"clip", spedPath,
			"overrun_seconds", overrun)
		return Result{Path: spedPath, AppliedSpeed: applied, Duration: fitted, Remedy: RemedyOverrun}, nil
	}

	trimmedPath := derivePath(path, "trim")
	if err := f.trim(ctx, spedPath, trimmedPath, slotSeconds); err != nil {
		f.logger.Warn("trim failed, keeping overrunning clip",
			"clip", spedPath,
			logging.Error(err))
		return Result{Path: spedPath, AppliedSpeed: applied, Duration: fitted, Remedy: RemedyOverrun}, nil
	}
	removeQuietly(spedPath)
	return Result{Path: trimmedPath, AppliedSpeed: applied, Duration: slotSeconds, Remedy: RemedyTrimmed}, nil
}

// AdjustSpeed re-times a clip by a fixed factor, replacing the input file.
// It backs the speed adjustment hook of synthesis backends that cannot
// apply speed natively.
func (f *Fitter) AdjustSpeed(ctx context.Context, path string, speed float64) (string, error) {
	if speed == 1.0 {
		return path, nil
	}
	output := derivePath(path, "retimed")
	if err := f.stretch(ctx, path, output, speed); err != nil {
		return path, err
	}
	removeQuietly(path)
	return output, nil
}

func derivePath(path, tag string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "-" + tag + ext
}

// removeQuietly drops a superseded intermediate. Leftovers are harmless;
// the work directory is cleaned between runs.
func removeQuietly(path string) {
	_ = os.Remove(path)
}

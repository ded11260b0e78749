package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"dubber/internal/config"
	"dubber/internal/dub"
	"dubber/internal/logging"
	"dubber/internal/media/audiofit"
	"dubber/internal/runstore"
	"dubber/internal/segment"
	"dubber/internal/tts"
)

func newSynthesizeCommand(ctx *commandContext) *cobra.Command {
	var noFit bool

	cmd := &cobra.Command{
		Use:   "synthesize <segments.json>",
		Short: "Generate speech clips for translated segments",
		Long: "Synthesizes audio for every segment that has text and no clip yet,\n" +
			"then fits each clip into its timeline slot. The segments file is\n" +
			"updated in place with the clip paths.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			segments, inputPath, err := loadSegments(args[0])
			if err != nil {
				return err
			}

			runCtx, stop := signalContext()
			defer stop()

			summary, runErr := synthesizeStage(runCtx, ctx, cfg, logger, segments, inputPath, !noFit)
			if err := segment.Save(inputPath, segments); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderSynthesisSummary(summary))
			if runErr != nil {
				return fmt.Errorf("synthesis interrupted (progress saved to %s): %w", inputPath, runErr)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", inputPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noFit, "no-fit", false, "Keep the natural clip length instead of fitting slots")
	return cmd
}

// synthesizeStage wires the provider, fitter, and orchestrator together and
// records the run in the history store. The work directory is locked for
// the duration so two runs cannot fight over the same clips.
func synthesizeStage(ctx context.Context, cctx *commandContext, cfg *config.Config, logger *slog.Logger, segments segment.List, sourcePath string, fit bool) (dub.Summary, error) {
	if err := requireMediaTools(cfg); err != nil {
		return dub.Summary{}, err
	}

	lock, err := dub.AcquireLock(cfg.Paths.WorkDir)
	if err != nil {
		return dub.Summary{}, err
	}
	defer lock.Release()

	clipsDir, err := cctx.clipsDir()
	if err != nil {
		return dub.Summary{}, err
	}
	fitter := audiofit.New(audiofit.Options{
		FFmpegBinary:         cfg.FFmpegBinary(),
		FFprobeBinary:        cfg.FFprobeBinary(),
		MaxSpeed:             cfg.Sync.MaxSpeed,
		Margin:               cfg.Sync.Margin,
		TrimThresholdSeconds: cfg.Sync.TrimThresholdSeconds,
	}, logger)
	provider, err := tts.New(tts.Config{
		Provider:       cfg.TTS.Provider,
		APIKey:         cfg.TTS.APIKey,
		Voice:          cfg.TTS.Voice,
		Speed:          cfg.TTS.Speed,
		TimeoutSeconds: cfg.TTS.TimeoutSeconds,
		OutputDir:      clipsDir,
	}, tts.WithSpeedAdjuster(fitter.AdjustSpeed))
	if err != nil {
		return dub.Summary{}, err
	}
	logger.Info("synthesis starting",
		logging.FieldProvider, provider.Name(),
		"segments", len(segments))

	store, err := cctx.openStore()
	if err != nil {
		return dub.Summary{}, err
	}
	defer store.Close()
	run, err := store.CreateRun(ctx, sourcePath, canonicalLanguage(cfg.Translation.TargetLanguage), provider.Name(), cfg.Translation.Model)
	if err != nil {
		return dub.Summary{}, err
	}

	orchestrator := dub.New(provider, fitter, dub.Options{
		Workers:     cfg.Sync.Workers,
		FitDuration: fit,
		Slots: dub.SlotOptions{
			FloorSeconds:  cfg.Sync.SlotFloorSeconds,
			BufferSeconds: cfg.Sync.SlotBufferSeconds,
		},
		Progress: func(done, total int) {
			logger.Info("synthesis progress", "done", done, "total", total)
		},
	}, logger)

	summary, runErr := orchestrator.Run(ctx, segments)

	persistSegmentStates(store, run.ID, segments, summary.Outcomes)
	status := runstore.RunStatusCompleted
	message := ""
	switch {
	case runErr != nil:
		status = runstore.RunStatusCancelled
		message = runErr.Error()
	case summary.Failed > 0:
		message = fmt.Sprintf("%d segments failed", summary.Failed)
	}
	if err := store.FinishRun(context.Background(), run.ID, status, message); err != nil {
		logger.Warn("record run outcome", "error", err)
	}

	logger.Info("mix the dubbed track with",
		"original_volume", cfg.Mix.OriginalVolume,
		"dubbing_volume", cfg.Mix.DubbingVolume)
	return summary, runErr
}

// persistSegmentStates snapshots per-segment progress after a stage. The
// background context keeps bookkeeping working even when the run context
// was cancelled. Outcomes carry what the orchestrator did this run, so a
// segment whose synthesis failed is recorded as failed rather than falling
// back to its translation state.
func persistSegmentStates(store *runstore.Store, runID int64, segments segment.List, outcomes map[int]dub.Outcome) {
	ctx := context.Background()
	for _, seg := range segments {
		state := runstore.SegmentState{
			RunID:     runID,
			SegmentID: seg.ID,
			AudioPath: seg.AudioPath,
		}
		outcome, ran := outcomes[seg.ID]
		switch {
		case ran && outcome.Failed:
			state.Status = runstore.SegmentStatusFailed
		case seg.SpeechText() == "":
			state.Status = runstore.SegmentStatusSkipped
		case seg.AudioPath != "":
			state.Status = runstore.SegmentStatusSynthesized
			state.Remedy = string(outcome.Remedy)
		case seg.Translation != "":
			state.Status = runstore.SegmentStatusTranslated
		default:
			state.Status = runstore.SegmentStatusPending
		}
		_ = store.UpsertSegmentState(ctx, state)
	}
}

func renderSynthesisSummary(summary dub.Summary) string {
	return renderTable(
		[]string{"Synthesized", "Skipped", "Failed", "Sped", "Trimmed", "Overrun"},
		[][]string{{
			formatCount(summary.Synthesized),
			formatCount(summary.Skipped),
			formatCount(summary.Failed),
			formatCount(summary.Remedies[audiofit.RemedySped]),
			formatCount(summary.Remedies[audiofit.RemedyTrimmed]),
			formatCount(summary.Remedies[audiofit.RemedyOverrun]),
		}},
		[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignRight, alignRight},
	)
}

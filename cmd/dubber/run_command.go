package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dubber/internal/fileutil"
	"dubber/internal/pricing"
	"dubber/internal/segment"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var noFit bool
	var noBackup bool

	cmd := &cobra.Command{
		Use:   "run <segments.json>",
		Short: "Translate and synthesize in one pass",
		Long: "Runs the full pipeline over a segments file: translate everything\n" +
			"still untranslated, then synthesize and fit a clip for every segment.\n" +
			"Progress is saved after each stage, so an interrupted run resumes\n" +
			"where it stopped.",
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
			if !noBackup {
				if err := fileutil.CopyFile(inputPath, inputPath+".bak"); err != nil {
					return fmt.Errorf("back up segments: %w", err)
				}
			}

			estimate := pricing.EstimateCost(segments, cfg.Translation.Model, pricing.Options{
				BatchSize:  cfg.Translation.BatchSize,
				Multiplier: cfg.Translation.CostMultiplier,
			})
			logger.Info("starting run",
				"segments", len(segments),
				"model", cfg.Translation.Model,
				"provider", cfg.TTS.Provider,
				"estimated_cost_usd", estimate.DisplayCost)

			runCtx, stop := signalContext()
			defer stop()

			translateSummary, runErr := translateStage(runCtx, cfg, logger, segments)
			if err := segment.Save(inputPath, segments); err != nil {
				return err
			}
			if runErr != nil {
				return fmt.Errorf("run interrupted during translation (progress saved to %s): %w", inputPath, runErr)
			}
			logger.Info("translation finished",
				"translated", translateSummary.Translated,
				"fallback", translateSummary.FallenBack,
				"skipped", translateSummary.Skipped)

			dubSummary, runErr := synthesizeStage(runCtx, ctx, cfg, logger, segments, inputPath, !noFit)
			if err := segment.Save(inputPath, segments); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Translated", "Fallback", "Synthesized", "Failed"},
				[][]string{{
					formatCount(translateSummary.Translated),
					formatCount(translateSummary.FallenBack),
					formatCount(dubSummary.Synthesized),
					formatCount(dubSummary.Failed),
				}},
				[]columnAlignment{alignRight, alignRight, alignRight, alignRight},
			))
			if runErr != nil {
				return fmt.Errorf("run interrupted during synthesis (progress saved to %s): %w", inputPath, runErr)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", inputPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noFit, "no-fit", false, "Keep the natural clip length instead of fitting slots")
	cmd.Flags().BoolVar(&noBackup, "no-backup", false, "Skip the .bak copy of the segments file")
	return cmd
}

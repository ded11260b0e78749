package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dubber/internal/fileutil"
	"dubber/internal/segment"
)

func newTranslateCommand(ctx *commandContext) *cobra.Command {
	var outputPath string
	var noBackup bool

	cmd := &cobra.Command{
		Use:   "translate <segments.json>",
		Short: "Fill in missing segment translations",
		Long: "Translates every segment that does not already carry a translation.\n" +
			"Failed batches fall back to the source text so a run always produces\n" +
			"a complete file; rerun later to replace fallbacks with translations.",
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

			target := outputPath
			if target == "" {
				target = inputPath
			}
			if target == inputPath && !noBackup {
				if err := fileutil.CopyFile(inputPath, inputPath+".bak"); err != nil {
					return fmt.Errorf("back up segments: %w", err)
				}
			}

			runCtx, stop := signalContext()
			defer stop()

			summary, runErr := translateStage(runCtx, cfg, logger, segments)
			if err := segment.Save(target, segments); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Batches", "Translated", "Fallback", "Skipped"},
				[][]string{{
					formatCount(summary.Batches),
					formatCount(summary.Translated),
					formatCount(summary.FallenBack),
					formatCount(summary.Skipped),
				}},
				[]columnAlignment{alignRight, alignRight, alignRight, alignRight},
			))
			if runErr != nil {
				return fmt.Errorf("translation interrupted (progress saved to %s): %w", target, runErr)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write translated segments to this path instead of in place")
	cmd.Flags().BoolVar(&noBackup, "no-backup", false, "Skip the .bak copy when writing in place")
	return cmd
}

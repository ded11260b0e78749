package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"dubber/internal/runstore"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show recent runs and their segment progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet.")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					fmt.Sprintf("%d", run.ID),
					run.SourcePath,
					run.TargetLanguage,
					run.Provider,
					string(run.Status),
					run.CreatedAt.Local().Format(time.DateTime),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Source", "Language", "Provider", "Status", "Started"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
			))

			latest, err := store.LatestRun(cmd.Context())
			if err != nil {
				if errors.Is(err, runstore.ErrRunNotFound) {
					return nil
				}
				return err
			}
			progress, err := store.RunProgress(cmd.Context(), latest.ID)
			if err != nil {
				return err
			}
			if progress.Total == 0 {
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nRun %d segments:\n", latest.ID)
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Total", "Translated", "Synthesized", "Skipped", "Failed"},
				[][]string{{
					formatCount(progress.Total),
					formatCount(progress.Translated),
					formatCount(progress.Synthesized),
					formatCount(progress.Skipped),
					formatCount(progress.Failed),
				}},
				[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of runs to list")
	return cmd
}

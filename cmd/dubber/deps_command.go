package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dubber/internal/deps"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check for the external tools a run needs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			statuses := deps.CheckBinaries(deps.Requirements(cfg.FFmpegBinary(), cfg.FFprobeBinary()))

			rows := make([][]string, 0, len(statuses))
			for _, status := range statuses {
				available := "ok"
				if !status.Available {
					available = "missing"
				}
				detail := status.Detail
				if detail == "" {
					detail = status.Description
				}
				rows = append(rows, []string{status.Name, status.Command, available, detail})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Tool", "Command", "Status", "Detail"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			))
			if missing := deps.FirstMissing(statuses); missing != nil {
				return fmt.Errorf("missing required tool: %s", missing.Name)
			}
			return nil
		},
	}
}

package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"dubber/internal/pricing"
)

func newEstimateCommand(ctx *commandContext) *cobra.Command {
	var model string
	var allModels bool

	cmd := &cobra.Command{
		Use:   "estimate <segments.json>",
		Short: "Estimate the translation cost of a segments file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			segments, _, err := loadSegments(args[0])
			if err != nil {
				return err
			}

			opts := pricing.Options{
				BatchSize:  cfg.Translation.BatchSize,
				Multiplier: cfg.Translation.CostMultiplier,
			}

			models := []string{cfg.Translation.Model}
			if model != "" {
				models = []string{model}
			}
			if allModels {
				models = models[:0]
				for name := range pricing.DefaultTable() {
					models = append(models, name)
				}
				sort.Strings(models)
			}

			rows := make([][]string, 0, len(models))
			for _, name := range models {
				estimate := pricing.EstimateCost(segments, name, opts)
				rows = append(rows, []string{
					name,
					formatTokens(estimate.InputTokens),
					formatTokens(estimate.OutputTokens),
					formatUSD(estimate.DisplayCost),
				})
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d segments\n", len(segments))
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Model", "Input Tokens", "Output Tokens", "Est. Cost"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "Estimate for this model instead of the configured one")
	cmd.Flags().BoolVar(&allModels, "all", false, "Estimate for every model in the built-in price table")
	return cmd
}

func formatTokens(tokens float64) string {
	return strconv.FormatFloat(tokens, 'f', 0, 64)
}

func formatUSD(amount float64) string {
	return "$" + strconv.FormatFloat(amount, 'f', 6, 64)
}

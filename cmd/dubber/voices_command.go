package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dubber/internal/tts"
)

func newVoicesCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "voices [provider]",
		Short:       "List the voices of a synthesis provider",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			providers := tts.Providers()
			if len(args) == 1 {
				providers = []string{args[0]}
			}

			var rows [][]string
			for _, provider := range providers {
				voices := tts.Voices(provider)
				if len(voices) == 0 {
					return fmt.Errorf("unknown provider %q (expected one of %v)", provider, tts.Providers())
				}
				for _, voice := range voices {
					rows = append(rows, []string{provider, voice.ID, voice.Description})
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Provider", "Voice", "Description"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"dubber/internal/services"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(exitCode(err))
	}
}

// exitCode maps configuration and credential problems to exit 2 so wrappers
// can tell "fix your setup" apart from a run that degraded or was cancelled.
func exitCode(err error) int {
	if services.IsFatal(err) {
		return 2
	}
	return 1
}

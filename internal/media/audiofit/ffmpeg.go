package audiofit

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"dubber/internal/services"
)

// atempoFilter renders the filter expression for a tempo factor, chaining
// stages when the factor exceeds what a single atempo supports.
func atempoFilter(speed float64) string {
	stages := SplitRatio(speed)
	parts := make([]string, 0, len(stages))
	for _, stage := range stages {
		parts = append(parts, "atempo="+strconv.FormatFloat(stage, 'f', -1, 64))
	}
	return strings.Join(parts, ",")
}

func stretchArgs(input, output string, speed float64) []string {
	return []string{
		"-y",
		"-i", input,
		"-filter:a", atempoFilter(speed),
		"-vn",
		output,
	}
}

// trimArgs cuts a clip to the given length without re-encoding.
func trimArgs(input, output string, seconds float64) []string {
	return []string{
		"-y",
		"-i", input,
		"-t", strconv.FormatFloat(seconds, 'f', -1, 64),
		"-c", "copy",
		output,
	}
}

func runFFmpeg(ctx context.Context, binary string, args []string) error {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	cmd := exec.CommandContext(ctx, binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		detail := fmt.Sprintf("%s %s: %s", binary, strings.Join(args, " "), strings.TrimSpace(string(output)))
		return services.Wrap(services.ErrMediaTool, "audiofit", "run ffmpeg", detail, err)
	}
	return nil
}

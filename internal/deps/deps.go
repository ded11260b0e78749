package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external tool the pipeline shells out to.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements lists the tools a dubbing run needs. The binaries default
// to PATH lookup but may be overridden with absolute paths.
func Requirements(ffmpegBinary, ffprobeBinary string) []Requirement {
	if strings.TrimSpace(ffmpegBinary) == "" {
		ffmpegBinary = "ffmpeg"
	}
	if strings.TrimSpace(ffprobeBinary) == "" {
		ffprobeBinary = "ffprobe"
	}
	return []Requirement{
		{Name: "FFmpeg", Command: ffmpegBinary, Description: "Retimes, trims, and mixes audio"},
		{Name: "FFprobe", Command: ffprobeBinary, Description: "Measures clip and container durations"},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Available = false
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// FirstMissing returns the first required dependency that is unavailable,
// or nil when everything needed is present.
func FirstMissing(statuses []Status) *Status {
	for i := range statuses {
		if !statuses[i].Optional && !statuses[i].Available {
			return &statuses[i]
		}
	}
	return nil
}

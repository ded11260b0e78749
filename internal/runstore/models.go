package runstore

import "time"

// RunStatus tracks the lifecycle of one dubbing run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusCancelled RunStatus = "cancelled"
	RunStatusFailed    RunStatus = "failed"
)

// Run records one invocation of the pipeline.
type Run struct {
	ID             int64
	SourcePath     string
	TargetLanguage string
	Provider       string
	Model          string
	Status         RunStatus
	ErrorMessage   string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SegmentStatus tracks how far one segment has progressed within a run.
type SegmentStatus string

const (
	SegmentStatusPending     SegmentStatus = "pending"
	SegmentStatusTranslated  SegmentStatus = "translated"
	SegmentStatusSynthesized SegmentStatus = "synthesized"
	SegmentStatusSkipped     SegmentStatus = "skipped"
	SegmentStatusFailed      SegmentStatus = "failed"
)

// SegmentState is the stored progress of one segment in one run.
type SegmentState struct {
	RunID     int64
	SegmentID int
	Status    SegmentStatus
	AudioPath string
	Remedy    string
	UpdatedAt time.Time
}

// Progress summarizes segment states for display.
type Progress struct {
	Total       int
	Translated  int
	Synthesized int
	Skipped     int
	Failed      int
}

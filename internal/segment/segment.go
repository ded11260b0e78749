package segment

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Segment is one time-coded utterance. ID and timing are assigned by
// upstream recognition and never change; Translation and AudioPath are
// filled in by the pipeline stages.
type Segment struct {
	ID          int     `json:"id"`
	Start       float64 `json:"start"`
	End         float64 `json:"end"`
	Text        string  `json:"text"`
	Translation string  `json:"translation,omitempty"`
	AudioPath   string  `json:"audio_path,omitempty"`
}

// SpeechText returns the text the synthesis stage should speak: the
// translation when present, otherwise the source text. Empty means the
// segment carries nothing speakable and should be skipped.
func (s Segment) SpeechText() string {
	if text := strings.TrimSpace(s.Translation); text != "" {
		return text
	}
	return strings.TrimSpace(s.Text)
}

// Duration returns the segment's own time span in seconds.
func (s Segment) Duration() float64 {
	return s.End - s.Start
}

// List is the ordered segment collection. The pipeline mutates segments in
// place but never inserts, removes, or reorders them.
type List []Segment

// Validate checks the ordering invariants the pipeline relies on: unique
// IDs, positive time spans, and non-decreasing start times.
func (l List) Validate() error {
	seen := make(map[int]struct{}, len(l))
	for i, seg := range l {
		if _, ok := seen[seg.ID]; ok {
			return fmt.Errorf("segment list: duplicate id %d at index %d", seg.ID, i)
		}
		seen[seg.ID] = struct{}{}
		if seg.Start >= seg.End {
			return fmt.Errorf("segment list: segment %d has start %.3f >= end %.3f", seg.ID, seg.Start, seg.End)
		}
		if i > 0 && seg.Start < l[i-1].Start {
			return fmt.Errorf("segment list: segment %d starts before its predecessor (%.3f < %.3f)", seg.ID, seg.Start, l[i-1].Start)
		}
	}
	return nil
}

// Partition splits the list into contiguous batches of at most size
// segments. Batches are subslices sharing the list's backing array, so
// in-place writes through a batch are visible on the list. A size <= 0
// yields a single batch.
func (l List) Partition(size int) []List {
	if len(l) == 0 {
		return nil
	}
	if size <= 0 {
		return []List{l}
	}
	batches := make([]List, 0, (len(l)+size-1)/size)
	for start := 0; start < len(l); start += size {
		end := start + size
		if end > len(l) {
			end = len(l)
		}
		batches = append(batches, l[start:end])
	}
	return batches
}

// Load reads and validates a segment list from a JSON file.
func Load(path string) (List, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read segments: %w", err)
	}
	var list List
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse segments %s: %w", filepath.Base(path), err)
	}
	if err := list.Validate(); err != nil {
		return nil, err
	}
	return list, nil
}

// Save writes the list as indented JSON, creating parent directories as
// needed.
func Save(path string, list List) error {
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("encode segments: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create segments directory: %w", err)
		}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write segments: %w", err)
	}
	return nil
}

package dub

import "dubber/internal/segment"

// SlotOptions tunes slot computation.
type SlotOptions struct {
	// FloorSeconds is the minimum slot length. Tightly packed segments
	// still get at least this much room.
	FloorSeconds float64
	// BufferSeconds is subtracted between consecutive segments so
	// neighboring clips do not run into each other.
	BufferSeconds float64
}

// Slots computes how much timeline room each segment's clip may occupy.
// A segment's slot runs from its own start to the next segment's start,
// minus the safety buffer; the final segment keeps its own duration.
func Slots(segments segment.List, opts SlotOptions) []float64 {
	if opts.FloorSeconds <= 0 {
		opts.FloorSeconds = 0.5
	}
	if opts.BufferSeconds < 0 {
		opts.BufferSeconds = 0
	}
	slots := make([]float64, len(segments))
	for i, seg := range segments {
		if i == len(segments)-1 {
			slots[i] = seg.Duration()
			continue
		}
		slot := segments[i+1].Start - seg.Start - opts.BufferSeconds
		if slot < opts.FloorSeconds {
			slot = opts.FloorSeconds
		}
		slots[i] = slot
	}
	return slots
}

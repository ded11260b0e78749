package audiofit

// atempo accepts a single-stage tempo factor between 0.5 and 2.0. Factors
// outside that window must be expressed as a filter chain.
const (
	atempoStageMin = 0.5
	atempoStageMax = 2.0
)

// SplitRatio decomposes a tempo factor into atempo stages whose product is
// the requested factor and whose every stage sits inside the filter's
// supported range.
func SplitRatio(speed float64) []float64 {
	if speed <= 0 {
		return nil
	}
	var stages []float64
	for speed > atempoStageMax {
		stages = append(stages, atempoStageMax)
		speed /= atempoStageMax
	}
	for speed < atempoStageMin {
		stages = append(stages, atempoStageMin)
		speed /= atempoStageMin
	}
	return append(stages, speed)
}

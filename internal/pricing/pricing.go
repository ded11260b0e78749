// Package pricing estimates translation cost before a run. The math is
// deliberately offline and approximate: it exists so a user can see an
// order-of-magnitude price for a transcript without issuing any request.
package pricing

import (
	"math"
	"strings"

	"dubber/internal/segment"
)

const (
	// tokensPerWord approximates tokenizer output for English source text.
	tokensPerWord = 1.3
	// outputExpansion accounts for target languages that tokenize longer
	// than the source.
	outputExpansion = 1.5
	// promptOverheadTokens is the fixed instruction cost added per batch.
	promptOverheadTokens = 200

	defaultBatchSize  = 20
	defaultMultiplier = 2.0
	displayDecimals   = 6
)

// Rate holds a model's USD price per one million tokens.
type Rate struct {
	InputPerMillion  float64
	OutputPerMillion float64
}

// Table maps model identifiers to rates. Unknown models estimate as free.
type Table map[string]Rate

// DefaultTable returns the built-in price table. Callers that need different
// pricing construct their own Table; nothing reads this from global state.
func DefaultTable() Table {
	return Table{
		"meta-llama/llama-3.3-70b-instruct:free":      {0, 0},
		"allenai/molmo-2-8b:free":                     {0, 0},
		"meta-llama/llama-3.1-8b-instruct":            {0.02, 0.05},
		"google/gemini-2.5-flash-lite":                {0.10, 0.40},
	}
}

// Options adjusts the estimate. Zero values fall back to the defaults the
// batcher itself uses.
type Options struct {
	Table      Table
	BatchSize  int
	Multiplier float64
}

// Estimate is the cost breakdown for one transcript and model.
type Estimate struct {
	Model        string
	InputTokens  float64
	OutputTokens float64
	Rate         Rate
	RealCost     float64
	DisplayCost  float64
	Multiplier   float64
}

// EstimateCost computes the displayed translation cost for the segment list.
// Input tokens approximate as words x 1.3 plus a per-batch prompt overhead;
// output tokens as 1.5 x input. The display cost is the real cost times a
// configurable multiplier (default 2), rounded to six decimals.
func EstimateCost(segments segment.List, model string, opts Options) Estimate {
	table := opts.Table
	if table == nil {
		table = DefaultTable()
	}
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	multiplier := opts.Multiplier
	if multiplier <= 0 {
		multiplier = defaultMultiplier
	}

	words := 0
	for _, seg := range segments {
		words += len(strings.Fields(seg.Text))
	}
	inputTokens := float64(words) * tokensPerWord
	promptTokens := promptOverheadTokens * float64(len(segments)) / float64(batchSize)
	outputTokens := inputTokens * outputExpansion

	rate := table[model]
	real := (inputTokens+promptTokens)/1_000_000*rate.InputPerMillion +
		outputTokens/1_000_000*rate.OutputPerMillion

	return Estimate{
		Model:        model,
		InputTokens:  inputTokens + promptTokens,
		OutputTokens: outputTokens,
		Rate:         rate,
		RealCost:     real,
		DisplayCost:  roundTo(real*multiplier, displayDecimals),
		Multiplier:   multiplier,
	}
}

func roundTo(value float64, decimals int) float64 {
	scale := math.Pow10(decimals)
	return math.Round(value*scale) / scale
}

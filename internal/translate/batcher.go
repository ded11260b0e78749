package translate

import (
	"context"
	"log/slog"

	"dubber/internal/logging"
	"dubber/internal/segment"
)

// Completer is the slice of Client the batcher needs.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Summary reports what a batch run did.
type Summary struct {
	Batches    int
	Translated int
	FallenBack int
	Skipped    int
}

// Batcher walks a segment list in fixed-size batches and fills the
// Translation field in place.
type Batcher struct {
	client    Completer
	spec      PromptSpec
	batchSize int
	logger    *slog.Logger
}

// NewBatcher constructs a batcher. batchSize values below 1 are coerced to 1.
func NewBatcher(client Completer, spec PromptSpec, batchSize int, logger *slog.Logger) *Batcher {
	if batchSize < 1 {
		batchSize = 1
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Batcher{
		client:    client,
		spec:      spec,
		batchSize: batchSize,
		logger:    logger.With(logging.FieldComponent, "translate"),
	}
}

// Run translates every segment that does not already carry a translation.
// A failed batch never aborts the run: its untranslated segments receive
// the source text verbatim and the walk continues with the next batch.
// The only way Run stops early is context cancellation, and even then the
// batches already processed keep their results.
func (b *Batcher) Run(ctx context.Context, segments segment.List) (Summary, error) {
	var summary Summary
	system := b.spec.SystemPrompt()
	for batchIndex, batch := range segments.Partition(b.batchSize) {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		summary.Batches++
		b.runBatch(ctx, system, batchIndex, batch, &summary)
	}
	return summary, nil
}

func (b *Batcher) runBatch(ctx context.Context, system string, batchIndex int, batch []segment.Segment, summary *Summary) {
	pending := 0
	for _, seg := range batch {
		if seg.Translation == "" {
			pending++
		}
	}
	if pending == 0 {
		summary.Skipped += len(batch)
		return
	}

	translations, err := b.translateBatch(ctx, system, batch)
	if err != nil {
		if ctx.Err() != nil {
			// Cancelled mid-request; leave the batch untouched so a rerun
			// can translate it properly instead of inheriting fallbacks.
			return
		}
		b.logger.Warn("batch failed, using source text verbatim",
			logging.FieldBatch, batchIndex+1,
			"segments", len(batch),
			logging.Error(err))
	}
	for i := range batch {
		seg := &batch[i]
		if seg.Translation != "" {
			summary.Skipped++
			continue
		}
		if text, ok := translations[seg.ID]; ok {
			seg.Translation = text
			summary.Translated++
			continue
		}
		seg.Translation = seg.Text
		summary.FallenBack++
	}
}

func (b *Batcher) translateBatch(ctx context.Context, system string, batch []segment.Segment) (map[int]string, error) {
	user, err := b.spec.UserPrompt(batch)
	if err != nil {
		return nil, err
	}
	content, err := b.client.Complete(ctx, system, user)
	if err != nil {
		return nil, err
	}
	return ParseReply(content)
}

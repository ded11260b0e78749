package dub

import (
	"context"
	"log/slog"
	"sync"

	"dubber/internal/logging"
	"dubber/internal/media/audiofit"
	"dubber/internal/segment"
)

// Synthesizer produces a speech clip for one piece of text.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (string, error)
}

// Fitter squeezes a clip into its timeline slot.
type Fitter interface {
	Fit(ctx context.Context, path string, slotSeconds float64) (audiofit.Result, error)
}

// Options configures an Orchestrator.
type Options struct {
	// Workers bounds concurrent synthesis calls. Values below 1 mean 1.
	Workers int
	// FitDuration toggles slot fitting; disabled, clips keep their natural
	// length.
	FitDuration bool
	Slots       SlotOptions
	// Progress, when set, is called after every finished segment with the
	// number of segments done so far and the total.
	Progress func(done, total int)
}

// Outcome records what happened to one segment the run actually worked on.
type Outcome struct {
	Failed bool
	Remedy audiofit.Remedy
}

// Summary reports what a synthesis run did. Outcomes is keyed by segment ID
// and only holds segments the run synthesized or failed; skipped segments
// have no entry.
type Summary struct {
	Synthesized int
	Skipped     int
	Failed      int
	Remedies    map[audiofit.Remedy]int
	Outcomes    map[int]Outcome
}

// Orchestrator runs the synthesis stage over a segment list.
type Orchestrator struct {
	provider Synthesizer
	fitter   Fitter
	opts     Options
	logger   *slog.Logger
}

// New constructs an orchestrator. The fitter may be nil when
// opts.FitDuration is false.
func New(provider Synthesizer, fitter Fitter, opts Options, logger *slog.Logger) *Orchestrator {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Orchestrator{
		provider: provider,
		fitter:   fitter,
		opts:     opts,
		logger:   logger.With(logging.FieldComponent, "dub"),
	}
}

// Run synthesizes and fits every segment that still needs audio. Segment
// failures are recorded as an empty AudioPath and counted; they never stop
// the run. Cancellation stops dispatching new segments while results
// already produced stay in place.
func (o *Orchestrator) Run(ctx context.Context, segments segment.List) (Summary, error) {
	summary := Summary{
		Remedies: make(map[audiofit.Remedy]int),
		Outcomes: make(map[int]Outcome),
	}
	total := len(segments)
	if total == 0 {
		return summary, nil
	}
	slots := Slots(segments, o.opts.Slots)

	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		done int
	)
	jobs := make(chan int)

	record := func(update func(*Summary)) {
		mu.Lock()
		defer mu.Unlock()
		update(&summary)
		done++
		if o.opts.Progress != nil {
			o.opts.Progress(done, total)
		}
	}

	for i := 0; i < o.opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for index := range jobs {
				if ctx.Err() != nil {
					continue
				}
				o.processSegment(ctx, &segments[index], slots[index], record)
			}
		}()
	}

	var runErr error
dispatch:
	for index := range segments {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
			break dispatch
		case jobs <- index:
		}
	}
	close(jobs)
	wg.Wait()
	if runErr == nil {
		runErr = ctx.Err()
	}
	return summary, runErr
}

func (o *Orchestrator) processSegment(ctx context.Context, seg *segment.Segment, slot float64, record func(func(*Summary))) {
	if seg.AudioPath != "" {
		record(func(s *Summary) { s.Skipped++ })
		return
	}
	text := seg.SpeechText()
	if text == "" {
		record(func(s *Summary) { s.Skipped++ })
		return
	}

	clip, err := o.provider.Synthesize(ctx, text)
	if err != nil {
		o.logger.Error("synthesis failed",
			logging.FieldSegmentID, seg.ID,
			logging.Error(err))
		seg.AudioPath = ""
		record(func(s *Summary) {
			s.Failed++
			s.Outcomes[seg.ID] = Outcome{Failed: true}
		})
		return
	}

	remedy := audiofit.RemedyUnchanged
	if o.opts.FitDuration && o.fitter != nil {
		result, fitErr := o.fitter.Fit(ctx, clip, slot)
		// A failed fit still leaves a playable clip behind; keep it.
		clip = result.Path
		remedy = result.Remedy
		if fitErr != nil {
			o.logger.Warn("duration fit failed, keeping unfitted clip",
				logging.FieldSegmentID, seg.ID,
				logging.Error(fitErr))
		}
	}

	seg.AudioPath = clip
	record(func(s *Summary) {
		s.Synthesized++
		s.Remedies[remedy]++
		s.Outcomes[seg.ID] = Outcome{Remedy: remedy}
	})
}

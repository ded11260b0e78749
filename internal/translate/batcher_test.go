package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"dubber/internal/segment"
)

type scriptedCompleter struct {
	calls   int
	replies []func(user string) (string, error)
}

func (s *scriptedCompleter) Complete(_ context.Context, _, user string) (string, error) {
	idx := s.calls
	s.calls++
	if idx >= len(s.replies) {
		return "", errors.New("unexpected call")
	}
	return s.replies[idx](user)
}

func echoTranslations(user string) (string, error) {
	start := strings.IndexByte(user, '[')
	var items []struct {
		ID   int    `json:"id"`
		Text string `json:"text"`
	}
	if err := json.Unmarshal([]byte(user[start:]), &items); err != nil {
		return "", err
	}
	var parts []string
	for _, item := range items {
		parts = append(parts, fmt.Sprintf(`{"id": %d, "translation": "vi:%s"}`, item.ID, item.Text))
	}
	return "[" + strings.Join(parts, ",") + "]", nil
}

func makeSegments(n int) segment.List {
	list := make(segment.List, n)
	for i := range list {
		list[i] = segment.Segment{
			ID:    i + 1,
			Start: float64(i) * 2,
			End:   float64(i)*2 + 1.5,
			Text:  fmt.Sprintf("line %d", i+1),
		}
	}
	return list
}

func TestBatcherTranslatesAllBatches(t *testing.T) {
	segs := makeSegments(5)
	completer := &scriptedCompleter{replies: []func(string) (string, error){
		echoTranslations,
		echoTranslations,
		echoTranslations,
	}}
	batcher := NewBatcher(completer, PromptSpec{TargetLanguage: "Vietnamese"}, 2, nil)
	summary, err := batcher.Run(context.Background(), segs)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Batches != 3 || summary.Translated != 5 || summary.FallenBack != 0 {
		t.Fatalf("summary = %+v", summary)
	}
	for _, seg := range segs {
		if seg.Translation != "vi:"+seg.Text {
			t.Fatalf("segment %d translation = %q", seg.ID, seg.Translation)
		}
	}
}

func TestBatcherFailedBatchFallsBackVerbatim(t *testing.T) {
	segs := makeSegments(4)
	completer := &scriptedCompleter{replies: []func(string) (string, error){
		echoTranslations,
		func(string) (string, error) { return "", errors.New("backend down") },
	}}
	batcher := NewBatcher(completer, PromptSpec{TargetLanguage: "Vietnamese"}, 2, nil)
	summary, err := batcher.Run(context.Background(), segs)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Translated != 2 || summary.FallenBack != 2 {
		t.Fatalf("summary = %+v", summary)
	}
	if segs[0].Translation != "vi:line 1" {
		t.Fatalf("first batch lost its translation: %q", segs[0].Translation)
	}
	if segs[2].Translation != segs[2].Text || segs[3].Translation != segs[3].Text {
		t.Fatalf("failed batch should carry source text: %q, %q", segs[2].Translation, segs[3].Translation)
	}
}

func TestBatcherPartialReplyFallsBackPerSegment(t *testing.T) {
	segs := makeSegments(2)
	completer := &scriptedCompleter{replies: []func(string) (string, error){
		func(string) (string, error) { return `[{"id": 1, "translation": "Một"}]`, nil },
	}}
	batcher := NewBatcher(completer, PromptSpec{TargetLanguage: "Vietnamese"}, 2, nil)
	summary, err := batcher.Run(context.Background(), segs)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Translated != 1 || summary.FallenBack != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if segs[0].Translation != "Một" || segs[1].Translation != segs[1].Text {
		t.Fatalf("translations = %q, %q", segs[0].Translation, segs[1].Translation)
	}
}

func TestBatcherNeverOverwritesExistingTranslations(t *testing.T) {
	segs := makeSegments(2)
	segs[0].Translation = "đã dịch"
	completer := &scriptedCompleter{replies: []func(string) (string, error){
		func(string) (string, error) {
			return `[{"id": 1, "translation": "mới"}, {"id": 2, "translation": "Hai"}]`, nil
		},
	}}
	batcher := NewBatcher(completer, PromptSpec{TargetLanguage: "Vietnamese"}, 2, nil)
	summary, err := batcher.Run(context.Background(), segs)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if segs[0].Translation != "đã dịch" {
		t.Fatalf("existing translation overwritten: %q", segs[0].Translation)
	}
	if summary.Skipped != 1 || summary.Translated != 1 {
		t.Fatalf("summary = %+v", summary)
	}
}

func TestBatcherSkipsFullyTranslatedBatchWithoutCalling(t *testing.T) {
	segs := makeSegments(2)
	segs[0].Translation = "a"
	segs[1].Translation = "b"
	completer := &scriptedCompleter{}
	batcher := NewBatcher(completer, PromptSpec{TargetLanguage: "Vietnamese"}, 2, nil)
	if _, err := batcher.Run(context.Background(), segs); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if completer.calls != 0 {
		t.Fatalf("completer called %d times for an already translated batch", completer.calls)
	}
}

func TestBatcherStopsBetweenBatchesOnCancel(t *testing.T) {
	segs := makeSegments(4)
	ctx, cancel := context.WithCancel(context.Background())
	completer := &scriptedCompleter{replies: []func(string) (string, error){
		func(user string) (string, error) {
			cancel()
			return echoTranslations(user)
		},
	}}
	batcher := NewBatcher(completer, PromptSpec{TargetLanguage: "Vietnamese"}, 2, nil)
	summary, err := batcher.Run(ctx, segs)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run error = %v, want context.Canceled", err)
	}
	if summary.Translated != 2 {
		t.Fatalf("summary = %+v, first batch should be kept", summary)
	}
	if segs[2].Translation != "" || segs[3].Translation != "" {
		t.Fatalf("second batch should be untouched: %q, %q", segs[2].Translation, segs[3].Translation)
	}
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"dubber/internal/config"
	"dubber/internal/deps"
	"dubber/internal/language"
	"dubber/internal/segment"
	"dubber/internal/translate"
)

// signalContext returns a context cancelled by Ctrl-C or SIGTERM so a run
// stops between units of work instead of mid-write.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func loadSegments(path string) (segment.List, string, error) {
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return nil, "", err
	}
	segments, err := segment.Load(expanded)
	if err != nil {
		return nil, "", err
	}
	return segments, expanded, nil
}

func newTranslationClient(cfg *config.Config) *translate.Client {
	return translate.NewClient(translate.ClientConfig{
		APIKey:         cfg.Translation.APIKey,
		BaseURL:        cfg.Translation.BaseURL,
		Model:          cfg.Translation.Model,
		Referer:        cfg.Translation.Referer,
		Title:          cfg.Translation.Title,
		TimeoutSeconds: cfg.Translation.TimeoutSeconds,
	})
}

// canonicalLanguage collapses target-language spellings ("vie", "vi-VN") to
// the base ISO 639-1 code for run records, so history rows compare equal no
// matter how the config spelled the language. Unresolvable input is stored
// as given.
func canonicalLanguage(code string) string {
	if iso := language.ToISO2(code); iso != "" {
		return iso
	}
	return code
}

func newPromptSpec(cfg *config.Config) translate.PromptSpec {
	return translate.PromptSpec{
		TargetLanguage: language.DisplayName(cfg.Translation.TargetLanguage),
		PreservedTerms: cfg.Translation.PreservedTerms,
	}
}

func translateStage(ctx context.Context, cfg *config.Config, logger *slog.Logger, segments segment.List) (translate.Summary, error) {
	client := newTranslationClient(cfg)
	if err := client.Preflight(); err != nil {
		return translate.Summary{}, err
	}
	batcher := translate.NewBatcher(client, newPromptSpec(cfg), cfg.Translation.BatchSize, logger)
	return batcher.Run(ctx, segments)
}

// requireMediaTools fails fast when ffmpeg or ffprobe cannot be found.
func requireMediaTools(cfg *config.Config) error {
	statuses := deps.CheckBinaries(deps.Requirements(cfg.FFmpegBinary(), cfg.FFprobeBinary()))
	if missing := deps.FirstMissing(statuses); missing != nil {
		return fmt.Errorf("%s unavailable: %s (run 'dubber deps' for details)", missing.Name, missing.Detail)
	}
	return nil
}

func formatCount(n int) string {
	return strconv.Itoa(n)
}

package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"dubber/internal/services"
)

const elevenLabsBaseURL = "https://api.elevenlabs.io/v1/text-to-speech"

type elevenLabsProvider struct {
	cfg     Config
	opts    options
	baseURL string
}

func newElevenLabs(cfg Config, opts options) *elevenLabsProvider {
	if cfg.Voice == "" {
		cfg.Voice = "21m00Tcm4TlvDq8ikWAM" // Rachel
	}
	return &elevenLabsProvider{cfg: cfg, opts: opts, baseURL: elevenLabsBaseURL}
}

func (p *elevenLabsProvider) Name() string { return "elevenlabs" }

func (p *elevenLabsProvider) Synthesize(ctx context.Context, text string) (string, error) {
	payload := map[string]any{
		"text":     text,
		"model_id": "eleven_multilingual_v2",
		"voice_settings": map[string]any{
			"stability":         0.5,
			"similarity_boost":  0.75,
			"style":             0.0,
			"use_speaker_boost": true,
		},
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("elevenlabs tts: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/"+p.cfg.Voice, bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("elevenlabs tts: new request: %w", err)
	}
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", p.cfg.APIKey)

	resp, err := p.opts.httpClient.Do(req)
	if err != nil {
		return "", services.Wrap(services.ErrTransport, "tts", "elevenlabs synthesize", "", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", services.Wrap(services.ErrTransport, "tts", "elevenlabs synthesize", "read response", err)
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", services.Wrap(services.ErrAuth, "tts", "elevenlabs synthesize", fmt.Sprintf("http %d", resp.StatusCode), nil)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("elevenlabs tts: http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if len(body) == 0 {
		return "", services.Wrap(services.ErrResponseParse, "tts", "elevenlabs synthesize", "empty audio payload", nil)
	}
	clip, err := writeClip(p.cfg.OutputDir, body)
	if err != nil {
		return "", err
	}
	// The API has no speed parameter, so a non-default speed is applied
	// locally after synthesis.
	if p.cfg.Speed != 1.0 && p.opts.speedAdjuster != nil {
		return p.opts.speedAdjuster(ctx, clip, p.cfg.Speed)
	}
	return clip, nil
}

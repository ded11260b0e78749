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

const openAISpeechURL = "https://api.openai.com/v1/audio/speech"

type openAIProvider struct {
	cfg     Config
	opts    options
	baseURL string
}

func newOpenAI(cfg Config, opts options) *openAIProvider {
	if cfg.Voice == "" {
		cfg.Voice = "nova"
	}
	return &openAIProvider{cfg: cfg, opts: opts, baseURL: openAISpeechURL}
}

func (p *openAIProvider) Name() string { return "openai" }

func (p *openAIProvider) Synthesize(ctx context.Context, text string) (string, error) {
	payload := map[string]any{
		"model": "tts-1",
		"input": text,
		"voice": p.cfg.Voice,
		"speed": p.cfg.Speed,
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("openai tts: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("openai tts: new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.opts.httpClient.Do(req)
	if err != nil {
		return "", services.Wrap(services.ErrTransport, "tts", "openai synthesize", "", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", services.Wrap(services.ErrTransport, "tts", "openai synthesize", "read response", err)
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", services.Wrap(services.ErrAuth, "tts", "openai synthesize", fmt.Sprintf("http %d", resp.StatusCode), nil)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai tts: http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if len(body) == 0 {
		return "", services.Wrap(services.ErrResponseParse, "tts", "openai synthesize", "empty audio payload", nil)
	}
	return writeClip(p.cfg.OutputDir, body)
}

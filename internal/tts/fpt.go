package tts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"dubber/internal/services"
)

const (
	fptSpeechURL = "https://api.fpt.ai/hmi/tts/v5"

	// The synthesis endpoint returns a download URL before the file exists;
	// the service typically needs about a second to materialize it.
	fptReadyDelay = 1 * time.Second
)

type fptProvider struct {
	cfg     Config
	opts    options
	baseURL string
	delay   time.Duration
}

func newFPT(cfg Config, opts options) *fptProvider {
	if cfg.Voice == "" {
		cfg.Voice = "banmai"
	}
	return &fptProvider{cfg: cfg, opts: opts, baseURL: fptSpeechURL, delay: fptReadyDelay}
}

func (p *fptProvider) Name() string { return "fpt" }

func (p *fptProvider) Synthesize(ctx context.Context, text string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, strings.NewReader(text))
	if err != nil {
		return "", fmt.Errorf("fpt tts: new request: %w", err)
	}
	req.Header.Set("api-key", p.cfg.APIKey)
	req.Header.Set("speed", strconv.FormatFloat(p.cfg.Speed, 'f', -1, 64))
	req.Header.Set("voice", p.cfg.Voice)

	resp, err := p.opts.httpClient.Do(req)
	if err != nil {
		return "", services.Wrap(services.ErrTransport, "tts", "fpt synthesize", "", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", services.Wrap(services.ErrTransport, "tts", "fpt synthesize", "read response", err)
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", services.Wrap(services.ErrAuth, "tts", "fpt synthesize", fmt.Sprintf("http %d", resp.StatusCode), nil)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fpt tts: http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var reply struct {
		Async   string `json:"async"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &reply); err != nil {
		return "", services.Wrap(services.ErrResponseParse, "tts", "fpt synthesize", "", err)
	}
	if reply.Async == "" {
		return "", services.Wrap(services.ErrResponseParse, "tts", "fpt synthesize",
			fmt.Sprintf("no audio URL in response: %s", strings.TrimSpace(reply.Message)), nil)
	}

	if err := p.opts.sleep(ctx, p.delay); err != nil {
		return "", err
	}
	return p.fetch(ctx, reply.Async)
}

func (p *fptProvider) fetch(ctx context.Context, audioURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, audioURL, nil)
	if err != nil {
		return "", fmt.Errorf("fpt tts: new download request: %w", err)
	}
	resp, err := p.opts.httpClient.Do(req)
	if err != nil {
		return "", services.Wrap(services.ErrTransport, "tts", "fpt download", "", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", services.Wrap(services.ErrTransport, "tts", "fpt download", "read response", err)
	}
	if resp.StatusCode != http.StatusOK || len(body) == 0 {
		return "", fmt.Errorf("fpt tts: audio not ready at %s (http %d)", audioURL, resp.StatusCode)
	}
	return writeClip(p.cfg.OutputDir, body)
}

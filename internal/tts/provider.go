package tts

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"dubber/internal/services"
)

// Provider synthesizes one piece of text into an audio clip and returns
// the clip path.
type Provider interface {
	Name() string
	Synthesize(ctx context.Context, text string) (string, error)
}

// Config selects and parameterizes a provider.
type Config struct {
	// Provider is one of "openai", "elevenlabs", or "fpt".
	Provider string
	APIKey   string
	// Voice is a provider-specific voice identifier. Empty selects the
	// provider default.
	Voice string
	// Speed is the requested speech rate. Providers without a native speed
	// parameter apply it through the configured SpeedAdjuster.
	Speed          float64
	TimeoutSeconds int
	// OutputDir receives the generated clips. Empty falls back to the
	// system temp directory.
	OutputDir string
}

// SpeedAdjuster re-times an already generated clip and returns the path of
// the adjusted clip. Providers whose API has no speed parameter use it.
type SpeedAdjuster func(ctx context.Context, path string, speed float64) (string, error)

// Option customizes provider construction.
type Option func(*options)

type options struct {
	httpClient    *http.Client
	speedAdjuster SpeedAdjuster
	sleep         func(context.Context, time.Duration) error
}

// WithHTTPClient overrides the HTTP client used for API calls.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		if client != nil {
			o.httpClient = client
		}
	}
}

// WithSpeedAdjuster supplies the post-synthesis speed adjustment used by
// providers that cannot apply speed natively.
func WithSpeedAdjuster(adjust SpeedAdjuster) Option {
	return func(o *options) {
		o.speedAdjuster = adjust
	}
}

// WithSleep overrides how providers wait (FPT's readiness delay); tests use
// it to avoid real sleeps.
func WithSleep(sleep func(context.Context, time.Duration) error) Option {
	return func(o *options) {
		if sleep != nil {
			o.sleep = sleep
		}
	}
}

// New constructs the provider named by cfg.Provider.
func New(cfg Config, opts ...Option) (Provider, error) {
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.Voice = strings.TrimSpace(cfg.Voice)
	if cfg.Speed == 0 {
		cfg.Speed = 1.0
	}

	resolved := options{
		httpClient: &http.Client{Timeout: timeoutFor(cfg)},
		sleep:      sleepContext,
	}
	for _, opt := range opts {
		opt(&resolved)
	}

	if cfg.APIKey == "" {
		return nil, services.Wrap(services.ErrAuth, "tts", "configure", fmt.Sprintf("%s api key required", cfg.Provider), nil)
	}
	switch cfg.Provider {
	case "openai":
		return newOpenAI(cfg, resolved), nil
	case "elevenlabs":
		return newElevenLabs(cfg, resolved), nil
	case "fpt":
		return newFPT(cfg, resolved), nil
	default:
		return nil, services.Wrap(services.ErrConfiguration, "tts", "configure", fmt.Sprintf("unknown provider %q", cfg.Provider), nil)
	}
}

func timeoutFor(cfg Config) time.Duration {
	if cfg.TimeoutSeconds > 0 {
		return time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return 60 * time.Second
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// writeClip stores clip bytes under a fresh unique name and returns the path.
func writeClip(dir string, data []byte) (string, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create clip directory: %w", err)
	}
	path := filepath.Join(dir, "clip-"+uuid.NewString()+".mp3")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write clip: %w", err)
	}
	return path, nil
}

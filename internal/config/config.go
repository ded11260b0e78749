package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	WorkDir string `toml:"work_dir"`
	LogDir  string `toml:"log_dir"`
}

// Translation contains the chat-completion backend settings used by the
// translation batcher and the cost estimator.
type Translation struct {
	APIKey         string   `toml:"api_key"`
	BaseURL        string   `toml:"base_url"`
	Model          string   `toml:"model"`
	TargetLanguage string   `toml:"target_language"`
	PreservedTerms []string `toml:"preserved_terms"`
	BatchSize      int      `toml:"batch_size"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
	CostMultiplier float64  `toml:"cost_multiplier"`
	Referer        string   `toml:"referer"`
	Title          string   `toml:"title"`
}

// TTS selects and configures the speech-synthesis backend. Exactly one
// provider is active per run.
type TTS struct {
	Provider       string  `toml:"provider"`
	APIKey         string  `toml:"api_key"`
	Voice          string  `toml:"voice"`
	Speed          float64 `toml:"speed"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
}

// Sync contains the duration-fitting and orchestration tunables.
type Sync struct {
	MaxSpeed             float64 `toml:"max_speed"`
	Margin               float64 `toml:"margin"`
	SlotFloorSeconds     float64 `toml:"slot_floor_seconds"`
	SlotBufferSeconds    float64 `toml:"slot_buffer_seconds"`
	TrimThresholdSeconds float64 `toml:"trim_threshold_seconds"`
	Workers              int     `toml:"workers"`
}

// Mix carries the relative track volumes handed to the external muxing
// stage. The pipeline itself never mixes audio.
type Mix struct {
	OriginalVolume float64 `toml:"original_volume"`
	DubbingVolume  float64 `toml:"dubbing_volume"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for the dubbing pipeline.
//
// Sections by subsystem:
//   - Paths: work and log directories
//   - Translation: chat backend, target language, batching, pricing display
//   - TTS: synthesis provider selection, credential, voice, speed
//   - Sync: duration fitter limits and worker pool size
//   - Mix: volumes passed through to the external muxer
//   - Logging: log format and level
type Config struct {
	Paths       Paths       `toml:"paths"`
	Translation Translation `toml:"translation"`
	TTS         TTS         `toml:"tts"`
	Sync        Sync        `toml:"sync"`
	Mix         Mix         `toml:"mix"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/dubber/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("dubber.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a run needs.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.WorkDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// FFmpegBinary returns the ffmpeg executable name used for audio stretching
// and trimming.
func (c *Config) FFmpegBinary() string {
	return "ffmpeg"
}

// FFprobeBinary returns the ffprobe executable name used for clip duration
// measurement.
func (c *Config) FFprobeBinary() string {
	return "ffprobe"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

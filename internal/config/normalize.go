package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTranslation()
	c.normalizeTTS()
	c.normalizeSync()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTranslation() {
	t := &c.Translation
	t.APIKey = strings.TrimSpace(t.APIKey)
	if t.APIKey == "" {
		if value, ok := os.LookupEnv("OPENROUTER_API_KEY"); ok {
			t.APIKey = strings.TrimSpace(value)
		}
	}
	t.BaseURL = strings.TrimSpace(t.BaseURL)
	if t.BaseURL == "" {
		t.BaseURL = defaultTranslationBaseURL
	}
	t.Model = strings.TrimSpace(t.Model)
	if t.Model == "" {
		t.Model = defaultTranslationModel
	}
	t.TargetLanguage = strings.TrimSpace(t.TargetLanguage)
	if t.TargetLanguage == "" {
		t.TargetLanguage = defaultTargetLanguage
	}
	if t.BatchSize <= 0 {
		t.BatchSize = defaultBatchSize
	}
	if t.TimeoutSeconds <= 0 {
		t.TimeoutSeconds = defaultTranslationTimeout
	}
	if t.CostMultiplier <= 0 {
		t.CostMultiplier = defaultCostMultiplier
	}
	terms := make([]string, 0, len(t.PreservedTerms))
	for _, term := range t.PreservedTerms {
		if trimmed := strings.TrimSpace(term); trimmed != "" {
			terms = append(terms, trimmed)
		}
	}
	t.PreservedTerms = terms
}

func (c *Config) normalizeTTS() {
	t := &c.TTS
	t.Provider = strings.ToLower(strings.TrimSpace(t.Provider))
	if t.Provider == "" {
		t.Provider = defaultTTSProvider
	}
	t.APIKey = strings.TrimSpace(t.APIKey)
	if t.APIKey == "" {
		for _, env := range providerKeyEnvVars(t.Provider) {
			if value, ok := os.LookupEnv(env); ok && strings.TrimSpace(value) != "" {
				t.APIKey = strings.TrimSpace(value)
				break
			}
		}
	}
	t.Voice = strings.TrimSpace(t.Voice)
	if t.Speed <= 0 {
		t.Speed = defaultTTSSpeed
	}
	if t.TimeoutSeconds <= 0 {
		t.TimeoutSeconds = defaultTTSTimeout
	}
}

func providerKeyEnvVars(provider string) []string {
	switch provider {
	case "openai":
		return []string{"OPENAI_API_KEY"}
	case "elevenlabs":
		return []string{"ELEVENLABS_API_KEY"}
	case "fpt":
		return []string{"FPT_API_KEY"}
	default:
		return nil
	}
}

func (c *Config) normalizeSync() {
	s := &c.Sync
	if s.MaxSpeed <= 0 {
		s.MaxSpeed = defaultMaxSpeed
	}
	if s.Margin <= 0 {
		s.Margin = defaultMargin
	}
	if s.SlotFloorSeconds <= 0 {
		s.SlotFloorSeconds = defaultSlotFloor
	}
	if s.SlotBufferSeconds < 0 {
		s.SlotBufferSeconds = defaultSlotBuffer
	}
	if s.TrimThresholdSeconds <= 0 {
		s.TrimThresholdSeconds = defaultTrimThreshold
	}
	if s.Workers <= 0 {
		s.Workers = defaultWorkers
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

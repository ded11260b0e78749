package config

import (
	"errors"
	"fmt"

	"dubber/internal/language"
)

var validProviders = map[string]struct{}{
	"openai":     {},
	"elevenlabs": {},
	"fpt":        {},
}

// Validate ensures the configuration is usable. Credentials are not
// required here: estimation works offline, and commands that need a key
// check for it before starting their run.
func (c *Config) Validate() error {
	if err := c.validateTranslation(); err != nil {
		return err
	}
	if err := c.validateTTS(); err != nil {
		return err
	}
	if err := c.validateSync(); err != nil {
		return err
	}
	if err := c.validateMix(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTranslation() error {
	if _, err := language.Parse(c.Translation.TargetLanguage); err != nil {
		return fmt.Errorf("translation.target_language: %w", err)
	}
	if c.Translation.BatchSize < 1 {
		return errors.New("translation.batch_size must be at least 1")
	}
	return nil
}

func (c *Config) validateTTS() error {
	if _, ok := validProviders[c.TTS.Provider]; !ok {
		return fmt.Errorf("tts.provider: unknown provider %q (expected openai, elevenlabs, or fpt)", c.TTS.Provider)
	}
	if c.TTS.Speed < 0.5 || c.TTS.Speed > 2.0 {
		return fmt.Errorf("tts.speed %.2f out of range [0.5, 2.0]", c.TTS.Speed)
	}
	return nil
}

func (c *Config) validateSync() error {
	if c.Sync.MaxSpeed < 1.0 {
		return errors.New("sync.max_speed must be at least 1.0")
	}
	if c.Sync.Margin < 1.0 {
		return errors.New("sync.margin must be at least 1.0")
	}
	if c.Sync.SlotFloorSeconds <= 0 {
		return errors.New("sync.slot_floor_seconds must be positive")
	}
	if c.Sync.SlotBufferSeconds < 0 {
		return errors.New("sync.slot_buffer_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateMix() error {
	if c.Mix.OriginalVolume < 0 || c.Mix.DubbingVolume < 0 {
		return errors.New("mix volumes must not be negative")
	}
	return nil
}

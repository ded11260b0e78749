package config

const (
	defaultWorkDir = "~/.local/share/dubber/work"
	defaultLogDir  = "~/.local/share/dubber/logs"

	defaultTranslationBaseURL = "https://openrouter.ai/api/v1/chat/completions"
	defaultTranslationModel   = "meta-llama/llama-3.3-70b-instruct:free"
	defaultTargetLanguage     = "vi"
	defaultBatchSize          = 20
	defaultTranslationTimeout = 60
	defaultCostMultiplier     = 2.0
	defaultReferer            = "https://github.com/dubber/dubber"
	defaultTitle              = "Dubber"

	defaultTTSProvider = "openai"
	defaultTTSSpeed    = 1.0
	defaultTTSTimeout  = 60

	defaultMaxSpeed      = 1.5
	defaultMargin        = 1.15
	defaultSlotFloor     = 0.5
	defaultSlotBuffer    = 0.1
	defaultTrimThreshold = 1.0
	defaultWorkers       = 4

	defaultOriginalVolume = 0.1
	defaultDubbingVolume  = 1.0

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// defaultPreservedTerms lists domain vocabulary the translation prompt
// instructs the model to keep in the source language.
func defaultPreservedTerms() []string {
	return []string{"AI", "Machine Learning", "blockchain", "YouTube"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir: defaultWorkDir,
			LogDir:  defaultLogDir,
		},
		Translation: Translation{
			BaseURL:        defaultTranslationBaseURL,
			Model:          defaultTranslationModel,
			TargetLanguage: defaultTargetLanguage,
			PreservedTerms: defaultPreservedTerms(),
			BatchSize:      defaultBatchSize,
			TimeoutSeconds: defaultTranslationTimeout,
			CostMultiplier: defaultCostMultiplier,
			Referer:        defaultReferer,
			Title:          defaultTitle,
		},
		TTS: TTS{
			Provider:       defaultTTSProvider,
			Speed:          defaultTTSSpeed,
			TimeoutSeconds: defaultTTSTimeout,
		},
		Sync: Sync{
			MaxSpeed:             defaultMaxSpeed,
			Margin:               defaultMargin,
			SlotFloorSeconds:     defaultSlotFloor,
			SlotBufferSeconds:    defaultSlotBuffer,
			TrimThresholdSeconds: defaultTrimThreshold,
			Workers:              defaultWorkers,
		},
		Mix: Mix{
			OriginalVolume: defaultOriginalVolume,
			DubbingVolume:  defaultDubbingVolume,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

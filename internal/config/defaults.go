package config

// defaultModels maps each provider to the model used when none is configured.
var defaultModels = map[ProviderType]string{
	ProviderGoogle: "gemini-2.5-flash",
	ProviderOpenAI: "gpt-4o-mini",
	ProviderOllama: "llama3",
}

// DefaultContentInclude are the overlay files picked up from content_dir.
var DefaultContentInclude = []string{
	"**/*.yaml",
	"**/*.yml",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:       ProviderGoogle,
		Model:          defaultModels[ProviderGoogle],
		Port:           8080,
		DataDir:        ".youthsite",
		ContentInclude: DefaultContentInclude,
		LogLevel:       "info",
		Generator: GeneratorConfig{
			Temperature: 0.7,
			MaxTokens:   1024,
		},
		Motion: MotionConfig{
			NavThreshold:      100,
			CountUpMillis:     2000,
			ViewportThreshold: 0.1,
			SafeZone:          0.4,
			FadeZone:          0.2,
		},
	}
}

// DefaultModel returns the default model for the given provider, or the
// Google default when the provider is unknown.
func DefaultModel(provider ProviderType) string {
	if m, ok := defaultModels[provider]; ok {
		return m
	}
	return defaultModels[ProviderGoogle]
}

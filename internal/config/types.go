package config

// ProviderType identifies a generative-text provider.
type ProviderType string

const (
	ProviderGoogle ProviderType = "google"
	ProviderOpenAI ProviderType = "openai"
	ProviderOllama ProviderType = "ollama"
)

// Config is the top-level youthsite configuration, corresponding to .youthsite.yml.
type Config struct {
	Provider        ProviderType    `yaml:"provider" koanf:"provider"`
	Model           string          `yaml:"model" koanf:"model"`
	Port            int             `yaml:"port" koanf:"port"`
	DataDir         string          `yaml:"data_dir" koanf:"data_dir"`
	ContentDir      string          `yaml:"content_dir" koanf:"content_dir"`
	ContentInclude  []string        `yaml:"content_include" koanf:"content_include"`
	AllowAllOrigins bool            `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	LogLevel        string          `yaml:"log_level" koanf:"log_level"`
	Generator       GeneratorConfig `yaml:"generator" koanf:"generator"`
	Motion          MotionConfig    `yaml:"motion" koanf:"motion"`
}

// GeneratorConfig tunes the requests sent to the generative provider.
type GeneratorConfig struct {
	Temperature  float64 `yaml:"temperature" koanf:"temperature"`
	MaxTokens    int     `yaml:"max_tokens" koanf:"max_tokens"`
	RateLimitRPM int     `yaml:"rate_limit_rpm" koanf:"rate_limit_rpm"` // 0 disables
}

// MotionConfig holds the constants shared by the Go motion library and the
// browser adapter shipped with the site.
type MotionConfig struct {
	NavThreshold      float64 `yaml:"nav_threshold" koanf:"nav_threshold"`           // px
	CountUpMillis     int     `yaml:"count_up_ms" koanf:"count_up_ms"`               // ms
	ViewportThreshold float64 `yaml:"viewport_threshold" koanf:"viewport_threshold"` // fraction of element area
	SafeZone          float64 `yaml:"safe_zone" koanf:"safe_zone"`                   // fraction of viewport height
	FadeZone          float64 `yaml:"fade_zone" koanf:"fade_zone"`                   // fraction of viewport height
}

package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/ziadkadry99/youthsite/internal/config"
	"github.com/ziadkadry99/youthsite/internal/content"
	"github.com/ziadkadry99/youthsite/internal/generator"
	"github.com/ziadkadry99/youthsite/internal/llm"
	"github.com/ziadkadry99/youthsite/internal/logging"
	"github.com/ziadkadry99/youthsite/internal/site"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `youthsite init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newLogger writes to stderr so stdout stays free for command output and
// the MCP protocol.
func newLogger(cfg *config.Config) *slog.Logger {
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	return logging.New(level, os.Stderr)
}

// createLLMProviderFromConfig creates the text provider, rate limited when
// configured.
func createLLMProviderFromConfig(cfg *config.Config) (llm.Provider, error) {
	p, err := llm.NewProvider(string(cfg.Provider), cfg.Model)
	if err != nil {
		return nil, err
	}
	return llm.NewRateLimitedProvider(p, cfg.Generator.RateLimitRPM), nil
}

// newGeneratorClient builds the generative content client. observer may be
// nil.
func newGeneratorClient(cfg *config.Config, observer generator.Observer) (*generator.Client, error) {
	provider, err := createLLMProviderFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating LLM provider: %w", err)
	}
	opts := []generator.Option{
		generator.WithModel(cfg.Model),
		generator.WithTemperature(cfg.Generator.Temperature),
		generator.WithMaxTokens(cfg.Generator.MaxTokens),
	}
	if observer != nil {
		opts = append(opts, generator.WithObserver(observer))
	}
	return generator.NewClient(provider, opts...), nil
}

func loadCatalog(cfg *config.Config) (*content.Catalog, error) {
	catalog, err := content.Load(cfg.ContentDir, cfg.ContentInclude)
	if err != nil {
		return nil, fmt.Errorf("loading content: %w", err)
	}
	return catalog, nil
}

func siteMotion(cfg *config.Config) site.Motion {
	return site.Motion{
		NavThreshold:      cfg.Motion.NavThreshold,
		CountUpMillis:     cfg.Motion.CountUpMillis,
		ViewportThreshold: cfg.Motion.ViewportThreshold,
		SafeZone:          cfg.Motion.SafeZone,
		FadeZone:          cfg.Motion.FadeZone,
	}
}

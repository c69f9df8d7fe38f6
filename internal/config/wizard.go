package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
)

// DefaultPath is the config file written by the wizard.
const DefaultPath = ".youthsite.yml"

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .youthsite.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to youthsite! Let's configure the site server.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Provider selection.
	providerPrompt := promptui.Select{
		Label: "Select generative-text provider",
		Items: []string{"google", "openai", "ollama"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	cfg.Provider = ProviderType(providerStr)

	// 2. Model.
	modelPrompt := promptui.Prompt{
		Label:   "Model",
		Default: DefaultModel(cfg.Provider),
	}
	cfg.Model, err = modelPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}

	// 3. Port.
	portPrompt := promptui.Prompt{
		Label:   "HTTP port",
		Default: strconv.Itoa(cfg.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	// 4. Content overlay directory.
	contentPrompt := promptui.Prompt{
		Label:   "Content overlay directory (leave blank to use built-in content only)",
		Default: "",
	}
	cfg.ContentDir, err = contentPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("content dir: %w", err)
	}
	if cfg.ContentDir != "" {
		includePrompt := promptui.Prompt{
			Label:   "Content include patterns (comma-separated globs)",
			Default: "**/*.yaml,**/*.yml",
		}
		includeStr, err := includePrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("include patterns: %w", err)
		}
		cfg.ContentInclude = splitAndTrim(includeStr)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Check for API key.
	envVar := APIKeyEnvVar(cfg.Provider)
	if envVar != "" {
		if os.Getenv(envVar) == "" {
			fmt.Printf("\nNote: Set %s in your environment (or .env) before generating content.\n", envVar)
		}
	}

	if err := cfg.Save(DefaultPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", DefaultPath)
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			token := trimSpace(s[start:i])
			if token != "" {
				result = append(result, token)
			}
			start = i + 1
		}
	}
	return result
}

func trimSpace(s string) string {
	i, j := 0, len(s)
	for i < j && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	for j > i && (s[j-1] == ' ' || s[j-1] == '\t') {
		j--
	}
	return s[i:j]
}

package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/youthsite/internal/diagnostics"
	"github.com/ziadkadry99/youthsite/internal/generator"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run one of the generators and print the JSON result",
}

var generateRoadmapCmd = &cobra.Command{
	Use:   "roadmap <skill>",
	Short: "Generate a skill roadmap",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd, generator.KindRoadmap, strings.Join(args, " "))
	},
}

var generateImpactCmd = &cobra.Command{
	Use:   "impact <topic>",
	Short: "Generate an impact vision",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd, generator.KindImpact, strings.Join(args, " "))
	},
}

func runGenerate(cmd *cobra.Command, kind generator.Kind, input string) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return fmt.Errorf("input must not be blank")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newGeneratorClient(cfg, diagnosticsLogOnly(newLogger(cfg)))
	if err != nil {
		return err
	}

	var result any
	switch kind {
	case generator.KindRoadmap:
		result = client.GenerateRoadmap(cmd.Context(), input)
	default:
		result = client.GenerateImpactVision(cmd.Context(), input)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// diagnosticsLogOnly reports outcomes to stderr without persisting them.
func diagnosticsLogOnly(logger *slog.Logger) *diagnostics.Recorder {
	return diagnostics.NewRecorder(logger, nil, nil)
}

func init() {
	generateCmd.AddCommand(generateRoadmapCmd, generateImpactCmd)
	rootCmd.AddCommand(generateCmd)
}

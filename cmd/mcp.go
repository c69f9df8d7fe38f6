package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/youthsite/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio exposing the roadmap and impact generators and the event and department catalog.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg)

		catalog, err := loadCatalog(cfg)
		if err != nil {
			return err
		}
		client, err := newGeneratorClient(cfg, diagnosticsLogOnly(logger))
		if err != nil {
			return err
		}

		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "youthsite MCP server started on stdio (provider=%s, events=%d)\n", cfg.Provider, len(catalog.Events()))

		srv := mcpserver.NewServer(client, catalog)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

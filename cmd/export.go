package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/youthsite/internal/site"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the site as static HTML",
	Long:  `Renders every page with the default theme into a directory ready for static hosting. The generator tools fall back to their JSON endpoints, so they need a running server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		catalog, err := loadCatalog(cfg)
		if err != nil {
			return err
		}

		s := site.New(catalog, siteMotion(cfg), newLogger(cfg))
		n, err := s.Export(exportOut)
		if err != nil {
			return fmt.Errorf("exporting site: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %d pages to %s\n", n, exportOut)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "dist", "output directory")
	rootCmd.AddCommand(exportCmd)
}

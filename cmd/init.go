package cmd

import (
	"github.com/spf13/cobra"
	"github.com/ziadkadry99/youthsite/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize youthsite configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure the site server and write .youthsite.yml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

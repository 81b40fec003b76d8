package cmd

import (
	"fmt"

	"github.com/ethpandaops/lilytest/internal/config"
	"github.com/spf13/cobra"
)

var showConfigCmd = &cobra.Command{
	Use:   "show-config",
	Short: "Display current environment configuration",
	Long:  `Shows the current configuration loaded from environment variables and .env file.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return showConfig(cmd)
	},
}

func init() {
	rootCmd.AddCommand(showConfigCmd)
}

func showConfig(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), cfg.String())

	return nil
}

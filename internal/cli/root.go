// Package cli implements the coderefine command-line interface.
package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/coderefine/coderefine/internal/client"
	"github.com/coderefine/coderefine/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "coderefine",
	Short: "AI code review from your terminal",
	Long: `coderefine submits code to the CodeRefine analysis service and renders
the findings: issues with line-level annotations, aggregate scores, and an
optimized rewrite of the source.`,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "path to config file")

	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig resolves the config for a command invocation.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

// newClient builds the analysis client from config.
func newClient(cfg *config.Config) *client.Client {
	return client.New(cfg.Service.BaseURL, cfg.Service.BridgeURL)
}

func requestTimeout(cfg *config.Config) time.Duration {
	return time.Duration(cfg.Service.TimeoutSeconds) * time.Second
}

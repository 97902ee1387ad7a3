package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/coderefine/coderefine/internal/config"
	"github.com/coderefine/coderefine/internal/engine"
	"github.com/coderefine/coderefine/internal/history"
	"github.com/coderefine/coderefine/internal/model"
	"github.com/coderefine/coderefine/internal/tui"
)

var reviewCmd = &cobra.Command{
	Use:   "review [file]",
	Short: "Open an interactive review session",
	Long: `Open an interactive TUI for reviewing a code snippet. With a file
argument the buffer is preloaded from disk; otherwise you get an empty
scratch buffer.

Examples:
  coderefine review                       # empty scratch buffer
  coderefine review main.py               # load a file
  coderefine review main.py --watch       # reload the buffer on file change
  coderefine review -m mentor -l Python   # pick persona and language`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReview,
}

func init() {
	reviewCmd.Flags().StringP("mode", "m", "", "review persona: mentor, strict, debugger, performance, tester")
	reviewCmd.Flags().StringP("language", "l", "", "source language (or Auto-detect)")
	reviewCmd.Flags().StringP("provider", "p", "", "analysis provider")
	reviewCmd.Flags().Bool("watch", false, "reload the buffer when the file changes on disk")
	reviewCmd.Flags().String("debug-log", "", "write engine diagnostics to this file")
}

func runReview(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	mode, language, provider, err := sessionParams(cmd, cfg)
	if err != nil {
		return err
	}

	var code, filePath string
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}
		code = string(data)
		filePath = args[0]
	}

	logger := zap.NewNop()
	if debugPath, _ := cmd.Flags().GetString("debug-log"); debugPath != "" {
		zcfg := zap.NewDevelopmentConfig()
		zcfg.OutputPaths = []string{debugPath}
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("opening debug log: %w", err)
		}
		defer logger.Sync()
	}

	eng := engine.New(newClient(cfg), engine.Config{
		Timeout: requestTimeout(cfg),
		Logger:  logger,
	})

	var store *history.Store
	if cfg.History.Path != "" {
		store, err = history.OpenStore(cfg.History.Path)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	watch, _ := cmd.Flags().GetBool("watch")

	return tui.Run(tui.Options{
		Engine:   eng,
		Recorder: history.NewRecorder(),
		Store:    store,
		Code:     code,
		FilePath: filePath,
		Watch:    watch,
		Language: language,
		Mode:     mode,
		Provider: provider,
	})
}

// sessionParams resolves persona, language, and provider from flags with
// config defaults, validating the persona at the boundary.
func sessionParams(cmd *cobra.Command, cfg *config.Config) (model.Mode, string, string, error) {
	modeLabel, _ := cmd.Flags().GetString("mode")
	if modeLabel == "" {
		modeLabel = cfg.Defaults.Mode
	}
	mode, err := model.ParseMode(modeLabel)
	if err != nil {
		return 0, "", "", err
	}

	language, _ := cmd.Flags().GetString("language")
	if language == "" {
		language = cfg.Defaults.Language
	}

	provider, _ := cmd.Flags().GetString("provider")
	if provider == "" {
		provider = cfg.Defaults.Provider
	}

	return mode, language, provider, nil
}

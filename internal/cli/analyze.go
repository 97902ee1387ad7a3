package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/coderefine/coderefine/internal/engine"
	"github.com/coderefine/coderefine/internal/model"
	"github.com/coderefine/coderefine/internal/source"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [files...]",
	Short: "Run analysis and print a report (non-interactive)",
	Long: `Analyze one or more files and print a structured report. Useful for
CI, pre-commit hooks, and piping into other tools.

With --git, the files changed in the working tree (or a commit range) are
analyzed instead of explicit arguments.

Exit codes:
  0 — clean, no critical or high issues
  1 — critical or high severity issues found

Examples:
  coderefine analyze main.py
  coderefine analyze --git                 # changed files vs HEAD
  coderefine analyze --git main...HEAD -f json`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringP("mode", "m", "", "review persona")
	analyzeCmd.Flags().StringP("language", "l", "", "source language (or Auto-detect)")
	analyzeCmd.Flags().StringP("provider", "p", "", "analysis provider")
	analyzeCmd.Flags().StringP("format", "f", "text", "output format: text, json")
	analyzeCmd.Flags().Bool("git", false, "analyze files changed in git instead of arguments")
	analyzeCmd.Flags().Bool("alternative", false, "request an alternative optimized-code candidate")
}

// fileReport pairs a file with its analysis outcome for output.
type fileReport struct {
	File   string              `json:"file"`
	Result *model.ReviewResult `json:"result,omitempty"`
	Error  string              `json:"error,omitempty"`
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	mode, language, provider, err := sessionParams(cmd, cfg)
	if err != nil {
		return err
	}

	targets, err := resolveTargets(cmd, args)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		fmt.Println("Nothing to analyze.")
		return nil
	}

	eng := engine.New(newClient(cfg), engine.Config{Timeout: requestTimeout(cfg)})
	alternative, _ := cmd.Flags().GetBool("alternative")

	var reports []fileReport
	urgent := false

	for _, target := range targets {
		report := fileReport{File: target.name}

		snap, err := runToCompletion(eng, model.Request{
			Code:        target.code,
			Language:    language,
			Provider:    provider,
			Mode:        mode,
			Alternative: alternative,
		})
		switch {
		case err != nil:
			report.Error = err.Error()
		case snap.State == engine.StateFailed:
			report.Error = snap.LastError
		default:
			report.Result = snap.LastResult
			for _, is := range snap.LastResult.Issues {
				if is.Severity <= model.SeverityHigh {
					urgent = true
				}
			}
		}

		reports = append(reports, report)
	}

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(reports); err != nil {
			return err
		}
	case "text":
		printReports(reports)
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	if urgent {
		os.Exit(1)
	}
	return nil
}

type analyzeTarget struct {
	name string
	code string
}

func resolveTargets(cmd *cobra.Command, args []string) ([]analyzeTarget, error) {
	useGit, _ := cmd.Flags().GetBool("git")
	if !useGit {
		var targets []analyzeTarget
		for _, path := range args {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("reading %s: %w", path, err)
			}
			targets = append(targets, analyzeTarget{name: path, code: string(data)})
		}
		return targets, nil
	}

	repoDir, err := source.RepoRoot()
	if err != nil {
		return nil, err
	}

	commitRange := ""
	if len(args) == 1 {
		commitRange = args[0]
	}
	raw, err := source.GitDiff(repoDir, commitRange)
	if err != nil {
		return nil, err
	}

	changed, err := source.ChangedFiles(raw)
	if err != nil {
		return nil, err
	}

	var targets []analyzeTarget
	for _, cf := range changed {
		code, err := source.Read(repoDir, cf)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: skipping %s: %v\n", cf.Path, err)
			continue
		}
		targets = append(targets, analyzeTarget{name: cf.Path, code: code})
	}
	return targets, nil
}

// runToCompletion drives one submission through the engine and blocks until
// it settles.
func runToCompletion(eng *engine.Engine, req model.Request) (engine.Snapshot, error) {
	if !eng.Submit(req) {
		return engine.Snapshot{}, errors.New("empty input")
	}
	for {
		<-eng.Notify()
		snap := eng.Snapshot()
		if snap.State == engine.StateSucceeded || snap.State == engine.StateFailed {
			return snap, nil
		}
	}
}

func printReports(reports []fileReport) {
	for i, rep := range reports {
		if i > 0 {
			fmt.Println()
		}
		fmt.Printf("== %s\n", rep.File)

		if rep.Error != "" {
			fmt.Printf("   analysis failed: %s\n", rep.Error)
			continue
		}

		res := rep.Result
		fmt.Printf("   language: %s   health: %d   security: %d   performance: %d   maintainability: %d\n",
			res.LanguageDetected,
			res.Metrics.OverallHealth,
			res.Metrics.SecurityScore,
			res.Metrics.PerformanceScore,
			res.Metrics.MaintainabilityScore)

		if out, err := glamour.Render(res.Summary, "dark"); err == nil {
			fmt.Print(out)
		} else {
			fmt.Println(res.Summary)
		}

		if len(res.Issues) == 0 {
			fmt.Println("   no issues reported")
			continue
		}
		for _, is := range res.Issues {
			fmt.Printf("   L%-4d %-8s %-12s %s\n", is.Line, is.Severity, is.Category, is.Description)
			if is.Suggestion != "" {
				fmt.Printf("         suggestion: %s\n", is.Suggestion)
			}
		}
	}
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coderefine/coderefine/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent persisted reviews",
	Long: `List reviews persisted to the history database. Persistence is enabled
by setting history.path in the config file; without it reviews are kept in
memory for the session only.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 10, "maximum number of reviews to list")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.History.Path == "" {
		fmt.Println("History persistence is disabled (set history.path in the config).")
		return nil
	}

	store, err := history.OpenStore(cfg.History.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	items, err := store.Recent(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("No reviews recorded yet.")
		return nil
	}

	for _, item := range items {
		fmt.Printf("%s  %-12s  health %3d  %d issue(s)  %s\n",
			item.Timestamp.Local().Format("2006-01-02 15:04"),
			item.Language,
			item.Result.Metrics.OverallHealth,
			len(item.Result.Issues),
			item.ID)
	}
	return nil
}

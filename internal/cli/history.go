package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gatewaylabs/apimport/internal/history"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent import runs",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of runs to show")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.Recent(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No imports recorded yet.")
		return nil
	}

	fmt.Printf("%-20s %-24s %-24s %-5s %-8s %s\n",
		"WHEN", "FUNCTION APP", "API", "OPS", "STATE", "ERROR")
	for _, rec := range records {
		fmt.Printf("%-20s %-24s %-24s %-5d %-8s %s\n",
			rec.StartedAt.Local().Format(time.DateTime),
			truncate(rec.FunctionApp, 24),
			truncate(rec.APIID, 24),
			rec.Operations,
			rec.State,
			truncate(rec.Error, 60),
		)
	}
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

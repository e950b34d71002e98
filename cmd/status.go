package cmd

import (
	"fmt"
	"io"

	"github.com/chriserin/smartui/internal/db"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Summarize the latest run of every scenario file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return RunStatus(cmd.OutOrStdout(), cfg.HistoryDB)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusOrder = []string{"passed", "failed", "error"}

func RunStatus(w io.Writer, dbPath string) error {
	sqlDB, err := openHistory(dbPath)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	runs, err := db.LatestRuns(sqlDB)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Scenarios: %d\n", len(runs))
	if len(runs) == 0 {
		return nil
	}

	counts := map[string]int{}
	for _, r := range runs {
		counts[r.Status]++
	}
	for _, status := range statusOrder {
		if counts[status] > 0 {
			fmt.Fprintf(w, "  %s: %d\n", status, counts[status])
		}
	}
	return nil
}

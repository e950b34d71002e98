package cmd

import (
	"io"

	"github.com/chriserin/smartui/internal/db"
	"github.com/chriserin/smartui/internal/ui"
	"github.com/spf13/cobra"
)

var statusFlag string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the latest run of every scenario file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return RunList(cmd.OutOrStdout(), cfg.HistoryDB, statusFlag)
	},
}

func init() {
	listCmd.Flags().StringVar(&statusFlag, "status", "", "Filter by status (passed, failed, error)")
	rootCmd.AddCommand(listCmd)
}

const shortIDLen = 8

func RunList(w io.Writer, dbPath, statusFilter string) error {
	sqlDB, err := openHistory(dbPath)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	runs, err := db.LatestRuns(sqlDB)
	if err != nil {
		return err
	}

	var results []db.Run
	for _, r := range runs {
		if statusFilter != "" && r.Status != statusFilter {
			continue
		}
		results = append(results, r)
	}
	if len(results) == 0 {
		return nil
	}

	pathWidth := 0
	for _, r := range results {
		if len(r.FilePath) > pathWidth {
			pathWidth = len(r.FilePath)
		}
	}

	for _, r := range results {
		ui.RunRow(w, shortID(r.ID), r.FilePath, r.Status, r.FinishedAt.Format("2006-01-02 15:04"), shortIDLen, pathWidth)
	}
	return nil
}

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

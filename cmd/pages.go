package cmd

import (
	"fmt"
	"io"

	"github.com/chriserin/smartui/internal/db"
	"github.com/chriserin/smartui/internal/ui"
	"github.com/spf13/cobra"
)

var pagesCmd = &cobra.Command{
	Use:   "pages <run-id>",
	Short: "Show the page results and warnings of one run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return RunPages(cmd.OutOrStdout(), cfg.HistoryDB, args[0])
	},
}

func init() {
	rootCmd.AddCommand(pagesCmd)
}

func RunPages(w io.Writer, dbPath, runID string) error {
	sqlDB, err := openHistory(dbPath)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	run, err := db.GetRun(sqlDB, runID)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s  %s  %s\n", run.ID, run.FilePath, ui.Tag(run.Status))
	if run.Host != "" {
		fmt.Fprintf(w, "host: %s\n", run.Host)
	}
	if run.Error != "" && len(run.Pages) == 0 {
		ui.DetailLine(w, run.Error)
	}
	for _, p := range run.Pages {
		ui.PageRow(w, p.Index, p.Name, p.Action, p.Status)
		if p.Error != "" {
			ui.DetailLine(w, p.Error)
		}
		for _, warning := range p.Warnings {
			msg := warning.Message
			if warning.Field != "" {
				msg = fmt.Sprintf("field %q: %s", warning.Field, msg)
			}
			ui.WarnLine(w, msg)
		}
	}
	return nil
}

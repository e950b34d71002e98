package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/chriserin/smartui/internal/config"
	"github.com/chriserin/smartui/internal/db"
	"github.com/chriserin/smartui/internal/driver"
	"github.com/chriserin/smartui/internal/driver/htmldriver"
	"github.com/chriserin/smartui/internal/driver/roddriver"
	"github.com/chriserin/smartui/internal/engine"
	"github.com/chriserin/smartui/internal/flags"
	"github.com/chriserin/smartui/internal/logging"
	"github.com/chriserin/smartui/internal/runner"
	"github.com/chriserin/smartui/internal/screenshot"
	"github.com/chriserin/smartui/internal/ui"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <dir>",
	Short: "Run every scenario file in a directory",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log, err := logging.New(cfg.LogLevel, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		dir := ""
		if len(args) > 0 {
			dir = args[0]
		}
		return RunRun(cmd.Context(), cmd.OutOrStdout(), dir, cfg, log)
	},
}

func init() {
	runCmd.Flags().String("driver", config.DriverRod, "browser driver: rod or static")
	runCmd.Flags().Bool("headless", true, "run the browser without a window")
	runCmd.Flags().String("browser", "", "browser binary (default: find or download Chromium)")
	runCmd.Flags().String("screenshot-dir", "", "save a screenshot before each field is filled")
	runCmd.Flags().Duration("wait-timeout", 0, "how long to wait for a field to accept input")
	runCmd.Flags().String("flag-service", "", "URL feature flags are posted to")
	rootCmd.AddCommand(runCmd)
}

// RunRun runs the scenarios in dir, one browser session per file, and
// records each run when a history database exists. A missing or invalid
// dir is reported and is not an error; any failing scenario is.
func RunRun(ctx context.Context, w io.Writer, dir string, cfg config.Config, log logrus.FieldLogger) error {
	if dir == "" {
		fmt.Fprintln(w, "usage: smartui run <dir>")
		return nil
	}
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		fmt.Fprintf(w, "%s does not exist\n", dir)
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking %s: %w", dir, err)
	}
	if !info.IsDir() {
		fmt.Fprintf(w, "%s is not a directory\n", dir)
		return nil
	}

	batch, err := newBatch(cfg, log)
	if err != nil {
		return err
	}
	reports, err := batch.RunDir(ctx, dir)
	if err != nil {
		return err
	}

	var history *sql.DB
	if _, err := os.Stat(cfg.HistoryDB); err == nil {
		history, err = db.Open(cfg.HistoryDB)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer history.Close()
	}

	passed, failed, errored := 0, 0, 0
	for _, r := range reports {
		printReport(w, r)
		switch r.Status() {
		case runner.StatusPassed:
			passed++
		case runner.StatusFailed:
			failed++
		default:
			errored++
		}
		if history != nil {
			if err := db.RecordRun(history, historyRun(r)); err != nil {
				return fmt.Errorf("recording %s: %w", r.Source, err)
			}
		}
	}

	ui.SummaryLine(w, passed, failed, errored)
	if failed+errored > 0 {
		return fmt.Errorf("%d of %d scenarios did not pass", failed+errored, len(reports))
	}
	return nil
}

func newBatch(cfg config.Config, log logrus.FieldLogger) (*runner.Batch, error) {
	registry, err := engine.NewRegistry(engine.DefaultStrategies(engine.EnterOptions{
		WaitTimeout:    cfg.WaitTimeout,
		PressEnter:     cfg.PressEnter,
		ScrollIntoView: cfg.ScrollIntoView,
	})...)
	if err != nil {
		return nil, err
	}

	var cache flags.Cache = flags.LogCache{Log: log}
	if cfg.CacheURL != "" {
		cache = &flags.HTTPCache{URL: cfg.CacheURL, Log: log}
	}

	return &runner.Batch{
		Runner: &runner.Runner{
			Registry:        registry,
			Flags:           &flags.Client{URL: cfg.FlagServiceURL, Cache: cache, Log: log},
			PageLoadTimeout: cfg.PageLoadTimeout,
			Photographer:    &screenshot.Photographer{Dir: cfg.ScreenshotDir, Log: log},
			Log:             log,
		},
		Launch: newLauncher(cfg, log),
		Log:    log,
	}, nil
}

func newLauncher(cfg config.Config, log logrus.FieldLogger) runner.Launcher {
	if cfg.Driver == config.DriverStatic {
		return func(context.Context) (driver.Driver, error) {
			return htmldriver.New(), nil
		}
	}
	return func(context.Context) (driver.Driver, error) {
		d, err := roddriver.Launch(roddriver.Options{
			Headless: cfg.Headless,
			Bin:      cfg.BrowserBin,
			Timeout:  cfg.WaitTimeout,
			Log:      log,
		})
		if err != nil {
			return nil, err
		}
		return d, nil
	}
}

func printReport(w io.Writer, r *runner.Report) {
	ui.ResultLine(w, string(r.Status()), r.Source)
	if r.Err != nil {
		ui.DetailLine(w, r.Err.Error())
	}
	for _, warning := range r.Warnings() {
		ui.WarnLine(w, warning.String())
	}
}

func historyRun(r *runner.Report) db.Run {
	run := db.Run{
		ID:         r.ID,
		FilePath:   r.Source,
		Host:       r.Host,
		Status:     string(r.Status()),
		Error:      errString(r.Err),
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
	}
	for _, p := range r.Pages {
		page := db.PageResult{
			Index:  p.Index,
			Name:   p.Name,
			Action: string(p.Action),
			Status: string(p.Status),
			Error:  errString(p.Err),
		}
		for _, warning := range p.Warnings {
			page.Warnings = append(page.Warnings, db.Warning{Field: warning.Field, Message: warning.Err.Error()})
		}
		run.Pages = append(run.Pages, page)
	}
	return run
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

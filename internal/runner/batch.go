package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/chriserin/smartui/internal/driver"
	"github.com/chriserin/smartui/internal/parser"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Launcher opens a fresh driver session.
type Launcher func(ctx context.Context) (driver.Driver, error)

// Batch runs scenario files one after another, each in its own session.
type Batch struct {
	Runner *Runner
	Launch Launcher
	Log    logrus.FieldLogger
}

// ScanDir lists the scenario files directly inside dir, sorted by name.
func ScanDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !parser.IsScenarioFile(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// RunDir runs every scenario file in dir. Scan failures are returned; a
// failing scenario only shows up in its report.
func (b *Batch) RunDir(ctx context.Context, dir string) ([]*Report, error) {
	paths, err := ScanDir(dir)
	if err != nil {
		return nil, err
	}
	return b.RunFiles(ctx, paths), nil
}

func (b *Batch) RunFiles(ctx context.Context, paths []string) []*Report {
	reports := make([]*Report, 0, len(paths))
	for _, path := range paths {
		reports = append(reports, b.RunFile(ctx, path))
	}
	return reports
}

// RunFile parses path and runs it in a new session. The session is closed
// on every path out.
func (b *Batch) RunFile(ctx context.Context, path string) *Report {
	log := b.logger().WithField("file", path)

	sc, err := parser.Load(path)
	if err != nil {
		log.WithError(err).Error("could not load scenario")
		return failedReport(path, "", err)
	}

	d, err := b.Launch(ctx)
	if err != nil {
		log.WithError(err).Error("could not start browser")
		return failedReport(path, sc.Host, fmt.Errorf("starting browser: %w", err))
	}
	defer func() {
		if err := d.Close(); err != nil {
			log.WithError(err).Warn("closing browser session")
		}
	}()

	report, _ := b.Runner.Run(ctx, d, sc, path)
	return report
}

func failedReport(path, host string, err error) *Report {
	now := time.Now()
	return &Report{ID: uuid.NewString(), Source: path, Host: host, StartedAt: now, FinishedAt: now, Err: err}
}

func (b *Batch) logger() logrus.FieldLogger {
	if b.Log != nil {
		return b.Log
	}
	return logrus.StandardLogger()
}

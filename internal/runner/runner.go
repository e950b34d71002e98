// Package runner walks a scenario's pages against one driver session.
package runner

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/chriserin/smartui/internal/driver"
	"github.com/chriserin/smartui/internal/engine"
	"github.com/chriserin/smartui/internal/flags"
	"github.com/chriserin/smartui/internal/scenario"
	"github.com/chriserin/smartui/internal/screenshot"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AssertionMismatchError means a page showed a value other than the one the
// scenario expected. It is a test failure, not a tooling failure.
type AssertionMismatchError struct {
	Page     string
	Target   string
	Expected string
	Actual   string
}

func (e *AssertionMismatchError) Error() string {
	return fmt.Sprintf("page %q: %s: expected %q, got %q", e.Page, e.Target, e.Expected, e.Actual)
}

type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusError   Status = "error"
	StatusSkipped Status = "skipped"
)

// StatusOf classifies the outcome of a page or a whole run.
func StatusOf(err error) Status {
	var mismatch *AssertionMismatchError
	switch {
	case err == nil:
		return StatusPassed
	case errors.As(err, &mismatch):
		return StatusFailed
	default:
		return StatusError
	}
}

type PageResult struct {
	Index    int
	Name     string
	Action   scenario.Kind
	Status   Status
	Warnings []engine.Warning
	Err      error
}

// Report is the outcome of one scenario run. Pages after a failing page are
// listed as skipped.
type Report struct {
	ID         string
	Source     string
	Host       string
	StartedAt  time.Time
	FinishedAt time.Time
	Pages      []PageResult
	Err        error
}

func (r *Report) Status() Status {
	return StatusOf(r.Err)
}

func (r *Report) Warnings() []engine.Warning {
	var out []engine.Warning
	for _, p := range r.Pages {
		out = append(out, p.Warnings...)
	}
	return out
}

// Runner holds everything a scenario run needs besides the driver.
type Runner struct {
	Registry        *engine.Registry
	Flags           flags.Service
	PageLoadTimeout time.Duration
	Photographer    *screenshot.Photographer
	Log             logrus.FieldLogger
	Now             func() time.Time
}

// Run applies the scenario's flags once and then, page by page, navigates
// to the host, checks every expected value and performs the action. The
// first failure ends the run; closing d is the caller's job.
func (r *Runner) Run(ctx context.Context, d driver.Driver, sc *scenario.Scenario, source string) (*Report, error) {
	log := r.logger().WithField("scenario", source)
	report := &Report{
		ID:        uuid.NewString(),
		Source:    source,
		Host:      sc.Host,
		StartedAt: r.now(),
	}
	for i, p := range sc.Pages {
		report.Pages = append(report.Pages, PageResult{Index: i + 1, Name: p.Name, Action: kindOf(p.Action), Status: StatusSkipped})
	}

	err := r.run(ctx, d, sc, source, report, log)
	report.Err = err
	report.FinishedAt = r.now()
	if err != nil {
		log.WithError(err).Error("scenario did not pass")
	} else {
		log.Info("scenario passed")
	}
	return report, err
}

func (r *Runner) run(ctx context.Context, d driver.Driver, sc *scenario.Scenario, source string, report *Report, log logrus.FieldLogger) error {
	if r.Registry == nil {
		return &engine.ConfigError{Message: "runner has no strategy registry"}
	}

	if r.Flags != nil {
		if err := r.Flags.Apply(ctx, sc.Features); err != nil {
			return fmt.Errorf("applying feature flags: %w", err)
		}
	}

	eng := engine.New(d, r.Registry, log)
	name := scenarioName(source)

	for i, page := range sc.Pages {
		result := &report.Pages[i]
		plog := log.WithFields(logrus.Fields{"page": page.Name, "index": i + 1})

		warnings, err := r.runPage(ctx, d, eng, sc.Host, page, name, i+1, plog)
		result.Warnings = warnings
		result.Err = err
		result.Status = StatusOf(err)
		if err != nil {
			return err
		}
		plog.Debug("page passed")
	}
	return nil
}

func (r *Runner) runPage(ctx context.Context, d driver.Driver, eng *engine.Engine, host string, page scenario.Page, name string, index int, log logrus.FieldLogger) ([]engine.Warning, error) {
	if err := d.Navigate(ctx, host); err != nil {
		return nil, fmt.Errorf("page %q: navigating: %w", page.Name, err)
	}
	if w, ok := d.(driver.PageLoadWaiter); ok && r.PageLoadTimeout > 0 {
		if err := w.WaitLoad(ctx, r.PageLoadTimeout); err != nil {
			return nil, fmt.Errorf("page %q: %w", page.Name, &engine.TimeoutError{Op: "load", Target: page.Name, Timeout: r.PageLoadTimeout, Err: err})
		}
	}

	for _, exp := range page.Expected {
		actual, err := eng.FieldValue(ctx, exp.Target)
		if err != nil {
			return nil, fmt.Errorf("page %q: checking %q: %w", page.Name, exp.Target, err)
		}
		if actual != exp.Value {
			return nil, &AssertionMismatchError{Page: page.Name, Target: exp.Target, Expected: exp.Value, Actual: actual}
		}
		log.WithField("field", exp.Target).Debug("expected value matched")
	}

	hooks := engine.Hooks{BeforeInteract: func(ctx context.Context, field string, el driver.Element) error {
		if _, err := r.Photographer.Capture(ctx, d, name, index); err != nil {
			log.WithError(err).Warn("screenshot failed")
		}
		return nil
	}}

	result, err := eng.Execute(ctx, page.Action, hooks)
	if err != nil {
		return result.Warnings, fmt.Errorf("page %q: %w", page.Name, err)
	}
	return result.Warnings, nil
}

func (r *Runner) logger() logrus.FieldLogger {
	if r.Log != nil {
		return r.Log
	}
	return logrus.StandardLogger()
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func kindOf(a scenario.Action) scenario.Kind {
	if a == nil {
		return ""
	}
	return a.Kind()
}

func scenarioName(source string) string {
	base := filepath.Base(source)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Package screenshot saves page images taken at the moment a field is about
// to be filled.
package screenshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/chriserin/smartui/internal/driver"
	"github.com/sirupsen/logrus"
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// Photographer writes PNGs to Dir. A zero Dir disables it.
type Photographer struct {
	Dir string
	Now func() time.Time
	Log logrus.FieldLogger
}

// FileName builds <scenario>_page<N>_<yyyyMMdd_HHmmss>.png.
func FileName(scenarioName string, page int, at time.Time) string {
	return fmt.Sprintf("%s_page%d_%s.png", Sanitize(scenarioName), page, at.Format("20060102_150405"))
}

// Sanitize replaces anything outside [a-zA-Z0-9.-] with an underscore.
func Sanitize(name string) string {
	return unsafeChars.ReplaceAllString(name, "_")
}

// Capture saves a screenshot and returns its path. Drivers that cannot take
// screenshots and a disabled photographer both return "" with no error.
func (p *Photographer) Capture(ctx context.Context, d driver.Driver, scenarioName string, page int) (string, error) {
	if p == nil || p.Dir == "" {
		return "", nil
	}
	log := p.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	shooter, ok := d.(driver.Screenshotter)
	if !ok {
		log.Debug("driver does not support screenshots")
		return "", nil
	}

	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return "", fmt.Errorf("creating screenshot dir: %w", err)
	}

	img, err := shooter.Screenshot(ctx)
	if err != nil {
		return "", fmt.Errorf("taking screenshot: %w", err)
	}

	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	path := filepath.Join(p.Dir, FileName(scenarioName, page, now()))
	if err := os.WriteFile(path, img, 0o644); err != nil {
		return "", fmt.Errorf("writing screenshot: %w", err)
	}

	log.WithField("path", path).Info("screenshot saved")
	return path, nil
}

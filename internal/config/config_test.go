package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrom_Defaults(t *testing.T) {
	c, err := From(New())
	require.NoError(t, err)
	assert.Equal(t, DriverRod, c.Driver)
	assert.True(t, c.Headless)
	assert.True(t, c.PressEnter)
	assert.True(t, c.ScrollIntoView)
	assert.Equal(t, 15*time.Second, c.WaitTimeout)
	assert.Equal(t, 15*time.Second, c.PageLoadTimeout)
	assert.Equal(t, ".smartui/history.db", c.HistoryDB)
	assert.Equal(t, "info", c.LogLevel)
	assert.Empty(t, c.FlagServiceURL)
}

func TestReadFile_YAMLAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "smartui.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
driver: static
wait_timeout: 2s
press_enter: false
flag_service:
  url: http://flags.test/apply
`), 0o644))
	t.Setenv("SMARTUI_SCREENSHOT_DIR", "shots")
	t.Setenv("SMARTUI_FLAG_SERVICE_CACHE_URL", "http://cache.test/clear")

	v := New()
	require.NoError(t, ReadFile(v, path))
	c, err := From(v)
	require.NoError(t, err)

	assert.Equal(t, DriverStatic, c.Driver)
	assert.Equal(t, 2*time.Second, c.WaitTimeout)
	assert.False(t, c.PressEnter)
	assert.Equal(t, "http://flags.test/apply", c.FlagServiceURL)
	assert.Equal(t, "http://cache.test/clear", c.CacheURL)
	assert.Equal(t, "shots", c.ScreenshotDir)
}

func TestReadFile_MissingDefaultIsFine(t *testing.T) {
	dir := t.TempDir()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(orig) })

	assert.NoError(t, ReadFile(New(), ""))
}

func TestReadFile_MissingExplicitFails(t *testing.T) {
	err := ReadFile(New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "reading config")
}

func TestFrom_RejectsUnknownDriver(t *testing.T) {
	v := New()
	v.Set("driver", "selenium")
	_, err := From(v)
	assert.ErrorContains(t, err, "unknown driver")
}

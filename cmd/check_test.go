package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck_ValidFiles(t *testing.T) {
	inTempDir(t)
	writeScenario(t, "login.txt", loginScenario("http://shop.test", "Welcome"))
	require.NoError(t, os.WriteFile("cart.json", []byte(cartJSON), 0o644))

	var buf bytes.Buffer
	require.NoError(t, RunCheck(&buf, []string{"scenarios", "cart.json"}, "auto"))
	assert.Contains(t, buf.String(), filepath.Join("scenarios", "login.txt")+" (1 pages)")
	assert.Contains(t, buf.String(), "cart.json (1 pages)")
}

func TestCheck_ReportsEveryBadFile(t *testing.T) {
	inTempDir(t)
	writeScenario(t, "a.txt", "Page Login\n")
	writeScenario(t, "b.json", `{"host": "http://x", "pages": [{"name": "P"}]}`)
	writeScenario(t, "c.txt", loginScenario("http://shop.test", "Welcome"))

	var buf bytes.Buffer
	err := RunCheck(&buf, []string{"scenarios"}, "auto")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 of 3 files")
	assert.Contains(t, buf.String(), "missing Host definition")
	assert.Contains(t, buf.String(), "has no action")
}

func TestCheck_FormatFlagForcesSyntax(t *testing.T) {
	inTempDir(t)
	require.NoError(t, os.WriteFile("cart.txt", []byte(cartJSON), 0o644))

	var buf bytes.Buffer
	require.Error(t, RunCheck(&buf, []string{"cart.txt"}, "auto"))

	buf.Reset()
	require.NoError(t, RunCheck(&buf, []string{"cart.txt"}, "json"))
	assert.Contains(t, buf.String(), "cart.txt (1 pages)")
}

func TestCheck_UnknownFormat(t *testing.T) {
	inTempDir(t)

	var buf bytes.Buffer
	err := RunCheck(&buf, []string{"cart.txt"}, "toml")
	assert.ErrorContains(t, err, `unknown scenario format "toml"`)
	assert.Empty(t, buf.String())
}

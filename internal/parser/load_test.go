package parser

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileIsSourceError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))

	var serr *SourceError
	require.ErrorAs(t, err, &serr)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	var ferr *FormatError
	assert.False(t, errors.As(err, &ferr))
}

func TestLoad_MalformedIsFormatError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"host":`), 0o644))

	_, err := Load(path)
	var ferr *FormatError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, path, ferr.Source)
}

func TestLoad_ReadsDSL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "home.scenario")
	require.NoError(t, os.WriteFile(path, []byte("Host: http://x\nPage Home\naction:\n  type: Click\n  target: Go\n"), 0o644))

	sc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://x", sc.Host)
	assert.Len(t, sc.Pages, 1)
}

func TestDetectSyntax(t *testing.T) {
	assert.Equal(t, SyntaxJSON, DetectSyntax("a.json", nil))
	assert.Equal(t, SyntaxJSON, DetectSyntax("a.JSON", nil))
	assert.Equal(t, SyntaxYAML, DetectSyntax("a.yml", nil))
	assert.Equal(t, SyntaxYAML, DetectSyntax("a.yaml", nil))
	assert.Equal(t, SyntaxDSL, DetectSyntax("a.txt", []byte("{")))
	assert.Equal(t, SyntaxJSON, DetectSyntax("stdin", []byte("  \n{\"host\":\"x\"}")))
	assert.Equal(t, SyntaxDSL, DetectSyntax("stdin", []byte("Host: x")))
}

func TestIsScenarioFile(t *testing.T) {
	for _, name := range []string{"a.json", "b.yaml", "c.yml", "d.txt", "e.scenario", "F.TXT"} {
		assert.True(t, IsScenarioFile(name), name)
	}
	for _, name := range []string{"a.go", "README.md", "noext"} {
		assert.False(t, IsScenarioFile(name), name)
	}
}

func TestParseSyntax(t *testing.T) {
	f, err := ParseSyntax("YAML")
	require.NoError(t, err)
	assert.Equal(t, SyntaxYAML, f)

	f, err = ParseSyntax("")
	require.NoError(t, err)
	assert.Equal(t, SyntaxAuto, f)

	_, err = ParseSyntax("toml")
	assert.ErrorContains(t, err, "toml")
}

func TestParseAs_ForcesSyntax(t *testing.T) {
	_, err := ParseAs("x.txt", []byte(`{"host":"h"}`), SyntaxJSON)
	require.NoError(t, err)

	_, err = ParseAs("x.json", []byte(`{"host":"h"}`), SyntaxDSL)
	var ferr *FormatError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, 1, ferr.Line)
}

func TestLoadAs_OverridesExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "home.txt")
	require.NoError(t, os.WriteFile(path, []byte("host: http://x\npages:\n  - name: Home\n    action:\n      actionType: Click\n      target: Go\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)

	sc, err := LoadAs(path, SyntaxYAML)
	require.NoError(t, err)
	assert.Equal(t, "http://x", sc.Host)
	assert.Len(t, sc.Pages, 1)
}

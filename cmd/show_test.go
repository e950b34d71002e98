package cmd

import (
	"bytes"
	"io/fs"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/chriserin/smartui/internal/parser"
)

const cartJSON = `{
  "host": "http://shop.test",
  "features": {"NewCart": {"enable": true}},
  "pages": [
    {"name": "Cart", "expected": [{"target": "Total", "value": "$10"}],
     "action": {"actionType": "Enter", "targetField": "Coupon", "value": "SAVE10"}}
  ]
}`

func TestShow_PrintsCanonicalDSL(t *testing.T) {
	inTempDir(t)
	require.NoError(t, os.WriteFile("cart.json", []byte(cartJSON), 0o644))

	var buf bytes.Buffer
	require.NoError(t, RunShow(&buf, "cart.json", false, "auto"))

	again, err := parser.Parse("cart.txt", buf.Bytes())
	require.NoError(t, err)
	orig, err := parser.Load("cart.json")
	require.NoError(t, err)
	assert.Equal(t, orig, again)
	assert.Contains(t, buf.String(), "Page Cart")
}

func TestShow_PrintsJSON(t *testing.T) {
	inTempDir(t)
	require.NoError(t, os.WriteFile("cart.json", []byte(cartJSON), 0o644))

	var buf bytes.Buffer
	require.NoError(t, RunShow(&buf, "cart.json", true, "auto"))
	assert.Equal(t, "Enter", gjson.GetBytes(buf.Bytes(), "pages.0.action.actionType").String())
	assert.True(t, gjson.GetBytes(buf.Bytes(), "features.NewCart.enable").Bool())
}

func TestShow_MissingFile(t *testing.T) {
	inTempDir(t)
	var buf bytes.Buffer
	err := RunShow(&buf, "nope.txt", false, "auto")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestShow_FormatFlagForcesSyntax(t *testing.T) {
	inTempDir(t)
	require.NoError(t, os.WriteFile("cart.scenario", []byte(cartJSON), 0o644))

	var buf bytes.Buffer
	require.NoError(t, RunShow(&buf, "cart.scenario", false, "json"))
	assert.Contains(t, buf.String(), "Host: http://shop.test")
	assert.Contains(t, buf.String(), "Page Cart")
}

package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/smartui/internal/db"
)

func TestPages_ShowsPagesAndWarnings(t *testing.T) {
	inTempDir(t)
	runInit(t)
	seedRun(t, "abcdef12-3456", "scenarios/checkout.txt", "failed", seedTime,
		db.PageResult{Index: 1, Name: "Cart", Action: "Submit", Status: "passed", Warnings: []db.Warning{
			{Field: "Coupon", Message: `field not found: "Coupon"`},
		}},
		db.PageResult{Index: 2, Name: "Payment", Action: "Click", Status: "failed", Error: `expected "10", got "12"`},
	)

	var buf bytes.Buffer
	require.NoError(t, RunPages(&buf, historyDB, "abcdef12"))
	out := buf.String()

	assert.Contains(t, out, "abcdef12-3456  scenarios/checkout.txt")
	assert.Contains(t, out, "host: http://shop.test")
	assert.Contains(t, out, "Cart")
	assert.Contains(t, out, "(Submit)")
	assert.Contains(t, out, `field "Coupon": field not found`)
	assert.Contains(t, out, "Payment")
	assert.Contains(t, out, `expected "10", got "12"`)
}

func TestPages_UnknownRun(t *testing.T) {
	inTempDir(t)
	runInit(t)

	var buf bytes.Buffer
	err := RunPages(&buf, historyDB, "nope")
	assert.ErrorContains(t, err, "run nope not found")
}

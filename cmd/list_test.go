package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/smartui/internal/db"
)

var seedTime = time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)

func seedRun(t *testing.T, id, path, status string, at time.Time, pages ...db.PageResult) {
	t.Helper()
	sqlDB, err := db.Open(historyDB)
	require.NoError(t, err)
	defer sqlDB.Close()
	require.NoError(t, db.RecordRun(sqlDB, db.Run{
		ID:         id,
		FilePath:   path,
		Host:       "http://shop.test",
		Status:     status,
		StartedAt:  at,
		FinishedAt: at.Add(time.Second),
		Pages:      pages,
	}))
}

func runList(t *testing.T, status string) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, RunList(&buf, historyDB, status))
	return buf.String()
}

func TestList_LatestRunPerFile(t *testing.T) {
	inTempDir(t)
	runInit(t)
	seedRun(t, "11111111-aaaa", "scenarios/login.txt", "failed", seedTime)
	seedRun(t, "22222222-bbbb", "scenarios/login.txt", "passed", seedTime.Add(time.Hour))
	seedRun(t, "33333333-cccc", "scenarios/cart.json", "error", seedTime)

	out := runList(t, "")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "33333333")
	assert.Contains(t, lines[0], "scenarios/cart.json")
	assert.Contains(t, lines[1], "22222222")
	assert.Contains(t, lines[1], "pass")
	assert.NotContains(t, out, "11111111")
}

func TestList_FilterByStatus(t *testing.T) {
	inTempDir(t)
	runInit(t)
	seedRun(t, "11111111-aaaa", "scenarios/login.txt", "passed", seedTime)
	seedRun(t, "33333333-cccc", "scenarios/cart.json", "failed", seedTime)

	out := runList(t, "failed")
	assert.Contains(t, out, "cart.json")
	assert.NotContains(t, out, "login.txt")
}

func TestList_Empty(t *testing.T) {
	inTempDir(t)
	runInit(t)
	assert.Empty(t, runList(t, ""))
}

func TestList_RequiresInit(t *testing.T) {
	inTempDir(t)
	var buf bytes.Buffer
	err := RunList(&buf, historyDB, "")
	assert.EqualError(t, err, "run `smartui init` first")
}

package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

func setupBenchProject(b *testing.B, fileCount int) {
	b.Helper()
	dir := b.TempDir()
	orig, err := os.Getwd()
	require.NoError(b, err)
	require.NoError(b, os.Chdir(dir))
	b.Cleanup(func() { os.Chdir(orig) })

	var buf bytes.Buffer
	require.NoError(b, RunInit(&buf, historyDB))

	host := serveApp(b)
	for i := 0; i < fileCount; i++ {
		writeScenario(b, fmt.Sprintf("login_%d.txt", i), loginScenario(host, "Welcome"))
	}
}

func benchmarkRun(b *testing.B, fileCount int) {
	setupBenchProject(b, fileCount)
	cfg := testConfig(b)
	log, _ := test.NewNullLogger()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var buf bytes.Buffer
		if err := RunRun(context.Background(), &buf, "scenarios", cfg, log); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRun_10Files(b *testing.B)  { benchmarkRun(b, 10) }
func BenchmarkRun_100Files(b *testing.B) { benchmarkRun(b, 100) }

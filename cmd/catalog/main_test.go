package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogcli/internal/config"
	"catalogcli/internal/infrastructure"
	"catalogcli/internal/shared/testutil"
)

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-version"}, &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "catalog v")
}

func TestRun_UnknownFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-bogus"}, &stdout, &stderr)

	assert.Equal(t, 2, code)
	assert.Contains(t, stderr.String(), "bogus")
}

func TestRun_MissingConfigFile(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-config", filepath.Join(t.TempDir(), "nope.yaml")}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "configuration error")
}

func TestRun(t *testing.T) {
	t.Cleanup(infrastructure.ResetLoggerForTesting)

	dir := t.TempDir()
	fixtures := testutil.NewCatalogTestFixtures(dir)
	input, err := fixtures.WriteSampleCatalog()
	require.NoError(t, err)

	outDir := filepath.Join(dir, "out")
	configFile := filepath.Join(dir, "catalog.yaml")
	yaml := fmt.Sprintf("input:\n  path: %q\noutput:\n  dir: %q\n  preview_rows: 3\ntelemetry:\n  metrics: false\n", input, outDir)
	require.NoError(t, os.WriteFile(configFile, []byte(yaml), 0644))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-config", configFile}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "=== FIRST 3 ROWS ===")
	assert.Contains(t, stdout.String(), "Movies in India")
	assert.FileExists(t, filepath.Join(outDir, config.ChartsJSONFile))
	assert.FileExists(t, filepath.Join(outDir, config.WorkbookFile))
	assert.NoFileExists(t, filepath.Join(outDir, config.MetricsFile))
}

func TestRun_MissingInputExitsNonZero(t *testing.T) {
	t.Cleanup(infrastructure.ResetLoggerForTesting)

	dir := t.TempDir()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{
		"-config", writeEmptyConfig(t, dir),
		"-input", filepath.Join(dir, "missing.csv"),
		"-out", filepath.Join(dir, "out"),
	}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "missing.csv")
}

func writeEmptyConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0644))
	return path
}

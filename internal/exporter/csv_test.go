package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogcli/internal/config"
	"catalogcli/internal/errors"
)

// setupTestEnv creates a CSV writer rooted at a temporary output directory
func setupTestEnv(t *testing.T) (*CSVWriter, *config.Paths) {
	t.Helper()

	cfg := config.Default()
	cfg.Output.Dir = filepath.Join(t.TempDir(), "reports")
	paths := config.NewPaths(cfg)
	require.NoError(t, paths.EnsureDirectories())

	return NewCSVWriter(nil), paths
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	content = bytes.TrimPrefix(content, utf8BOM)
	return strings.Split(strings.TrimSpace(string(content)), "\n")
}

func TestNewCSVWriter(t *testing.T) {
	writer := NewCSVWriter(nil)

	assert.NotNil(t, writer)
	assert.NotNil(t, writer.logger)
}

func TestCSVWriter_WriteCSV(t *testing.T) {
	writer, paths := setupTestEnv(t)

	tests := []struct {
		name     string
		filePath string
		options  WriteOptions
		validate func(t *testing.T, filePath string)
	}{
		{
			name:     "basic write with headers",
			filePath: "test_basic.csv",
			options: WriteOptions{
				Headers: []string{"type", "count"},
				Records: [][]string{
					{"Movie", "3"},
					{"TV Show", "4"},
				},
			},
			validate: func(t *testing.T, filePath string) {
				lines := readLines(t, filePath)
				assert.Equal(t, []string{"type,count", "Movie,3", "TV Show,4"}, lines)
			},
		},
		{
			name:     "write with BOM prefix",
			filePath: "test_bom.csv",
			options: WriteOptions{
				Headers:   []string{"country", "count"},
				Records:   [][]string{{"India", "3"}},
				BOMPrefix: true,
			},
			validate: func(t *testing.T, filePath string) {
				content, err := os.ReadFile(filePath)
				require.NoError(t, err)
				assert.True(t, bytes.HasPrefix(content, utf8BOM))
				assert.Equal(t, []string{"country,count", "India,3"}, readLines(t, filePath))
			},
		},
		{
			name:     "values with delimiters are quoted",
			filePath: "test_quoted.csv",
			options: WriteOptions{
				Headers: []string{"country"},
				Records: [][]string{{"United States, Ghana"}},
			},
			validate: func(t *testing.T, filePath string) {
				file, err := os.Open(filePath)
				require.NoError(t, err)
				defer file.Close()

				records, err := csv.NewReader(file).ReadAll()
				require.NoError(t, err)
				assert.Equal(t, "United States, Ghana", records[1][0])
			},
		},
		{
			name:     "empty records",
			filePath: "test_empty.csv",
			options: WriteOptions{
				Headers: []string{"Col1", "Col2"},
				Records: [][]string{},
			},
			validate: func(t *testing.T, filePath string) {
				assert.Equal(t, []string{"Col1,Col2"}, readLines(t, filePath))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := paths.GetOutputPath(tt.filePath)
			require.NoError(t, writer.WriteCSV(path, tt.options))
			tt.validate(t, path)
		})
	}
}

func TestCSVWriter_Overwrites(t *testing.T) {
	writer, paths := setupTestEnv(t)
	path := paths.GetOutputPath("rerun.csv")

	require.NoError(t, writer.WriteCSV(path, WriteOptions{Headers: []string{"a", "b"}, Records: [][]string{{"1", "2"}, {"3", "4"}}}))
	require.NoError(t, writer.WriteCSV(path, WriteOptions{Headers: []string{"a", "b"}, Records: [][]string{{"5", "6"}}}))

	assert.Equal(t, []string{"a,b", "5,6"}, readLines(t, path))
}

func TestCSVWriter_RelativePathUsedAsGiven(t *testing.T) {
	dir := t.TempDir()
	originalDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(originalDir) })

	writer := NewCSVWriter(nil)
	require.NoError(t, writer.WriteCSV(filepath.Join("reports", "x.csv"), WriteOptions{Headers: []string{"x"}}))

	assert.FileExists(t, filepath.Join(dir, "reports", "x.csv"))
	assert.NoDirExists(t, filepath.Join(dir, "reports", "reports"))
}

func TestCSVWriter_AbsolutePath(t *testing.T) {
	writer, _ := setupTestEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "abs.csv")

	require.NoError(t, writer.WriteCSV(path, WriteOptions{Headers: []string{"x"}}))
	assert.FileExists(t, path)
}

func TestCSVWriter_StorageError(t *testing.T) {
	writer, paths := setupTestEnv(t)

	// a directory where the file should go
	blocked := paths.GetOutputPath("blocked.csv")
	require.NoError(t, os.MkdirAll(blocked, 0755))

	err := writer.WriteCSV(blocked, WriteOptions{Headers: []string{"x"}})
	require.Error(t, err)
	assert.Equal(t, errors.ErrTypeStorage, errors.TypeOf(err))
}

func TestCSVWriter_CreateStreamWriter(t *testing.T) {
	writer, paths := setupTestEnv(t)

	tests := []struct {
		name      string
		headers   []string
		bomPrefix bool
		records   [][]string
		wantLines []string
	}{
		{
			name:      "stream with headers and BOM",
			headers:   []string{"show_id", "type"},
			bomPrefix: true,
			records:   [][]string{{"s1", "Movie"}, {"s2", "TV Show"}},
			wantLines: []string{"show_id,type", "s1,Movie", "s2,TV Show"},
		},
		{
			name:      "stream without headers",
			records:   [][]string{{"s1", "Movie"}},
			wantLines: []string{"s1,Movie"},
		},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fullPath := paths.GetOutputPath(filepath.Join("streams", string(rune('a'+i))+".csv"))
			stream, err := writer.CreateStreamWriter(fullPath, tt.headers, tt.bomPrefix)
			require.NoError(t, err)

			for _, r := range tt.records {
				require.NoError(t, stream.WriteRecord(r))
			}
			assert.Equal(t, len(tt.records), stream.Rows())
			require.NoError(t, stream.Close())

			content, err := os.ReadFile(fullPath)
			require.NoError(t, err)
			assert.Equal(t, tt.bomPrefix, bytes.HasPrefix(content, utf8BOM))
			assert.Equal(t, tt.wantLines, readLines(t, fullPath))
		})
	}
}

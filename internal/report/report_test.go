package report

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogcli/internal/dataprocessing"
	"catalogcli/internal/shared/testutil"
	"catalogcli/pkg/contracts/domain"
)

func sampleInput(t *testing.T) Input {
	t.Helper()

	fixtures := testutil.NewCatalogTestFixtures(t.TempDir())
	path, err := fixtures.WriteSampleCatalog()
	require.NoError(t, err)

	loaded, err := dataprocessing.NewParser(nil, dataprocessing.LoadOptions{}).Load(context.Background(), path)
	require.NoError(t, err)

	cleaned, cleanReport, err := dataprocessing.NewCleaner(nil).Clean(context.Background(), loaded.Titles)
	require.NoError(t, err)

	ds := dataprocessing.NewDataset(cleaned)
	movies := ds.Filter(dataprocessing.OfType(domain.TitleTypeMovie))

	return Input{
		Load:    loaded,
		Clean:   &cleanReport,
		Dataset: ds,
		Filters: []FilterResult{
			{Name: "Movies", Count: movies.Len()},
		},
		TokenDelimiter: ",",
	}
}

func TestWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf, 5).Write(sampleInput(t)))
	out := buf.String()

	for _, section := range []string{
		"=== FIRST 5 ROWS ===",
		"=== LAST 5 ROWS ===",
		"=== TOTALS ===",
		"=== COLUMNS ===",
		"=== MISSING VALUES ===",
		"=== CLEANING ===",
		"=== SUMMARY STATISTICS ===",
		"=== COUNTRIES ===",
		"=== FILTERS ===",
	} {
		assert.Contains(t, out, section)
	}

	assert.Contains(t, out, "Retained 7 of 10 records (3 dropped)")
	assert.Contains(t, out, "drop-missing")
	assert.Contains(t, out, "release_year")
	assert.Contains(t, out, "2016.00")
	assert.Contains(t, out, "TV Show")
	assert.Regexp(t, `Total\s+7`, out)
	assert.Regexp(t, `Unique country values:\s+5`, out)
	assert.Regexp(t, `Unique countries:\s+6`, out)
	assert.Regexp(t, `Movies\s+3`, out)
}

func TestWriter_NoPreview(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf, 0).Write(sampleInput(t)))

	assert.NotContains(t, buf.String(), "ROWS ===")
	assert.Contains(t, buf.String(), "=== TOTALS ===")
}

func TestWriter_EmptyInput(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf, 5).Write(Input{}))

	out := buf.String()
	assert.Regexp(t, `Total\s+0`, out)
	assert.Contains(t, out, "NaN")
	assert.NotContains(t, out, "=== CLEANING ===")
	assert.NotContains(t, out, "=== FILTERS ===")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriter_PropagatesWriteError(t *testing.T) {
	err := NewWriter(failingWriter{}, 5).Write(Input{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short"))

	long := strings.Repeat("x", 40)
	got := truncate(long)
	assert.Len(t, []rune(got), maxCellWidth)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestFormatStat(t *testing.T) {
	assert.Equal(t, "2016.00", formatStat(2016))
	assert.Equal(t, "10.25", formatStat(10.246))
}

package exporter

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"catalogcli/internal/dataprocessing"
	"catalogcli/pkg/contracts"
	"catalogcli/pkg/contracts/domain"
)

// compile-time checks
var (
	_ dataprocessing.Renderer = (*JSONRenderer)(nil)
	_ dataprocessing.Renderer = (*XLSXRenderer)(nil)
)

func testCharts(t *testing.T) []domain.ChartSpec {
	t.Helper()
	set, err := dataprocessing.BuildCharts(testDataset(), dataprocessing.ChartOptions{TopK: 10})
	require.NoError(t, err)
	return set.Charts
}

func TestJSONRenderer_Render(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "charts.json")
	renderer := NewJSONRenderer(path, "titles.csv", nil)
	renderer.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	charts := testCharts(t)
	require.NoError(t, renderer.Render(context.Background(), charts))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc ChartDocument
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, contracts.DataFormatVersion, doc.FormatVersion)
	assert.Equal(t, "titles.csv", doc.Source)
	assert.True(t, doc.GeneratedAt.Equal(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)))
	assert.Equal(t, charts, doc.Charts)
}

func TestJSONRenderer_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "charts.json")
	require.NoError(t, NewJSONRenderer(path, "", nil).Render(context.Background(), nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"charts": []`)
}

func TestXLSXRenderer_Render(t *testing.T) {
	path := filepath.Join(t.TempDir(), "charts.xlsx")
	renderer := NewXLSXRenderer(path, nil)

	charts := testCharts(t)
	require.NoError(t, renderer.Render(context.Background(), charts))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Equal(t, IndexSheet, sheets[0])
	assert.Len(t, sheets, len(charts)+1)

	index, err := f.GetRows(IndexSheet)
	require.NoError(t, err)
	require.Len(t, index, len(charts)+1)
	assert.Equal(t, dataprocessing.ChartContentByType, index[1][0])

	byType, err := f.GetRows(dataprocessing.ChartContentByType)
	require.NoError(t, err)
	assert.Equal(t, []string{"type", "count"}, byType[0])
	assert.Equal(t, []string{"Movie", "2"}, byType[1])
	assert.Equal(t, []string{"TV Show", "1"}, byType[2])

	// line chart: years sorted, missing points filled with zero
	perYear, err := f.GetRows(dataprocessing.ChartAddedPerYear)
	require.NoError(t, err)
	assert.Equal(t, []string{"year_added", "Movie", "TV Show"}, perYear[0])
	assert.Equal(t, []string{"2017", "1", "0"}, perYear[1])
	assert.Equal(t, []string{"2018", "0", "1"}, perYear[2])
	assert.Equal(t, []string{"2021", "1", "0"}, perYear[3])

	histogram, err := f.GetRows(dataprocessing.ChartMovieReleaseYears)
	require.NoError(t, err)
	assert.Equal(t, []string{"1993", "1"}, histogram[1])
	assert.Equal(t, []string{"2017", "1"}, histogram[2])

	box, err := f.GetRows(dataprocessing.ChartMovieDuration)
	require.NoError(t, err)
	assert.Equal(t, "minutes", box[0][0])
	assert.Equal(t, "count", box[1][2])
	assert.Equal(t, "2", box[1][3])
}

func TestXLSXRenderer_UnsupportedKind(t *testing.T) {
	path := filepath.Join(t.TempDir(), "charts.xlsx")
	err := NewXLSXRenderer(path, nil).Render(context.Background(), []domain.ChartSpec{{ID: "odd", Kind: "radar"}})
	assert.Error(t, err)
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "top-genres", sheetName("top-genres"))
	assert.Len(t, sheetName("a-very-long-chart-identifier-that-overflows"), 31)
}

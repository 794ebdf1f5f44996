package exporter

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogcli/internal/config"
	"catalogcli/internal/dataprocessing"
	"catalogcli/internal/shared/testutil"
	"catalogcli/pkg/contracts/domain"
)

func testDataset() *dataprocessing.Dataset {
	return dataprocessing.NewDataset([]domain.Title{
		testutil.NewTitle(domain.TitleTypeMovie,
			testutil.WithName("Bahubali"),
			testutil.WithCountry("India"),
			testutil.WithDateAdded("2017-04-28"),
			testutil.WithReleaseYear(2017),
			testutil.WithRating("TV-14"),
			testutil.WithDuration("167 min"),
			testutil.WithGenres("Action & Adventure, International Movies"),
			testutil.Cleaned()),
		testutil.NewTitle(domain.TitleTypeTVShow,
			testutil.WithName("Sacred Games"),
			testutil.WithCountry("India"),
			testutil.WithDateAdded("2018-07-06"),
			testutil.WithReleaseYear(2019),
			testutil.WithDuration("4 Seasons"),
			testutil.WithGenres("Crime TV Shows, International TV Shows"),
			testutil.Cleaned()),
		testutil.NewTitle(domain.TitleTypeMovie,
			testutil.WithName("Sankofa"),
			testutil.WithCountry("United States, Ghana"),
			testutil.WithDateAdded("2021-09-24"),
			testutil.WithReleaseYear(1993),
			testutil.WithDuration("125 min"),
			testutil.WithGenres("Dramas, International Movies"),
			testutil.Cleaned()),
	})
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	return records
}

func TestCatalogExporter_ExportCleaned(t *testing.T) {
	_, paths := setupTestEnv(t)
	logger, handler := testutil.NewTestLogger(t)

	exp := NewCatalogExporter(paths, logger, false)
	require.NoError(t, exp.ExportCleaned(context.Background(), testDataset()))

	records := readCSV(t, paths.CleanedCSV)
	require.Len(t, records, 4)
	assert.Equal(t, CleanedHeaders, records[0])
	assert.Equal(t, "Bahubali", records[1][2])
	assert.Equal(t, "2017-04-28", records[1][6])
	assert.Equal(t, "United States, Ghana", records[3][5])

	testutil.AssertLogAttr(t, handler, "records", int64(3))
}

func TestCatalogExporter_ExportAggregates(t *testing.T) {
	_, paths := setupTestEnv(t)

	exp := NewCatalogExporter(paths, nil, true)
	require.NoError(t, exp.ExportAggregates(context.Background(), testDataset(), 10, ","))

	for _, name := range []string{TypeCountsFile, YearTypeCountsFile, TopCountriesFile, TopGenresFile, RatingCountsFile, SummaryStatsFile} {
		assert.FileExists(t, filepath.Join(paths.AggregatesDir, name))
	}

	// the BOM sticks to the first header cell
	types := readCSV(t, paths.GetAggregatePath(TypeCountsFile))
	assert.Equal(t, []string{"Movie", "2"}, types[1])
	assert.Equal(t, []string{"TV Show", "1"}, types[2])

	countries := readCSV(t, paths.GetAggregatePath(TopCountriesFile))
	assert.Equal(t, []string{"India", "2"}, countries[1])
	assert.Len(t, countries, 4)

	years := readCSV(t, paths.GetAggregatePath(YearTypeCountsFile))
	assert.Equal(t, []string{"2017", "Movie", "1"}, years[1])

	stats := readCSV(t, paths.GetAggregatePath(SummaryStatsFile))
	require.Len(t, stats, 3)
	assert.Equal(t, "release_year", stats[1][0])
	assert.Equal(t, "3", stats[1][1])
	assert.Equal(t, "1993.00", stats[1][4])
}

func TestCatalogExporter_RelativeOutputDir(t *testing.T) {
	dir := t.TempDir()
	originalDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(originalDir) })

	paths := config.NewPaths(config.Default())
	require.False(t, filepath.IsAbs(paths.CleanedCSV))
	require.NoError(t, paths.EnsureDirectories())

	logger, handler := testutil.NewTestLogger(t)
	exp := NewCatalogExporter(paths, logger, false)
	require.NoError(t, exp.ExportCleaned(context.Background(), testDataset()))
	require.NoError(t, exp.ExportAggregates(context.Background(), testDataset(), 10, ","))

	assert.FileExists(t, filepath.Join(dir, config.DefaultOutputDir, config.CleanedCSVFile))
	assert.FileExists(t, filepath.Join(dir, config.DefaultOutputDir, config.AggregatesSubdir, TypeCountsFile))
	assert.NoDirExists(t, filepath.Join(dir, config.DefaultOutputDir, config.DefaultOutputDir))

	testutil.AssertLogAttr(t, handler, "path", paths.CleanedCSV)
}

func TestCatalogExporter_ExportAggregatesCanceled(t *testing.T) {
	_, paths := setupTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewCatalogExporter(paths, nil, false).ExportAggregates(ctx, testDataset(), 10, ",")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSummaryRows(t *testing.T) {
	rows := SummaryRows([]dataprocessing.Summary{dataprocessing.Describe("minutes", []float64{90, 125, 167})})

	require.Len(t, rows, 1)
	assert.Len(t, rows[0], len(SummaryHeaders))
	assert.Equal(t, []string{"minutes", "3", "127.33"}, rows[0][:3])
	assert.Equal(t, "90.00", rows[0][4])
	assert.Equal(t, "167.00", rows[0][8])
}

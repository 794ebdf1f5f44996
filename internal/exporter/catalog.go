package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"

	"catalogcli/internal/config"
	"catalogcli/internal/dataprocessing"
	"catalogcli/pkg/contracts/domain"
)

// Aggregate export file names
const (
	TypeCountsFile     = "type_counts.csv"
	YearTypeCountsFile = "year_type_counts.csv"
	TopCountriesFile   = "top_countries.csv"
	TopGenresFile      = "top_genres.csv"
	RatingCountsFile   = "rating_counts.csv"
	SummaryStatsFile   = "summary_statistics.csv"
)

// CatalogExporter writes the cleaned catalog and its aggregate tables as CSV
type CatalogExporter struct {
	csvWriter *CSVWriter
	paths     *config.Paths
	logger    *slog.Logger
	bomPrefix bool
}

// NewCatalogExporter creates a new catalog exporter
func NewCatalogExporter(paths *config.Paths, logger *slog.Logger, bomPrefix bool) *CatalogExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogExporter{
		csvWriter: NewCSVWriter(logger),
		paths:     paths,
		logger:    logger,
		bomPrefix: bomPrefix,
	}
}

// ExportCleaned streams the cleaned records to the cleaned CSV path
func (e *CatalogExporter) ExportCleaned(ctx context.Context, ds *dataprocessing.Dataset) error {
	stream, err := e.csvWriter.CreateStreamWriter(e.paths.CleanedCSV, CleanedHeaders, e.bomPrefix)
	if err != nil {
		return fmt.Errorf("failed to create cleaned export: %w", err)
	}

	for _, t := range ds.Titles() {
		if err := stream.WriteRecord(titleRecord(t)); err != nil {
			stream.Close()
			return fmt.Errorf("failed to write record for line %d: %w", t.Line, err)
		}
	}

	if err := stream.Close(); err != nil {
		return fmt.Errorf("failed to close cleaned export: %w", err)
	}

	e.logger.InfoContext(ctx, "Cleaned catalog exported",
		slog.String("path", e.paths.CleanedCSV),
		slog.Int("records", stream.Rows()))
	return nil
}

// ExportAggregates writes one CSV per aggregate table into the aggregates directory
func (e *CatalogExporter) ExportAggregates(ctx context.Context, ds *dataprocessing.Dataset, topK int, delimiter string) error {
	tables := []struct {
		file    string
		headers []string
		rows    [][]string
	}{
		{TypeCountsFile, []string{"type", "count"}, typeCountRows(ds.TypeCounts())},
		{YearTypeCountsFile, []string{"year_added", "type", "count"}, yearTypeRows(ds.CountByYearAndType())},
		{TopCountriesFile, []string{"country", "count"}, valueCountRows(ds.TopValues(domain.FieldCountry, delimiter, topK))},
		{TopGenresFile, []string{"genre", "count"}, valueCountRows(ds.TopValues(domain.FieldListedIn, delimiter, topK))},
		{RatingCountsFile, []string{"rating", "count"}, valueCountRows(ds.ValueCounts(domain.FieldRating))},
		{SummaryStatsFile, SummaryHeaders, SummaryRows(ds.SummaryStatistics())},
	}

	for _, table := range tables {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.ExportTable(table.file, table.headers, table.rows); err != nil {
			return err
		}
	}

	e.logger.InfoContext(ctx, "Aggregates exported",
		slog.String("dir", e.paths.AggregatesDir),
		slog.Int("tables", len(tables)))
	return nil
}

// ExportTable writes a named table into the aggregates directory
func (e *CatalogExporter) ExportTable(name string, headers []string, rows [][]string) error {
	path := e.paths.GetAggregatePath(filepath.Base(name))
	if err := e.csvWriter.WriteCSV(path, WriteOptions{
		Headers:   headers,
		Records:   rows,
		BOMPrefix: e.bomPrefix,
	}); err != nil {
		return fmt.Errorf("failed to export %s: %w", name, err)
	}
	return nil
}

// SummaryHeaders is the column order of summary statistics tables
var SummaryHeaders = []string{"field", "count", "mean", "std", "min", "25%", "50%", "75%", "max"}

// SummaryRows renders summaries in SummaryHeaders order
func SummaryRows(summaries []dataprocessing.Summary) [][]string {
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.Name,
			formatInt(s.Count),
			formatFloat(s.Mean),
			formatFloat(s.Std),
			formatFloat(s.Min),
			formatFloat(s.Q25),
			formatFloat(s.Q50),
			formatFloat(s.Q75),
			formatFloat(s.Max),
		})
	}
	return rows
}

func typeCountRows(counts []dataprocessing.TypeCount) [][]string {
	rows := make([][]string, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []string{c.Type.Label(), formatInt(c.Count)})
	}
	return rows
}

func yearTypeRows(counts []dataprocessing.YearTypeCount) [][]string {
	rows := make([][]string, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []string{strconv.Itoa(c.Year), c.Type.Label(), formatInt(c.Count)})
	}
	return rows
}

func valueCountRows(counts []dataprocessing.ValueCount) [][]string {
	rows := make([][]string, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []string{c.Value, formatInt(c.Count)})
	}
	return rows
}

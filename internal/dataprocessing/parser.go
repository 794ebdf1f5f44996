package dataprocessing

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"catalogcli/internal/errors"
	"catalogcli/pkg/contracts/domain"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"

	utf8BOM = "\ufeff"
)

// LoadOptions controls how a catalog source is read
type LoadOptions struct {
	// Delimiter separates fields in delimited text sources. Zero means tab
	// for .tsv sources and ',' for everything else.
	Delimiter rune
	// Sheet selects the worksheet of an xlsx source. Empty means the first sheet.
	Sheet string
}

// MissingCount is the number of absent values of one column before cleaning
type MissingCount struct {
	Field domain.Field
	Count int
}

// LoadResult is the outcome of reading a catalog source
type LoadResult struct {
	Titles        []domain.Title
	Columns       []domain.Field
	MissingCounts []MissingCount
	Format        string
	Path          string
}

// Parser reads catalog sources into records
type Parser struct {
	logger *slog.Logger
	opts   LoadOptions
}

// NewParser creates a parser with the given options
func NewParser(logger *slog.Logger, opts LoadOptions) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger, opts: opts}
}

// Load reads every record of the source at path into memory. The format is
// chosen by extension: .xlsx goes through excelize, anything else is
// treated as delimited text.
func (p *Parser) Load(ctx context.Context, path string) (*LoadResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.NewSourceNotFoundError(path, err)
	}
	if info.IsDir() {
		return nil, errors.NewSourceNotFoundError(path, fmt.Errorf("%s is a directory", path))
	}

	var rows [][]string
	format := FormatCSV
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		format = FormatXLSX
		rows, err = p.readXLSX(path)
	} else {
		rows, err = p.readDelimited(path)
	}
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := parseRows(rows)
	if err != nil {
		return nil, err
	}
	result.Format = format
	result.Path = path

	p.logger.InfoContext(ctx, "Catalog loaded",
		slog.String("path", path),
		slog.String("format", format),
		slog.Int("records", len(result.Titles)),
		slog.Int("columns", len(result.Columns)))

	return result, nil
}

// readDelimited reads the whole source before returning so the file is
// closed before any processing starts
func (p *Parser) readDelimited(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewSourceNotFoundError(path, err)
	}
	defer file.Close()

	return readDelimited(file, p.delimiterFor(path))
}

func (p *Parser) delimiterFor(path string) rune {
	if p.opts.Delimiter != 0 {
		return p.opts.Delimiter
	}
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		return '\t'
	}
	return ','
}

func readDelimited(r io.Reader, delimiter rune) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.FieldsPerRecord = 0 // header width

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.NewParseError("malformed delimited data", err)
	}
	return rows, nil
}

func (p *Parser) readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.NewParseError("failed to open workbook", err).WithContext("path", path)
	}
	defer f.Close()

	sheet := p.opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.NewParseError("workbook has no sheets", nil).WithContext("path", path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.NewParseError(fmt.Sprintf("failed to read sheet %q", sheet), err).WithContext("path", path)
	}

	p.logger.Debug("Worksheet read", slog.String("sheet", sheet), slog.Int("rows", len(rows)))

	// excelize trims trailing empty cells, so pad to the header width
	if len(rows) > 0 {
		width := len(rows[0])
		for i := 1; i < len(rows); i++ {
			if len(rows[i]) > width {
				return nil, errors.NewParseError("row wider than header", nil).WithContext("line", i+1)
			}
			for len(rows[i]) < width {
				rows[i] = append(rows[i], "")
			}
		}
	}
	return rows, nil
}

// parseRows validates the header and converts data rows into titles
func parseRows(rows [][]string) (*LoadResult, error) {
	if len(rows) == 0 {
		return nil, errors.NewParseError("source has no header row", nil)
	}

	columns, err := parseHeader(rows[0])
	if err != nil {
		return nil, err
	}

	missing := make(map[domain.Field]int, len(columns))
	titles := make([]domain.Title, 0, len(rows)-1)

	for i, row := range rows[1:] {
		line := i + 2
		if isBlankRow(row) {
			continue
		}
		if len(row) != len(columns) {
			return nil, errors.NewParseError(
				fmt.Sprintf("expected %d fields, got %d", len(columns), len(row)), nil).
				WithContext("line", line)
		}

		title, err := parseRecord(columns, row, line)
		if err != nil {
			return nil, err
		}
		for _, col := range columns {
			if col.IsMissing(title) {
				missing[col]++
			}
		}
		titles = append(titles, title)
	}

	counts := make([]MissingCount, 0, len(columns))
	for _, col := range columns {
		counts = append(counts, MissingCount{Field: col, Count: missing[col]})
	}

	return &LoadResult{
		Titles:        titles,
		Columns:       columns,
		MissingCounts: counts,
	}, nil
}

// parseHeader maps header cells to schema fields
func parseHeader(header []string) ([]domain.Field, error) {
	columns := make([]domain.Field, 0, len(header))
	seen := make(map[domain.Field]bool, len(header))

	for i, cell := range header {
		if i == 0 {
			cell = strings.TrimPrefix(cell, utf8BOM)
		}
		field, err := domain.ParseField(cell)
		if err != nil || field == domain.FieldYearAdded {
			return nil, errors.NewParseError(fmt.Sprintf("unknown column %q", cell), err).
				WithContext("column", i+1)
		}
		if seen[field] {
			return nil, errors.NewParseError(fmt.Sprintf("duplicate column %q", cell), nil).
				WithContext("column", i+1)
		}
		seen[field] = true
		columns = append(columns, field)
	}

	for _, required := range domain.RequiredSourceFields {
		if !seen[required] {
			return nil, errors.NewParseError(fmt.Sprintf("missing required column %q", required), nil)
		}
	}
	return columns, nil
}

func parseRecord(columns []domain.Field, row []string, line int) (domain.Title, error) {
	title := domain.Title{Line: line}

	for i, col := range columns {
		value := row[i]
		switch col {
		case domain.FieldShowID:
			title.ShowID = strings.TrimSpace(value)
		case domain.FieldType:
			t, err := domain.ParseTitleType(value)
			if err != nil {
				return title, errors.NewParseError("invalid type", err).
					WithContext("line", line).
					WithContext("value", value)
			}
			title.Type = t
		case domain.FieldTitle:
			title.Name = strings.TrimSpace(value)
		case domain.FieldDirector:
			title.Director = strings.TrimSpace(value)
		case domain.FieldCast:
			title.Cast = strings.TrimSpace(value)
		case domain.FieldCountry:
			title.Country = strings.TrimSpace(value)
		case domain.FieldDateAdded:
			title.DateAddedText = value
		case domain.FieldReleaseYear:
			year, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return title, errors.NewParseError("release_year is not an integer", err).
					WithContext("line", line).
					WithContext("value", value)
			}
			title.ReleaseYear = year
		case domain.FieldRating:
			title.Rating = strings.TrimSpace(value)
		case domain.FieldDuration:
			title.Duration = strings.TrimSpace(value)
		case domain.FieldListedIn:
			title.ListedIn = strings.TrimSpace(value)
		case domain.FieldDescription:
			title.Description = strings.TrimSpace(value)
		}
	}
	return title, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/xuri/excelize/v2"

	"catalogcli/internal/dataprocessing"
	"catalogcli/internal/errors"
	"catalogcli/pkg/contracts/domain"
)

// IndexSheet lists every chart of the workbook
const IndexSheet = "charts"

// XLSXRenderer writes one worksheet per chart into a workbook. Bar, line
// and pie charts get a native Excel chart next to their data; histograms
// are binned per distinct value and drawn as column charts; box charts
// get their observations and a summary table.
type XLSXRenderer struct {
	path   string
	logger *slog.Logger
}

// NewXLSXRenderer creates a renderer writing the workbook to path
func NewXLSXRenderer(path string, logger *slog.Logger) *XLSXRenderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXRenderer{path: path, logger: logger}
}

func (r *XLSXRenderer) Name() string { return "xlsx" }

// Render builds the workbook and saves it
func (r *XLSXRenderer) Render(ctx context.Context, charts []domain.ChartSpec) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), IndexSheet); err != nil {
		return errors.NewStorageError("failed to name index sheet", err)
	}
	header := []interface{}{"id", "kind", "title", "points"}
	if err := f.SetSheetRow(IndexSheet, "A1", &header); err != nil {
		return errors.NewStorageError("failed to write index header", err)
	}

	for i, chart := range charts {
		if err := ctx.Err(); err != nil {
			return err
		}

		row := []interface{}{chart.ID, string(chart.Kind), chart.Title, chart.PointCount()}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(IndexSheet, cell, &row); err != nil {
			return errors.NewStorageError("failed to write index row", err)
		}

		if err := r.writeChartSheet(f, chart); err != nil {
			return errors.NewStorageError(fmt.Sprintf("failed to render chart %s", chart.ID), err)
		}
	}
	if err := f.SetColWidth(IndexSheet, "C", "C", 45); err != nil {
		return errors.NewStorageError("failed to size index sheet", err)
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return errors.NewStorageError("failed to create directory", err)
	}
	if err := f.SaveAs(r.path); err != nil {
		return errors.NewStorageError("failed to save workbook", err).WithContext("path", r.path)
	}

	r.logger.InfoContext(ctx, "Charts written",
		slog.String("renderer", r.Name()),
		slog.String("path", r.path),
		slog.Int("charts", len(charts)))
	return nil
}

func (r *XLSXRenderer) writeChartSheet(f *excelize.File, chart domain.ChartSpec) error {
	sheet := sheetName(chart.ID)
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	switch chart.Kind {
	case domain.ChartKindBar, domain.ChartKindLine, domain.ChartKindPie:
		rows, cols, err := writeCategoryTable(f, sheet, chart)
		if err != nil {
			return err
		}
		return addNativeChart(f, sheet, chart, chartType(chart.Kind), rows, cols)
	case domain.ChartKindHistogram:
		binned := binObservations(chart)
		rows, cols, err := writeCategoryTable(f, sheet, binned)
		if err != nil {
			return err
		}
		return addNativeChart(f, sheet, binned, excelize.Col, rows, cols)
	case domain.ChartKindBox:
		return writeBoxSheet(f, sheet, chart)
	default:
		return fmt.Errorf("unsupported chart kind %q", chart.Kind)
	}
}

// writeCategoryTable writes labels in column A and one column per series.
// It returns the number of data rows and series columns.
func writeCategoryTable(f *excelize.File, sheet string, chart domain.ChartSpec) (int, int, error) {
	labels := categoryLabels(chart.Series)

	header := []interface{}{axisName(chart.XField, "label")}
	for _, s := range chart.Series {
		header = append(header, s.Name)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return 0, 0, err
	}

	values := make([]map[string]float64, len(chart.Series))
	for i, s := range chart.Series {
		values[i] = make(map[string]float64, len(s.Points))
		for _, p := range s.Points {
			values[i][p.Label] = p.Value
		}
	}

	for i, label := range labels {
		row := []interface{}{label}
		for j := range chart.Series {
			row = append(row, values[j][label])
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return 0, 0, err
		}
	}
	return len(labels), len(chart.Series), nil
}

func addNativeChart(f *excelize.File, sheet string, chart domain.ChartSpec, kind excelize.ChartType, rows, cols int) error {
	if rows == 0 || cols == 0 {
		return nil
	}

	lastRow := rows + 1
	series := make([]excelize.ChartSeries, 0, cols)
	for j := 0; j < cols; j++ {
		col, _ := excelize.ColumnNumberToName(j + 2)
		series = append(series, excelize.ChartSeries{
			Name:       fmt.Sprintf("'%s'!$%s$1", sheet, col),
			Categories: fmt.Sprintf("'%s'!$A$2:$A$%d", sheet, lastRow),
			Values:     fmt.Sprintf("'%s'!$%s$2:$%s$%d", sheet, col, col, lastRow),
		})
	}

	anchor, _ := excelize.CoordinatesToCellName(cols+3, 2)
	return f.AddChart(sheet, anchor, &excelize.Chart{
		Type:      kind,
		Series:    series,
		Title:     []excelize.RichTextRun{{Text: chart.Title}},
		Legend:    excelize.ChartLegend{Position: "bottom"},
		Dimension: excelize.ChartDimension{Width: 640, Height: 360},
	})
}

// writeBoxSheet writes the raw observations in column A and their
// five-number summary next to them
func writeBoxSheet(f *excelize.File, sheet string, chart domain.ChartSpec) error {
	var values []float64
	for _, s := range chart.Series {
		for _, p := range s.Points {
			values = append(values, p.Value)
		}
	}

	header := []interface{}{axisName(chart.YField, "value")}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetCellFloat(sheet, cell, v, -1, 64); err != nil {
			return err
		}
	}

	summary := dataprocessing.Describe(axisName(chart.YField, "value"), values)
	rows := SummaryRows([]dataprocessing.Summary{summary})
	for i, name := range SummaryHeaders {
		row := []interface{}{name, rows[0][i]}
		cell, _ := excelize.CoordinatesToCellName(3, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

// binObservations turns raw observations into a frequency per distinct value
func binObservations(chart domain.ChartSpec) domain.ChartSpec {
	counts := make(map[float64]int)
	for _, s := range chart.Series {
		for _, p := range s.Points {
			counts[p.Value]++
		}
	}

	keys := make([]float64, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Float64s(keys)

	points := make([]domain.ChartPoint, 0, len(keys))
	for _, k := range keys {
		points = append(points, domain.ChartPoint{
			Label: strconv.FormatFloat(k, 'f', -1, 64),
			Value: float64(counts[k]),
		})
	}

	binned := chart
	binned.YField = "count"
	binned.Series = []domain.ChartSeries{{Name: "count", Points: points}}
	return binned
}

// categoryLabels returns the union of point labels in first-seen order,
// sorted numerically when every label is a number
func categoryLabels(series []domain.ChartSeries) []string {
	seen := make(map[string]bool)
	var labels []string
	numeric := true
	for _, s := range series {
		for _, p := range s.Points {
			if seen[p.Label] {
				continue
			}
			seen[p.Label] = true
			labels = append(labels, p.Label)
			if _, err := strconv.ParseFloat(p.Label, 64); err != nil {
				numeric = false
			}
		}
	}
	if numeric {
		sort.SliceStable(labels, func(i, j int) bool {
			a, _ := strconv.ParseFloat(labels[i], 64)
			b, _ := strconv.ParseFloat(labels[j], 64)
			return a < b
		})
	}
	return labels
}

func chartType(kind domain.ChartKind) excelize.ChartType {
	switch kind {
	case domain.ChartKindLine:
		return excelize.Line
	case domain.ChartKindPie:
		return excelize.Pie
	default:
		return excelize.Col
	}
}

func axisName(field, fallback string) string {
	if field == "" {
		return fallback
	}
	return field
}

// sheetName fits an id into Excel's 31 character sheet name limit
func sheetName(id string) string {
	if len(id) > 31 {
		return id[:31]
	}
	return id
}

package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"

	"catalogcli/internal/dataprocessing"
	"catalogcli/pkg/contracts/domain"
)

// maxCellWidth bounds free-text preview cells
const maxCellWidth = 28

// previewFields are the columns shown in the head/tail previews
var previewFields = []domain.Field{
	domain.FieldShowID,
	domain.FieldType,
	domain.FieldTitle,
	domain.FieldCountry,
	domain.FieldDateAdded,
	domain.FieldReleaseYear,
	domain.FieldRating,
	domain.FieldDuration,
	domain.FieldListedIn,
}

// FilterResult is the size of one named subset of the catalog
type FilterResult struct {
	Name  string
	Count int
}

// Input carries everything the console report prints
type Input struct {
	Load           *dataprocessing.LoadResult
	Clean          *dataprocessing.CleanReport
	Dataset        *dataprocessing.Dataset
	Filters        []FilterResult
	TokenDelimiter string
}

// Writer prints textual summaries of a run
type Writer struct {
	out         io.Writer
	previewRows int
	err         error
}

// NewWriter creates a report writer printing previewRows rows at each end
// of the catalog
func NewWriter(out io.Writer, previewRows int) *Writer {
	return &Writer{out: out, previewRows: previewRows}
}

// Write prints the full report. The first write error stops output.
func (w *Writer) Write(in Input) error {
	w.err = nil
	if in.Dataset == nil {
		in.Dataset = dataprocessing.NewDataset(nil)
	}

	if w.previewRows > 0 {
		w.section(fmt.Sprintf("First %d rows", w.previewRows))
		w.preview(in.Dataset.Head(w.previewRows))
		w.section(fmt.Sprintf("Last %d rows", w.previewRows))
		w.preview(in.Dataset.Tail(w.previewRows))
	}

	w.section("Totals")
	w.totals(in.Dataset)

	if in.Load != nil {
		w.section("Columns")
		w.columns(in.Load.Columns)
		w.section("Missing values")
		w.missing(in.Load.MissingCounts)
	}

	if in.Clean != nil {
		w.section("Cleaning")
		w.cleaning(in.Clean)
	}

	w.section("Summary statistics")
	w.summaries(in.Dataset.SummaryStatistics())

	w.section("Countries")
	w.printf("Unique country values:\t%d\n", in.Dataset.UniqueCount(domain.FieldCountry, ""))
	delim := in.TokenDelimiter
	if delim == "" {
		delim = ","
	}
	w.printf("Unique countries:\t%d\n", in.Dataset.UniqueCount(domain.FieldCountry, delim))

	if len(in.Filters) > 0 {
		w.section("Filters")
		w.filters(in.Filters)
	}

	return w.err
}

func (w *Writer) section(title string) {
	w.printf("\n=== %s ===\n", strings.ToUpper(title))
}

func (w *Writer) printf(format string, args ...interface{}) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.out, format, args...)
}

// table writes tab-separated rows through a tabwriter
func (w *Writer) table(header []string, rows [][]string) {
	if w.err != nil {
		return
	}
	tw := tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	w.err = tw.Flush()
}

func (w *Writer) preview(titles []domain.Title) {
	header := make([]string, len(previewFields))
	for i, f := range previewFields {
		header[i] = string(f)
	}

	rows := make([][]string, 0, len(titles))
	for _, t := range titles {
		row := make([]string, len(previewFields))
		for i, f := range previewFields {
			if f == domain.FieldType {
				row[i] = t.Type.Label()
				continue
			}
			row[i] = truncate(f.Value(t))
		}
		rows = append(rows, row)
	}
	w.table(header, rows)
}

func (w *Writer) totals(ds *dataprocessing.Dataset) {
	rows := [][]string{}
	for _, tc := range ds.TypeCounts() {
		rows = append(rows, []string{tc.Type.Label(), strconv.Itoa(tc.Count)})
	}
	rows = append(rows, []string{"Total", strconv.Itoa(ds.Len())})
	w.table([]string{"type", "count"}, rows)
}

func (w *Writer) columns(columns []domain.Field) {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = string(c)
	}
	w.printf("%s\n", strings.Join(names, ", "))
}

func (w *Writer) missing(counts []dataprocessing.MissingCount) {
	rows := make([][]string, 0, len(counts))
	for _, mc := range counts {
		rows = append(rows, []string{string(mc.Field), strconv.Itoa(mc.Count)})
	}
	w.table([]string{"column", "missing"}, rows)
}

func (w *Writer) cleaning(r *dataprocessing.CleanReport) {
	rows := make([][]string, 0, len(r.Steps))
	for _, s := range r.Steps {
		rows = append(rows, []string{
			s.StepID,
			strconv.Itoa(s.In),
			strconv.Itoa(s.Out),
			strconv.Itoa(s.Dropped),
			strconv.Itoa(s.Modified),
		})
	}
	w.table([]string{"step", "in", "out", "dropped", "modified"}, rows)
	w.printf("Retained %d of %d records (%d dropped)\n", r.Retained, r.Input, r.Dropped())
}

func (w *Writer) summaries(summaries []dataprocessing.Summary) {
	header := []string{"statistic"}
	for _, s := range summaries {
		header = append(header, s.Name)
	}

	stats := []struct {
		name  string
		value func(dataprocessing.Summary) string
	}{
		{"count", func(s dataprocessing.Summary) string { return strconv.Itoa(s.Count) }},
		{"mean", func(s dataprocessing.Summary) string { return formatStat(s.Mean) }},
		{"std", func(s dataprocessing.Summary) string { return formatStat(s.Std) }},
		{"min", func(s dataprocessing.Summary) string { return formatStat(s.Min) }},
		{"25%", func(s dataprocessing.Summary) string { return formatStat(s.Q25) }},
		{"50%", func(s dataprocessing.Summary) string { return formatStat(s.Q50) }},
		{"75%", func(s dataprocessing.Summary) string { return formatStat(s.Q75) }},
		{"max", func(s dataprocessing.Summary) string { return formatStat(s.Max) }},
	}

	rows := make([][]string, 0, len(stats))
	for _, st := range stats {
		row := []string{st.name}
		for _, s := range summaries {
			row = append(row, st.value(s))
		}
		rows = append(rows, row)
	}
	w.table(header, rows)
}

func (w *Writer) filters(results []FilterResult) {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{r.Name, strconv.Itoa(r.Count)})
	}
	w.table([]string{"subset", "records"}, rows)
}

// formatStat prints NaN the way pandas does
func formatStat(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= maxCellWidth {
		return s
	}
	return string(r[:maxCellWidth-3]) + "..."
}


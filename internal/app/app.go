package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"catalogcli/internal/config"
	"catalogcli/internal/dataprocessing"
	"catalogcli/internal/exporter"
	"catalogcli/internal/infrastructure"
	"catalogcli/internal/report"
	"catalogcli/internal/validation"
	"catalogcli/pkg/contracts"
	"catalogcli/pkg/contracts/domain"
)

// Options carries the process-level writers of an Application
type Options struct {
	// Stdout receives the console report. Defaults to os.Stdout.
	Stdout io.Writer
	// TraceOut receives spans when the stdout trace exporter is selected
	// and no trace file is configured. Defaults to os.Stderr.
	TraceOut io.Writer
	// Logger overrides the global logger
	Logger *slog.Logger
}

// Application runs the catalog pipeline once
type Application struct {
	Config    *config.Config
	Paths     *config.Paths
	Logger    *slog.Logger
	Telemetry *infrastructure.TelemetryProviders
	Renderers []dataprocessing.Renderer
	Exporter  *exporter.CatalogExporter
	Validator *validation.FileValidator

	stdout io.Writer
}

// RunResult summarizes a completed run
type RunResult struct {
	RunID              string
	Loaded             int
	Clean              dataprocessing.CleanReport
	Types              []dataprocessing.TypeCount
	Filters            []report.FilterResult
	Charts             int
	ExtractionFailures int
	Duration           time.Duration
}

// NamedFilter is an exploratory subset printed by the report
type NamedFilter struct {
	Name      string
	Predicate dataprocessing.Predicate
}

// NewApplication wires the components of a run from cfg
func NewApplication(ctx context.Context, cfg *config.Config, opts Options) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	paths := config.NewPaths(cfg)
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}
	validator := validation.NewFileValidator(infrastructure.WithComponent(logger, "validation"))
	if err := validator.ValidateOutputDirectory(paths.OutputDir); err != nil {
		return nil, err
	}

	telemetry, err := infrastructure.InitializeTelemetry(ctx, cfg.Telemetry, logger, opts.TraceOut)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	a := &Application{
		Config:    cfg,
		Paths:     paths,
		Logger:    logger,
		Telemetry: telemetry,
		Validator: validator,
		stdout:    stdout,
	}

	if cfg.Output.ChartsJSON {
		a.Renderers = append(a.Renderers, exporter.NewJSONRenderer(paths.ChartsJSON, paths.InputFile, logger))
	}
	if cfg.Output.Workbook {
		a.Renderers = append(a.Renderers, exporter.NewXLSXRenderer(paths.Workbook, logger))
	}
	if cfg.Output.ExportCSV {
		a.Exporter = exporter.NewCatalogExporter(paths, logger, cfg.Output.BOMPrefix)
	}

	return a, nil
}

// Run executes load, clean, report, render and export in order.
// Load errors are returned unchanged so callers can classify them.
func (a *Application) Run(ctx context.Context) (result *RunResult, err error) {
	ctx = infrastructure.EnsureRunID(ctx)
	start := time.Now()
	metrics := a.Telemetry.Metrics

	ctx, span := a.Telemetry.Tracer.Start(ctx, "catalog.run",
		trace.WithAttributes(attribute.String("input", a.Paths.InputFile)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		metrics.RecordRun(ctx, time.Since(start), err)
	}()

	a.Logger.InfoContext(ctx, "Catalog run started",
		slog.String("version", contracts.Version),
		slog.String("input", a.Paths.InputFile),
		slog.String("output_dir", a.Paths.OutputDir))

	loaded, err := a.load(ctx)
	if err != nil {
		return nil, err
	}

	cleaner := dataprocessing.NewCleaner(infrastructure.WithComponent(a.Logger, "cleaner")).
		WithTelemetry(a.Telemetry.Tracer, metrics)
	steps := cleaner.Steps()
	stepIDs := make([]string, len(steps))
	for i, s := range steps {
		stepIDs[i] = s.ID()
	}
	a.Logger.DebugContext(ctx, "Cleaning pipeline", slog.Any("steps", stepIDs))

	cleaned, cleanReport, err := cleaner.Clean(ctx, loaded.Titles)
	if err != nil {
		return nil, fmt.Errorf("cleaning failed: %w", err)
	}
	ds := dataprocessing.NewDataset(cleaned)

	filters, err := Filters(a.Config.Query)
	if err != nil {
		return nil, err
	}
	filterResults := make([]report.FilterResult, 0, len(filters))
	for _, f := range filters {
		filterResults = append(filterResults, report.FilterResult{Name: f.Name, Count: ds.Filter(f.Predicate).Len()})
	}

	writer := report.NewWriter(a.stdout, a.Config.Output.PreviewRows)
	if err := writer.Write(report.Input{
		Load:           loaded,
		Clean:          &cleanReport,
		Dataset:        ds,
		Filters:        filterResults,
		TokenDelimiter: a.Config.Query.TokenDelimiter,
	}); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}

	chartSet, err := a.render(ctx, ds)
	if err != nil {
		return nil, err
	}

	if a.Exporter != nil {
		if err := a.Exporter.ExportCleaned(ctx, ds); err != nil {
			return nil, fmt.Errorf("failed to export cleaned catalog: %w", err)
		}
		if err := a.Exporter.ExportAggregates(ctx, ds, a.Config.Query.TopK, a.Config.Query.TokenDelimiter); err != nil {
			return nil, fmt.Errorf("failed to export aggregates: %w", err)
		}
	}

	result = &RunResult{
		RunID:              infrastructure.GetRunID(ctx),
		Loaded:             len(loaded.Titles),
		Clean:              cleanReport,
		Types:              ds.TypeCounts(),
		Filters:            filterResults,
		Charts:             len(chartSet.Charts),
		ExtractionFailures: chartSet.ExtractionFailures,
		Duration:           time.Since(start),
	}

	stats := a.Telemetry.System.Collect(ctx, start)
	a.Logger.LogAttrs(ctx, slog.LevelDebug, "Runtime stats", stats.LogAttrs()...)

	a.Logger.InfoContext(ctx, "Catalog run complete",
		slog.Int("loaded", result.Loaded),
		slog.Int("retained", cleanReport.Retained),
		slog.Int("charts", result.Charts),
		slog.Duration("duration", result.Duration))

	return result, nil
}

func (a *Application) load(ctx context.Context) (*dataprocessing.LoadResult, error) {
	ctx, span := a.Telemetry.Tracer.Start(ctx, "catalog.load")
	defer span.End()

	if err := a.Validator.ValidateSource(a.Paths.InputFile); err != nil {
		return nil, a.loadFailed(ctx, span, err)
	}

	parser := dataprocessing.NewParser(infrastructure.WithComponent(a.Logger, "parser"), dataprocessing.LoadOptions{
		Delimiter: a.Config.Input.DelimiterRune(),
		Sheet:     a.Config.Input.Sheet,
	})
	loaded, err := parser.Load(ctx, a.Paths.InputFile)
	if err != nil {
		return nil, a.loadFailed(ctx, span, err)
	}

	span.SetAttributes(attribute.Int("records", len(loaded.Titles)), attribute.String("format", loaded.Format))
	a.Telemetry.Metrics.RecordLoaded(ctx, len(loaded.Titles), loaded.Format)
	return loaded, nil
}

func (a *Application) loadFailed(ctx context.Context, span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	a.Logger.ErrorContext(ctx, "Failed to load catalog",
		slog.String("path", a.Paths.InputFile),
		slog.String("error", err.Error()))
	return err
}

func (a *Application) render(ctx context.Context, ds *dataprocessing.Dataset) (*dataprocessing.ChartSet, error) {
	ctx, span := a.Telemetry.Tracer.Start(ctx, "catalog.render")
	defer span.End()

	chartSet, err := dataprocessing.BuildCharts(ds, dataprocessing.ChartOptions{
		TopK:           a.Config.Query.TopK,
		TokenDelimiter: a.Config.Query.TokenDelimiter,
		NumericPattern: a.Config.Query.NumericPattern,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build charts: %w", err)
	}

	if chartSet.ExtractionFailures > 0 {
		a.Logger.WarnContext(ctx, "Durations without a number were skipped",
			slog.Int("count", chartSet.ExtractionFailures))
	}
	a.Telemetry.Metrics.RecordExtractionFailures(ctx, string(domain.FieldDuration), chartSet.ExtractionFailures)

	for _, r := range a.Renderers {
		if err := r.Render(ctx, chartSet.Charts); err != nil {
			return nil, fmt.Errorf("renderer %s failed: %w", r.Name(), err)
		}
		a.Telemetry.Metrics.RecordCharts(ctx, r.Name(), len(chartSet.Charts))
	}
	return chartSet, nil
}

// Shutdown writes the metrics textfile and stops telemetry
func (a *Application) Shutdown(ctx context.Context) error {
	var firstErr error
	if a.Config.Telemetry.Metrics {
		if err := a.Telemetry.WriteMetrics(a.Paths.MetricsFile); err != nil {
			firstErr = fmt.Errorf("failed to write metrics: %w", err)
		} else {
			a.Logger.DebugContext(ctx, "Metrics written", slog.String("path", a.Paths.MetricsFile))
		}
	}
	if err := a.Telemetry.Shutdown(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// Filters returns the exploratory subsets configured by q
func Filters(q config.QueryConfig) ([]NamedFilter, error) {
	re, err := regexp.Compile(q.NumericPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid numeric pattern: %w", err)
	}

	movie := dataprocessing.OfType(domain.TitleTypeMovie)
	return []NamedFilter{
		{
			Name:      fmt.Sprintf("Movies in %s", q.Country),
			Predicate: dataprocessing.And(movie, dataprocessing.CountryContains(q.Country)),
		},
		{
			Name:      fmt.Sprintf("Movies released after %d", q.ReleasedAfter),
			Predicate: dataprocessing.And(movie, dataprocessing.ReleasedAfter(q.ReleasedAfter)),
		},
		{
			Name: fmt.Sprintf("TV shows with more than %d seasons", q.MinSeasons),
			Predicate: dataprocessing.And(
				dataprocessing.OfType(domain.TitleTypeTVShow),
				dataprocessing.NumberAbove(domain.FieldDuration, re, q.MinSeasons)),
		},
		{
			Name:      fmt.Sprintf("%s movies", q.Genre),
			Predicate: dataprocessing.And(movie, dataprocessing.GenreContains(q.Genre)),
		},
	}, nil
}

package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"catalogcli/internal/config"
	"catalogcli/pkg/contracts"
)

const (
	ServiceName = "catalog"
	MeterName   = "catalogcli"
)

// TelemetryProviders holds the OpenTelemetry providers of a run
type TelemetryProviders struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Registry       *prometheus.Registry
	Tracer         trace.Tracer
	Meter          metric.Meter
	Metrics        *PipelineMetrics
	System         *SystemMetrics
	Logger         *slog.Logger

	traceFile *os.File
}

// InitializeTelemetry sets up tracing and metrics. traceOut receives spans
// when the stdout exporter is selected and no trace file is configured.
func InitializeTelemetry(ctx context.Context, cfg config.TelemetryConfig, logger *slog.Logger, traceOut io.Writer) (*TelemetryProviders, error) {
	if logger == nil {
		logger = GetLogger()
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(contracts.Version),
	)

	providers := &TelemetryProviders{
		Logger: logger,
		Tracer: tracenoop.NewTracerProvider().Tracer(MeterName),
		Meter:  metricnoop.NewMeterProvider().Meter(MeterName),
	}

	if err := providers.initializeTracing(ctx, cfg, res, traceOut); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	if cfg.Metrics {
		if err := providers.initializeMetrics(ctx, res); err != nil {
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}
	}

	metrics, err := NewPipelineMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}
	providers.Metrics = metrics

	system, err := NewSystemMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create system metrics: %w", err)
	}
	providers.System = system

	logger.DebugContext(ctx, "Telemetry initialized",
		slog.String("trace_exporter", cfg.TraceExporter),
		slog.Bool("metrics_enabled", cfg.Metrics))

	return providers, nil
}

// initializeTracing sets up OpenTelemetry tracing
func (p *TelemetryProviders) initializeTracing(ctx context.Context, cfg config.TelemetryConfig, res *resource.Resource, traceOut io.Writer) error {
	switch cfg.TraceExporter {
	case "", "none":
		return nil
	case "stdout":
	default:
		return fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}

	if cfg.TraceFile != "" {
		file, err := openLogFile(cfg.TraceFile)
		if err != nil {
			return err
		}
		p.traceFile = file
		traceOut = file
	}
	if traceOut == nil {
		traceOut = os.Stderr
	}

	exporter, err := stdouttrace.New(
		stdouttrace.WithWriter(traceOut),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.SampleRatio)),
	)

	p.TracerProvider = tp
	p.Tracer = tp.Tracer(MeterName, trace.WithInstrumentationVersion(contracts.Version))
	otel.SetTracerProvider(tp)

	p.Logger.DebugContext(ctx, "Tracing initialized",
		slog.String("exporter", cfg.TraceExporter),
		slog.Float64("sample_ratio", cfg.SampleRatio))

	return nil
}

// initializeMetrics registers the OpenTelemetry Prometheus exporter on a
// private registry so a run can dump its metrics without a global scrape endpoint
func (p *TelemetryProviders) initializeMetrics(ctx context.Context, res *resource.Resource) error {
	registry := prometheus.NewRegistry()

	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)

	p.Registry = registry
	p.MeterProvider = mp
	p.Meter = mp.Meter(MeterName, metric.WithInstrumentationVersion(contracts.Version))
	otel.SetMeterProvider(mp)

	p.Logger.DebugContext(ctx, "Metrics initialized", slog.String("exporter", "prometheus"))
	return nil
}

// WriteMetrics writes the collected metrics in the Prometheus text format,
// suitable for the node_exporter textfile collector
func (p *TelemetryProviders) WriteMetrics(path string) error {
	if p == nil || p.Registry == nil {
		return nil
	}
	if err := os.MkdirAll(dirOf(path), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	return prometheus.WriteToTextfile(path, p.Registry)
}

// Shutdown flushes and stops the providers
func (p *TelemetryProviders) Shutdown(ctx context.Context) error {
	if p == nil {
		return nil
	}

	var firstErr error
	if p.TracerProvider != nil {
		if err := p.TracerProvider.Shutdown(ctx); err != nil {
			firstErr = fmt.Errorf("tracer provider shutdown: %w", err)
		}
	}
	if p.MeterProvider != nil {
		if err := p.MeterProvider.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("meter provider shutdown: %w", err)
		}
	}
	if p.traceFile != nil {
		if err := p.traceFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		p.traceFile = nil
	}
	return firstErr
}

// PipelineMetrics holds the instruments recorded by a catalog run.
// A nil *PipelineMetrics records nothing.
type PipelineMetrics struct {
	RecordsLoaded      metric.Int64Counter
	RecordsDropped     metric.Int64Counter
	RecordsRetained    metric.Int64Counter
	ExtractionFailures metric.Int64Counter
	ChartsRendered     metric.Int64Counter
	StepDuration       metric.Float64Histogram
	RunDuration        metric.Float64Histogram
}

// NewPipelineMetrics creates the pipeline instruments on meter
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	loaded, err := meter.Int64Counter(
		"catalog_records_loaded_total",
		metric.WithDescription("Total number of records read from the source"),
	)
	if err != nil {
		return nil, err
	}

	dropped, err := meter.Int64Counter(
		"catalog_records_dropped_total",
		metric.WithDescription("Total number of records dropped by cleaning steps"),
	)
	if err != nil {
		return nil, err
	}

	retained, err := meter.Int64Counter(
		"catalog_records_retained_total",
		metric.WithDescription("Total number of records in the cleaned set"),
	)
	if err != nil {
		return nil, err
	}

	extraction, err := meter.Int64Counter(
		"catalog_extraction_failures_total",
		metric.WithDescription("Total number of records excluded from numeric comparisons"),
	)
	if err != nil {
		return nil, err
	}

	charts, err := meter.Int64Counter(
		"catalog_charts_rendered_total",
		metric.WithDescription("Total number of chart specifications rendered"),
	)
	if err != nil {
		return nil, err
	}

	stepDuration, err := meter.Float64Histogram(
		"catalog_step_duration_seconds",
		metric.WithDescription("Cleaning step duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	runDuration, err := meter.Float64Histogram(
		"catalog_run_duration_seconds",
		metric.WithDescription("Whole run duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		RecordsLoaded:      loaded,
		RecordsDropped:     dropped,
		RecordsRetained:    retained,
		ExtractionFailures: extraction,
		ChartsRendered:     charts,
		StepDuration:       stepDuration,
		RunDuration:        runDuration,
	}, nil
}

// RecordLoaded records the number of source records
func (m *PipelineMetrics) RecordLoaded(ctx context.Context, n int, format string) {
	if m == nil {
		return
	}
	m.RecordsLoaded.Add(ctx, int64(n), metric.WithAttributes(attribute.String("format", format)))
}

// RecordStep records the outcome of one cleaning step
func (m *PipelineMetrics) RecordStep(ctx context.Context, stepID string, dropped int, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("step", stepID))
	if dropped > 0 {
		m.RecordsDropped.Add(ctx, int64(dropped), attrs)
	}
	m.StepDuration.Record(ctx, elapsed.Seconds(), attrs)
}

// RecordRetained records the size of the cleaned set
func (m *PipelineMetrics) RecordRetained(ctx context.Context, n int) {
	if m == nil {
		return
	}
	m.RecordsRetained.Add(ctx, int64(n))
}

// RecordExtractionFailures records records skipped by numeric extraction
func (m *PipelineMetrics) RecordExtractionFailures(ctx context.Context, field string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.ExtractionFailures.Add(ctx, int64(n), metric.WithAttributes(attribute.String("field", field)))
}

// RecordCharts records charts handed to a renderer
func (m *PipelineMetrics) RecordCharts(ctx context.Context, renderer string, n int) {
	if m == nil {
		return
	}
	m.ChartsRendered.Add(ctx, int64(n), metric.WithAttributes(attribute.String("renderer", renderer)))
}

// RecordRun records the total run duration and its outcome
func (m *PipelineMetrics) RecordRun(ctx context.Context, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.RunDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(attribute.String("status", status)))
}

package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"catalogcli/internal/infrastructure"
	"catalogcli/pkg/contracts/domain"
)

// Step IDs of the default cleaning pipeline, in execution order
const (
	StepReplaceMissing = "replace-missing"
	StepDropMissing    = "drop-missing"
	StepParseDate      = "parse-date"
	StepDeriveYear     = "derive-year"

	// UnknownCountry replaces an absent country
	UnknownCountry = "Unknown"
)

// MandatoryFields must all be present for a record to survive cleaning.
// Country is deliberately absent: a missing country is replaced, not dropped.
var MandatoryFields = []domain.Field{
	domain.FieldDateAdded,
	domain.FieldRating,
	domain.FieldDuration,
}

// DateLayouts are tried in order when parsing date_added
var DateLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"2006-01-02",
	"2-Jan-06",
	"01/02/2006",
	time.RFC3339,
}

// StepResult reports what a single cleaning step did
type StepResult struct {
	StepID   string        `json:"step_id"`
	Name     string        `json:"name"`
	In       int           `json:"in"`
	Out      int           `json:"out"`
	Dropped  int           `json:"dropped"`
	Modified int           `json:"modified"`
	Duration time.Duration `json:"duration"`
}

// CleanReport summarizes a cleaning run
type CleanReport struct {
	Input    int          `json:"input"`
	Retained int          `json:"retained"`
	Steps    []StepResult `json:"steps"`
}

// Dropped returns the total number of records removed by all steps
func (r CleanReport) Dropped() int {
	return r.Input - r.Retained
}

// Step is one transformation of the cleaning pipeline. Apply must not
// modify its input slice.
type Step interface {
	ID() string
	Name() string
	Apply(ctx context.Context, titles []domain.Title) ([]domain.Title, StepResult, error)
}

// DefaultSteps returns the cleaning pipeline in its required order
func DefaultSteps() []Step {
	return []Step{
		NewReplaceMissingStep(domain.FieldCountry, UnknownCountry),
		NewDropMissingStep(MandatoryFields...),
		NewParseDateStep(DateLayouts...),
		NewDeriveYearStep(),
	}
}

// ReplaceMissingStep fills an absent text field with a fixed value
type ReplaceMissingStep struct {
	field domain.Field
	value string
}

// NewReplaceMissingStep creates a step that replaces absent values of field
func NewReplaceMissingStep(field domain.Field, value string) *ReplaceMissingStep {
	return &ReplaceMissingStep{field: field, value: value}
}

func (s *ReplaceMissingStep) ID() string { return StepReplaceMissing }

func (s *ReplaceMissingStep) Name() string {
	return fmt.Sprintf("Replace missing %s with %q", s.field, s.value)
}

func (s *ReplaceMissingStep) Apply(ctx context.Context, titles []domain.Title) ([]domain.Title, StepResult, error) {
	out := make([]domain.Title, 0, len(titles))
	modified := 0
	for _, t := range titles {
		if s.field.IsMissing(t) {
			if !setText(&t, s.field, s.value) {
				return nil, StepResult{}, fmt.Errorf("field %s cannot be replaced", s.field)
			}
			modified++
		}
		out = append(out, t)
	}
	return out, newStepResult(s, len(titles), len(out), modified), nil
}

// DropMissingStep removes records missing any of a declared set of fields
type DropMissingStep struct {
	fields []domain.Field
}

// NewDropMissingStep creates a step that treats fields as jointly mandatory
func NewDropMissingStep(fields ...domain.Field) *DropMissingStep {
	return &DropMissingStep{fields: fields}
}

func (s *DropMissingStep) ID() string { return StepDropMissing }

func (s *DropMissingStep) Name() string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = string(f)
	}
	return "Drop records missing any of " + strings.Join(names, ", ")
}

func (s *DropMissingStep) Apply(ctx context.Context, titles []domain.Title) ([]domain.Title, StepResult, error) {
	out := make([]domain.Title, 0, len(titles))
	for _, t := range titles {
		if s.missingAny(t) {
			continue
		}
		out = append(out, t)
	}
	return out, newStepResult(s, len(titles), len(out), 0), nil
}

func (s *DropMissingStep) missingAny(t domain.Title) bool {
	for _, f := range s.fields {
		if f.IsMissing(t) {
			return true
		}
	}
	return false
}

// ParseDateStep parses date_added; records with an unparseable value are dropped
type ParseDateStep struct {
	layouts []string
}

// NewParseDateStep creates a date parsing step trying layouts in order
func NewParseDateStep(layouts ...string) *ParseDateStep {
	return &ParseDateStep{layouts: layouts}
}

func (s *ParseDateStep) ID() string { return StepParseDate }

func (s *ParseDateStep) Name() string { return "Parse date_added" }

func (s *ParseDateStep) Apply(ctx context.Context, titles []domain.Title) ([]domain.Title, StepResult, error) {
	out := make([]domain.Title, 0, len(titles))
	modified := 0
	for _, t := range titles {
		parsed, ok := ParseDate(t.DateAddedText, s.layouts...)
		if !ok {
			continue
		}
		if !t.DateAdded.Equal(parsed) {
			t.DateAdded = parsed
			modified++
		}
		out = append(out, t)
	}
	return out, newStepResult(s, len(titles), len(out), modified), nil
}

// DeriveYearStep sets year_added from date_added
type DeriveYearStep struct{}

// NewDeriveYearStep creates the year derivation step
func NewDeriveYearStep() *DeriveYearStep {
	return &DeriveYearStep{}
}

func (s *DeriveYearStep) ID() string { return StepDeriveYear }

func (s *DeriveYearStep) Name() string { return "Derive year_added" }

// Apply drops records without a parsed date since no year can be derived
func (s *DeriveYearStep) Apply(ctx context.Context, titles []domain.Title) ([]domain.Title, StepResult, error) {
	out := make([]domain.Title, 0, len(titles))
	modified := 0
	for _, t := range titles {
		if t.DateAdded.IsZero() {
			continue
		}
		if year := t.DateAdded.Year(); t.YearAdded != year {
			t.YearAdded = year
			modified++
		}
		out = append(out, t)
	}
	return out, newStepResult(s, len(titles), len(out), modified), nil
}

// ParseDate parses trimmed text with the first matching layout.
// With no layouts, DateLayouts is used.
func ParseDate(text string, layouts ...string) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}
	if len(layouts) == 0 {
		layouts = DateLayouts
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, text); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

func newStepResult(s Step, in, out, modified int) StepResult {
	return StepResult{
		StepID:   s.ID(),
		Name:     s.Name(),
		In:       in,
		Out:      out,
		Dropped:  in - out,
		Modified: modified,
	}
}

// setText assigns value to a text field of t
func setText(t *domain.Title, field domain.Field, value string) bool {
	switch field {
	case domain.FieldShowID:
		t.ShowID = value
	case domain.FieldTitle:
		t.Name = value
	case domain.FieldDirector:
		t.Director = value
	case domain.FieldCast:
		t.Cast = value
	case domain.FieldCountry:
		t.Country = value
	case domain.FieldRating:
		t.Rating = value
	case domain.FieldDuration:
		t.Duration = value
	case domain.FieldListedIn:
		t.ListedIn = value
	case domain.FieldDescription:
		t.Description = value
	default:
		return false
	}
	return true
}

// Cleaner runs an ordered list of steps over the loaded records
type Cleaner struct {
	logger  *slog.Logger
	steps   []Step
	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
}

// NewCleaner creates a cleaner. Without steps, DefaultSteps is used.
func NewCleaner(logger *slog.Logger, steps ...Step) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	if len(steps) == 0 {
		steps = DefaultSteps()
	}
	return &Cleaner{
		logger: logger,
		steps:  steps,
		tracer: otel.Tracer(infrastructure.MeterName),
	}
}

// WithTelemetry makes the cleaner trace each step and record step metrics
func (c *Cleaner) WithTelemetry(tracer trace.Tracer, metrics *infrastructure.PipelineMetrics) *Cleaner {
	if tracer != nil {
		c.tracer = tracer
	}
	c.metrics = metrics
	return c
}

// Steps returns the configured steps in execution order
func (c *Cleaner) Steps() []Step {
	return append([]Step(nil), c.steps...)
}

// Clean applies every step in order and returns the cleaned records.
// The input slice is left untouched.
func (c *Cleaner) Clean(ctx context.Context, titles []domain.Title) ([]domain.Title, CleanReport, error) {
	report := CleanReport{Input: len(titles), Steps: make([]StepResult, 0, len(c.steps))}
	current := titles

	for _, step := range c.steps {
		if err := ctx.Err(); err != nil {
			return nil, report, err
		}

		stepCtx, span := c.tracer.Start(ctx, "clean."+step.ID(),
			trace.WithAttributes(attribute.Int("records.in", len(current))))

		start := time.Now()
		next, result, err := step.Apply(stepCtx, current)
		result.Duration = time.Since(start)

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			span.End()
			return nil, report, fmt.Errorf("step %s failed: %w", step.ID(), err)
		}

		span.SetAttributes(
			attribute.Int("records.out", result.Out),
			attribute.Int("records.dropped", result.Dropped),
			attribute.Int("records.modified", result.Modified))
		span.End()

		c.metrics.RecordStep(ctx, result.StepID, result.Dropped, result.Duration)
		c.logger.DebugContext(ctx, "Cleaning step complete",
			slog.String("step", result.StepID),
			slog.Int("in", result.In),
			slog.Int("out", result.Out),
			slog.Int("dropped", result.Dropped),
			slog.Int("modified", result.Modified))

		report.Steps = append(report.Steps, result)
		current = next
	}

	if current == nil {
		current = []domain.Title{}
	}
	report.Retained = len(current)
	c.metrics.RecordRetained(ctx, report.Retained)

	c.logger.InfoContext(ctx, "Catalog cleaned",
		slog.Int("input", report.Input),
		slog.Int("retained", report.Retained),
		slog.Int("dropped", report.Dropped()))

	return current, report, nil
}

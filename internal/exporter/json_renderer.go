package exporter

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"catalogcli/internal/errors"
	"catalogcli/pkg/contracts"
	"catalogcli/pkg/contracts/domain"
)

// ChartDocument is the JSON file written by JSONRenderer
type ChartDocument struct {
	FormatVersion string             `json:"format_version"`
	GeneratedAt   time.Time          `json:"generated_at"`
	Source        string             `json:"source,omitempty"`
	Charts        []domain.ChartSpec `json:"charts"`
}

// JSONRenderer writes chart specifications to a JSON file for external tools
type JSONRenderer struct {
	path   string
	source string
	logger *slog.Logger
	now    func() time.Time
}

// NewJSONRenderer creates a renderer writing to path. source names the
// catalog the charts were built from.
func NewJSONRenderer(path, source string, logger *slog.Logger) *JSONRenderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &JSONRenderer{path: path, source: source, logger: logger, now: time.Now}
}

func (r *JSONRenderer) Name() string { return "json" }

// Render writes all charts as one document
func (r *JSONRenderer) Render(ctx context.Context, charts []domain.ChartSpec) error {
	if charts == nil {
		charts = []domain.ChartSpec{}
	}
	doc := ChartDocument{
		FormatVersion: contracts.DataFormatVersion,
		GeneratedAt:   r.now().UTC(),
		Source:        r.source,
		Charts:        charts,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.NewStorageError("failed to marshal charts", err)
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return errors.NewStorageError("failed to create directory", err)
	}
	if err := os.WriteFile(r.path, data, 0644); err != nil {
		return errors.NewStorageError("failed to write charts", err).WithContext("path", r.path)
	}

	r.logger.InfoContext(ctx, "Charts written",
		slog.String("renderer", r.Name()),
		slog.String("path", r.path),
		slog.Int("charts", len(charts)))
	return nil
}

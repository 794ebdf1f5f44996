package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains every file a run reads or writes.
// This is the single source of truth for file locations; it is derived
// from Config rather than from process-global state.
type Paths struct {
	InputFile     string
	OutputDir     string
	AggregatesDir string
	ChartsJSON    string
	Workbook      string
	CleanedCSV    string
	MetricsFile   string
	LogFile       string
}

// NewPaths resolves the run's file locations from cfg
func NewPaths(cfg *Config) *Paths {
	p := &Paths{
		InputFile: cfg.Input.Path,
		OutputDir: cfg.Output.Dir,
		LogFile:   cfg.Logging.FilePath,
	}
	p.AggregatesDir = p.GetOutputPath(AggregatesSubdir)
	p.ChartsJSON = p.GetOutputPath(ChartsJSONFile)
	p.Workbook = p.GetOutputPath(WorkbookFile)
	p.CleanedCSV = p.GetOutputPath(CleanedCSVFile)

	p.MetricsFile = cfg.Telemetry.MetricsFile
	if p.MetricsFile == "" {
		p.MetricsFile = p.GetOutputPath(MetricsFile)
	}
	return p
}

// EnsureDirectories creates the output directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.OutputDir,
		p.AggregatesDir,
	}

	logger := slog.Default()

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		logger.Debug("Ensured directory exists", slog.String("directory", dir))
	}

	return nil
}

// GetAggregatePath returns the location of a named aggregate export
func (p *Paths) GetAggregatePath(filename string) string {
	return filepath.Join(p.AggregatesDir, filename)
}

// GetOutputPath resolves a file name inside the output directory.
// Absolute paths are returned unchanged.
func (p *Paths) GetOutputPath(filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(p.OutputDir, filename)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

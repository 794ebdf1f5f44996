package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"catalogcli/internal/errors"
)

// SupportedExtensions lists the catalog source formats the parser reads
var SupportedExtensions = []string{".csv", ".tsv", ".txt", ".xlsx"}

// FileValidator checks the files a run reads and the directories it writes
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateSource checks that path is a readable, non-empty catalog source
// in a supported format. A missing path or a directory is a
// SourceNotFoundError; an unsupported extension is a ValidationError.
func (v *FileValidator) ValidateSource(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		v.logger.Error("Source does not exist",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return errors.NewSourceNotFoundError(path, err)
	}
	if info.IsDir() {
		v.logger.Error("Source is a directory, not a file",
			slog.String("path", path))
		return errors.NewSourceNotFoundError(path, fmt.Errorf("%s is a directory", path))
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !isSupported(ext) {
		v.logger.Error("Unsupported source format",
			slog.String("file", path),
			slog.String("extension", ext))
		return errors.NewValidationError(fmt.Sprintf("unsupported source format %q", ext), nil).
			WithContext("path", path)
	}

	// Excel keeps a lock file next to open workbooks
	if strings.HasPrefix(filepath.Base(path), "~$") {
		v.logger.Warn("Source is a temporary Excel file",
			slog.String("file", path))
		return errors.NewValidationError(fmt.Sprintf("%s is a temporary Excel file", path), nil)
	}

	if info.Size() == 0 {
		return errors.NewParseError("source is empty", nil).WithContext("path", path)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("Source is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return errors.NewParseError(fmt.Sprintf("source %s is not readable", path), err)
	}
	file.Close()

	v.logger.Debug("Source validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return errors.NewStorageError(fmt.Sprintf("failed to create output directory %s", dir), err)
	}

	// Verify it's writable by creating a probe file
	probe := filepath.Join(dir, ".write_test")
	file, err := os.Create(probe)
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return errors.NewStorageError(fmt.Sprintf("output directory %s is not writable", dir), err)
	}
	file.Close()
	os.Remove(probe)

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}

func isSupported(ext string) bool {
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

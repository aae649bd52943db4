// Package validation checks the directories and paths the command line reads
// from and writes to before any work starts.
package validation

import (
	"log/slog"
	"os"
	"path/filepath"

	apperrors "osccli/internal/errors"
)

// FileValidator checks input directories and output paths
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

// CheckDataDir reports whether dir is an existing directory. A missing or
// unreadable directory is logged as a warning and never fails the run; it
// simply yields no source files.
func (v *FileValidator) CheckDataDir(dir string) bool {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		v.logger.Warn("Data directory does not exist",
			slog.String("directory", dir))
		return false
	}
	if err != nil {
		v.logger.Warn("Failed to stat data directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return false
	}
	if !info.IsDir() {
		v.logger.Warn("Data path is not a directory",
			slog.String("path", dir))
		return false
	}
	return true
}

// ValidateOutputPath makes sure path can be written as a file: its parent
// directory is created when missing and path must not name a directory.
func (v *FileValidator) ValidateOutputPath(path string) error {
	if path == "" {
		return apperrors.NewValidationError("output path is empty", nil)
	}

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return apperrors.NewValidationError("output path is a directory", nil).
			WithContext("path", path)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError("failed to create output directory", err).
			WithContext("directory", dir)
	}
	return nil
}

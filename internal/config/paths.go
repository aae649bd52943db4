package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths holds the resolved, absolute locations the application reads from
// and writes to
type Paths struct {
	DataDir   string
	ExportDir string
	LogFile   string
}

// ResolvePaths makes the configured locations absolute. Relative paths are
// taken relative to the working directory.
func ResolvePaths(cfg *Config) (*Paths, error) {
	dataDir, err := filepath.Abs(cfg.Data.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data dir: %w", err)
	}
	exportDir, err := filepath.Abs(cfg.Export.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve export dir: %w", err)
	}
	logFile, err := filepath.Abs(cfg.Logging.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve log file: %w", err)
	}

	return &Paths{
		DataDir:   dataDir,
		ExportDir: exportDir,
		LogFile:   logFile,
	}, nil
}

// EnsureExportDir creates the export directory if it does not exist
func (p *Paths) EnsureExportDir() error {
	if err := os.MkdirAll(p.ExportDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", p.ExportDir, err)
	}
	slog.Default().Debug("Ensured directory exists", slog.String("directory", p.ExportDir))
	return nil
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// LogPathResolution logs the resolved locations at debug level
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	logger.Debug("Path resolution",
		slog.String("data_dir", p.DataDir),
		slog.String("export_dir", p.ExportDir),
		slog.String("log_file", p.LogFile))
}

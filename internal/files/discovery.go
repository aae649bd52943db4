package files

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"osccli/pkg/contracts/domain"
)

// Discovery finds oscillation source files in a directory
type Discovery struct {
	patterns []string
	logger   *slog.Logger
}

// NewDiscovery creates a new file discovery instance matching the given
// glob patterns case-insensitively
func NewDiscovery(patterns []string, logger *slog.Logger) *Discovery {
	if logger == nil {
		logger = slog.Default()
	}
	lowered := make([]string, 0, len(patterns))
	for _, p := range patterns {
		lowered = append(lowered, strings.ToLower(p))
	}
	return &Discovery{patterns: lowered, logger: logger}
}

// FindSourceFiles returns every regular file in dir whose name matches at
// least one pattern, deduplicated and sorted by path. It never fails: an
// unreadable directory yields an empty result.
func (d *Discovery) FindSourceFiles(dir string) []domain.SourceFile {
	entries, err := os.ReadDir(dir)
	if err != nil {
		d.logger.Warn("Failed to read source directory",
			slog.String("dir", dir),
			slog.String("error", err.Error()))
		return nil
	}

	// Each entry is visited once, so a name matching several patterns is
	// listed once.
	var files []domain.SourceFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if !d.matches(name) {
			continue
		}

		file := domain.NewSourceFile(filepath.Join(dir, name))
		// Stat follows symlinks, so a link to a data file is accepted.
		if info, err := os.Stat(file.Path); err == nil {
			if info.IsDir() {
				continue
			}
			file.Size = info.Size()
			file.ModTime = info.ModTime()
		}
		files = append(files, file)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})

	d.logger.Debug("Source files discovered",
		slog.String("dir", dir),
		slog.Int("count", len(files)))

	return files
}

// matches reports whether name matches any pattern, ignoring case
func (d *Discovery) matches(name string) bool {
	lower := strings.ToLower(name)
	for _, pattern := range d.patterns {
		ok, err := filepath.Match(pattern, lower)
		if err != nil {
			d.logger.Warn("Invalid file pattern",
				slog.String("pattern", pattern),
				slog.String("error", err.Error()))
			continue
		}
		if ok {
			return true
		}
	}
	return false
}

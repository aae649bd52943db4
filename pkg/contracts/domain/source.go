package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// Format identifies the container a source file is stored in
type Format string

const (
	FormatDelimited         Format = "delimited"          // .csv
	FormatSpreadsheet       Format = "spreadsheet"        // .xlsx
	FormatLegacySpreadsheet Format = "legacy_spreadsheet" // .xls
	FormatUnknown           Format = "unknown"
)

// FormatFromPath infers the format from the file extension, case-insensitively.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatDelimited
	case ".xlsx":
		return FormatSpreadsheet
	case ".xls":
		return FormatLegacySpreadsheet
	default:
		return FormatUnknown
	}
}

// SourceFile is a discovered input file. Identity is Path.
type SourceFile struct {
	Path    string    `json:"path"`
	Name    string    `json:"name"`
	Format  Format    `json:"format"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// NewSourceFile builds a SourceFile for path with the format inferred from its extension.
func NewSourceFile(path string) SourceFile {
	return SourceFile{
		Path:   path,
		Name:   filepath.Base(path),
		Format: FormatFromPath(path),
	}
}

// Tag returns the identifier attached to every record loaded from the file:
// the base name with its extension stripped.
func (s SourceFile) Tag() string {
	name := s.Name
	if name == "" {
		name = filepath.Base(s.Path)
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}

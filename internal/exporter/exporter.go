package exporter

import (
	"fmt"
	"log/slog"
	"strings"

	apperrors "osccli/internal/errors"
	"osccli/pkg/contracts/domain"
)

// Format is an export file format, named by its extension
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts a format name case-insensitively
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", apperrors.NewValidationError(fmt.Sprintf("unknown export format %q", s), nil)
	}
}

// Writer writes a view of reconstructed records to a file
type Writer interface {
	Format() Format
	WriteRecords(filePath string, records []domain.ReconstructedRecord, extraColumns []string, opts WriteOptions) error
}

// NewWriter returns the writer for format
func NewWriter(format Format, logger *slog.Logger) (Writer, error) {
	switch format {
	case FormatCSV:
		return NewCSVWriter(logger), nil
	case FormatXLSX:
		return NewXLSXWriter(logger), nil
	default:
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown export format %q", format), nil)
	}
}

// DefaultFileName names the export of one source: <tag>_reconstructed.<ext>
func DefaultFileName(tag string, format Format) string {
	return fmt.Sprintf("%s_reconstructed.%s", tag, format)
}

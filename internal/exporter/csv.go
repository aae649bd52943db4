package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"osccli/pkg/contracts/domain"
)

// utf8BOM helps spreadsheet applications detect UTF-8
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteOptions configures how a view is written
type WriteOptions struct {
	BOMPrefix bool   // prefix CSV output with a UTF-8 BOM
	SheetName string // XLSX worksheet name; empty keeps the default
}

// CSVWriter writes views as comma-separated text
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger}
}

// Format returns the file extension this writer produces
func (w *CSVWriter) Format() Format {
	return FormatCSV
}

// WriteRecords writes records to filePath, replacing any existing file
func (w *CSVWriter) WriteRecords(filePath string, records []domain.ReconstructedRecord, extraColumns []string, opts WriteOptions) error {
	stream, err := w.CreateStreamWriter(filePath, Headers(extraColumns), opts.BOMPrefix)
	if err != nil {
		return err
	}

	for i, rec := range records {
		if err := stream.WriteRecord(recordToRow(rec, extraColumns)); err != nil {
			stream.Close()
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	if err := stream.Close(); err != nil {
		return fmt.Errorf("failed to finish %s: %w", filePath, err)
	}

	w.logger.Info("CSV export written",
		slog.String("path", filePath),
		slog.Int("record_count", len(records)))
	return nil
}

// StreamWriter writes CSV rows one at a time
type StreamWriter struct {
	file   *os.File
	writer *csv.Writer
}

// CreateStreamWriter creates filePath, its directory if needed, and writes
// the optional BOM and the header row
func (w *CSVWriter) CreateStreamWriter(filePath string, headers []string, bom bool) (*StreamWriter, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	if bom {
		if _, err := file.Write(utf8BOM); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	if len(headers) > 0 {
		if err := writer.Write(headers); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to write headers: %w", err)
		}
	}

	return &StreamWriter{file: file, writer: writer}, nil
}

// WriteRecord writes a single row to the stream
func (s *StreamWriter) WriteRecord(record []string) error {
	return s.writer.Write(record)
}

// Close flushes and closes the stream writer
func (s *StreamWriter) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}

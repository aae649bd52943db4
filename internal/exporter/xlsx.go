package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"osccli/pkg/contracts/domain"
)

// XLSXWriter writes views as Office Open XML workbooks
type XLSXWriter struct {
	logger *slog.Logger
}

// NewXLSXWriter creates a new XLSX writer instance
func NewXLSXWriter(logger *slog.Logger) *XLSXWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXWriter{logger: logger}
}

// Format returns the file extension this writer produces
func (w *XLSXWriter) Format() Format {
	return FormatXLSX
}

// WriteRecords writes records to the first worksheet of a new workbook.
// Frequency and magnitude are numeric cells; a missing magnitude is an
// empty cell. Timestamps are text so nanoseconds survive.
func (w *XLSXWriter) WriteRecords(filePath string, records []domain.ReconstructedRecord, extraColumns []string, opts WriteOptions) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if opts.SheetName != "" && opts.SheetName != sheet {
		if err := f.SetSheetName(sheet, opts.SheetName); err != nil {
			return fmt.Errorf("failed to rename sheet: %w", err)
		}
		sheet = opts.SheetName
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}

	headers := Headers(extraColumns)
	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, recordToCells(rec, extraColumns)); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush stream writer: %w", err)
	}
	if err := f.SaveAs(filePath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	w.logger.Info("XLSX export written",
		slog.String("path", filePath),
		slog.String("sheet", sheet),
		slog.Int("record_count", len(records)))
	return nil
}

// recordToCells renders one record with typed cells
func recordToCells(rec domain.ReconstructedRecord, extraColumns []string) []interface{} {
	cells := []interface{}{
		formatTime(rec.PreciseTime),
		formatStartDate(rec.Timestamp),
		readingCell(rec.Frequency),
		readingCell(rec.Magnitude),
		rec.SourceTag,
		rec.Interpolated,
	}
	for _, col := range extraColumns {
		cells = append(cells, rec.Extra[col])
	}
	return cells
}

func readingCell(r domain.Reading) interface{} {
	if !r.Valid {
		return nil
	}
	return r.Value
}

// Package exporter writes a per-source view of reconstructed records to disk.
//
// CSVWriter produces comma-separated text, optionally with a UTF-8 BOM so
// spreadsheet applications pick the right encoding. XLSXWriter produces a
// workbook through the excelize stream writer. Both write the same table:
//
//	PRECISE_TIME, STARTDATE, HZ, VPM, SOURCE_FILE, INTERPOLATED, <passthrough columns>
//
// A missing VPM is written as an empty cell. STARTDATE uses an ISO layout,
// so an export can be fed back to the loader.
package exporter

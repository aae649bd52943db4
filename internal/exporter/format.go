package exporter

import (
	"strconv"
	"strings"
	"time"

	"osccli/pkg/contracts/domain"
)

// Column labels of an exported view, in output order before passthrough columns
const (
	ColumnPreciseTime  = "PRECISE_TIME"
	ColumnStartDate    = "STARTDATE"
	ColumnFrequency    = "HZ"
	ColumnMagnitude    = "VPM"
	ColumnSource       = "SOURCE_FILE"
	ColumnInterpolated = "INTERPOLATED"
)

// startDateLayout is unambiguous, so an export can be read back by the loader
const startDateLayout = "2006-01-02 15:04:05"

// Headers returns the header row for records with the given passthrough columns.
// A passthrough column whose label is already taken, compared case-insensitively,
// is written as "<label>.<n>" with the lowest free n.
func Headers(extraColumns []string) []string {
	headers := []string{
		ColumnPreciseTime,
		ColumnStartDate,
		ColumnFrequency,
		ColumnMagnitude,
		ColumnSource,
		ColumnInterpolated,
	}
	taken := make(map[string]bool, len(headers)+len(extraColumns))
	for _, h := range headers {
		taken[strings.ToUpper(h)] = true
	}
	for _, col := range extraColumns {
		label := col
		for n := 1; taken[strings.ToUpper(label)]; n++ {
			label = col + "." + strconv.Itoa(n)
		}
		taken[strings.ToUpper(label)] = true
		headers = append(headers, label)
	}
	return headers
}

// formatFloat keeps the shortest representation that round-trips
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatReading leaves missing readings empty
func formatReading(r domain.Reading) string {
	if !r.Valid {
		return ""
	}
	return formatFloat(r.Value)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func formatStartDate(t time.Time) string {
	return t.UTC().Format(startDateLayout)
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// recordToRow renders one record as text cells
func recordToRow(rec domain.ReconstructedRecord, extraColumns []string) []string {
	row := []string{
		formatTime(rec.PreciseTime),
		formatStartDate(rec.Timestamp),
		formatReading(rec.Frequency),
		formatReading(rec.Magnitude),
		rec.SourceTag,
		formatBool(rec.Interpolated),
	}
	for _, col := range extraColumns {
		row = append(row, rec.Extra[col])
	}
	return row
}

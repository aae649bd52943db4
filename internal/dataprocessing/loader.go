package dataprocessing

import (
	"fmt"
	"log/slog"
	"strings"

	apperrors "osccli/internal/errors"
	"osccli/pkg/contracts/domain"
)

// Columns names the three required fields of a source file
type Columns struct {
	Timestamp string
	Frequency string
	Magnitude string
}

// DefaultColumns are the labels used by the station exports
var DefaultColumns = Columns{Timestamp: "STARTDATE", Frequency: "HZ", Magnitude: "VPM"}

// LoadResult is the row set of one successfully loaded file
type LoadResult struct {
	Source       domain.SourceFile
	Records      []domain.RawRecord
	ExtraColumns []string // passthrough columns in header order
	DroppedRows  int      // rows whose timestamp could not be parsed
}

// Loader parses source files into RawRecords
type Loader struct {
	columns Columns
	logger  *slog.Logger
}

// NewLoader creates a loader validating the given required columns
func NewLoader(columns Columns, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{columns: columns, logger: logger}
}

// Load reads one source file. A returned error means the whole file is
// skipped; it is always an *apperrors.AppError whose type says why.
func (l *Loader) Load(src domain.SourceFile) (*LoadResult, error) {
	handler, ok := HandlerFor(src.Format)
	if !ok {
		return nil, apperrors.NewUnsupportedFormatError(src.Path)
	}

	table, err := handler.ReadTable(src.Path)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read "+string(src.Format)+" file", err).
			WithContext("path", src.Path)
	}

	headerIdx := firstNonBlankRow(table.Rows)
	if headerIdx < 0 {
		return nil, apperrors.NewMissingColumnError(l.required())
	}
	header := normalizeHeader(table.Rows[headerIdx])

	index := make(map[string]int, len(header))
	for i, label := range header {
		index[label] = i
	}

	var missing []string
	for _, col := range l.required() {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.NewMissingColumnError(missing).WithContext("path", src.Path)
	}

	tsIdx, hzIdx, vpmIdx := index[l.columns.Timestamp], index[l.columns.Frequency], index[l.columns.Magnitude]
	var extras []int
	for i := range header {
		if i != tsIdx && i != hzIdx && i != vpmIdx {
			extras = append(extras, i)
		}
	}

	result := &LoadResult{Source: src, DroppedRows: table.Malformed}
	for _, i := range extras {
		result.ExtraColumns = append(result.ExtraColumns, header[i])
	}

	serial := table.SerialDates(src.Format)
	tag := src.Tag()
	dataRow := 0
	for _, row := range table.Rows[headerIdx+1:] {
		if isBlank(row) {
			continue
		}
		dataRow++

		ts, err := ParseTimestamp(cell(row, tsIdx), serial)
		if err != nil {
			result.DroppedRows++
			l.logger.Debug("Dropping row with unparseable timestamp",
				slog.String("file", src.Name),
				slog.Int("row", dataRow),
				slog.String("error", err.Error()))
			continue
		}

		record := domain.RawRecord{
			Timestamp: ts,
			Frequency: ParseReading(cell(row, hzIdx)),
			Magnitude: ParseReading(cell(row, vpmIdx)),
			Row:       dataRow,
			SourceTag: tag,
		}
		if len(extras) > 0 {
			record.Extra = make(map[string]string, len(extras))
			for _, i := range extras {
				record.Extra[header[i]] = cell(row, i)
			}
		}
		result.Records = append(result.Records, record)
	}

	if len(result.Records) == 0 {
		return nil, apperrors.NewNoDataError(fmt.Sprintf("no row has a parseable %s", l.columns.Timestamp)).
			WithContext("path", src.Path).
			WithContext("dropped_rows", result.DroppedRows)
	}

	l.logger.Debug("File loaded",
		slog.String("file", src.Name),
		slog.String("format", string(src.Format)),
		slog.Int("records", len(result.Records)),
		slog.Int("dropped_rows", result.DroppedRows))

	return result, nil
}

func (l *Loader) required() []string {
	return []string{l.columns.Timestamp, l.columns.Frequency, l.columns.Magnitude}
}

// normalizeHeader trims labels, strips a UTF-8 byte order mark and names
// empty labels by position. Repeated labels get a ".n" suffix so every
// passthrough column keeps a distinct key.
func normalizeHeader(row []string) []string {
	header := make([]string, len(row))
	seen := make(map[string]int, len(row))
	for i, label := range row {
		label = strings.TrimSpace(strings.TrimPrefix(label, "\ufeff"))
		if label == "" {
			label = fmt.Sprintf("column_%d", i+1)
		}
		if n := seen[label]; n > 0 {
			seen[label] = n + 1
			label = fmt.Sprintf("%s.%d", label, n)
		} else {
			seen[label] = 1
		}
		header[i] = label
	}
	return header
}

func firstNonBlankRow(rows [][]string) int {
	for i, row := range rows {
		if !isBlank(row) {
			return i
		}
	}
	return -1
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

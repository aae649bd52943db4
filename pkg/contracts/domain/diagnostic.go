package domain

import "fmt"

// DiagnosticKind classifies a non-fatal pipeline event
type DiagnosticKind string

const (
	DiagUnsupportedFormat  DiagnosticKind = "unsupported_format"
	DiagMissingColumn      DiagnosticKind = "missing_column"
	DiagNoParseableRows    DiagnosticKind = "no_parseable_rows"
	DiagNoFrequencyValues  DiagnosticKind = "no_frequency_values"
	DiagReadFailed         DiagnosticKind = "read_failed"
	DiagRowsDropped        DiagnosticKind = "rows_dropped"
	DiagValuesInterpolated DiagnosticKind = "values_interpolated"
)

// Diagnostic is a human-readable message about a skipped file or dropped rows
type Diagnostic struct {
	Source  string         `json:"source"`
	Kind    DiagnosticKind `json:"kind"`
	Message string         `json:"message"`
	Rows    int            `json:"rows,omitempty"`
}

// FileSkipped reports whether the diagnostic excluded the whole file.
func (d Diagnostic) FileSkipped() bool {
	switch d.Kind {
	case DiagRowsDropped, DiagValuesInterpolated:
		return false
	default:
		return true
	}
}

func (d Diagnostic) String() string {
	if d.Rows > 0 {
		return fmt.Sprintf("%s: %s (%d rows)", d.Source, d.Message, d.Rows)
	}
	return fmt.Sprintf("%s: %s", d.Source, d.Message)
}

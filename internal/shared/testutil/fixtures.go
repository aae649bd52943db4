package testutil

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// OscillationHeader is the header row of a station export
var OscillationHeader = []string{"STARTDATE", "HZ", "VPM"}

// WriteCSV writes rows to dir/name as comma-delimited text and returns the path
func WriteCSV(t *testing.T, dir, name string, rows [][]string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := csv.NewWriter(f)
	require.NoError(t, w.WriteAll(rows))
	return path
}

// WriteRawFile writes content verbatim, for inputs a csv.Writer would escape
func WriteRawFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// WriteXLSX writes rows to the first sheet of a new workbook. Cell values
// keep their Go type, so float64 timestamps land as serial dates.
func WriteXLSX(t *testing.T, dir, name string, rows [][]any) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cellRef, &row))
	}
	require.NoError(t, f.SaveAs(path))
	return path
}

// OscillationRows builds a CSV table from (timestamp, hz, vpm) triples
func OscillationRows(triples ...[3]string) [][]string {
	rows := [][]string{OscillationHeader}
	for _, tr := range triples {
		rows = append(rows, []string{tr[0], tr[1], tr[2]})
	}
	return rows
}

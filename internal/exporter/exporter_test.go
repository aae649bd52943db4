package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"osccli/internal/dataprocessing"
	apperrors "osccli/internal/errors"
	"osccli/internal/shared/testutil"
	"osccli/pkg/contracts/domain"
)

var coarse = time.Date(2024, 1, 13, 10, 5, 0, 0, time.UTC)

func sampleView() []domain.ReconstructedRecord {
	return []domain.ReconstructedRecord{
		{
			RawRecord: domain.RawRecord{
				Timestamp: coarse,
				Frequency: domain.ValueOf(50.01),
				Magnitude: domain.ValueOf(1.25),
				Extra:     map[string]string{"FEEDER": "F1"},
				SourceTag: "Bhadla Oscillation Data_01",
			},
			PreciseTime: coarse,
		},
		{
			RawRecord: domain.RawRecord{
				Timestamp: coarse,
				Frequency: domain.ValueOf(50.02),
				Magnitude: domain.Missing(),
				Extra:     map[string]string{"FEEDER": "F2"},
				SourceTag: "Bhadla Oscillation Data_01",
			},
			PreciseTime:  coarse.Add(20*time.Second + 500*time.Millisecond),
			Interpolated: true,
		},
	}
}

func readCSV(t *testing.T, path string) (bool, [][]string) {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)

	hasBOM := bytes.HasPrefix(content, utf8BOM)
	rows, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(content, utf8BOM))).ReadAll()
	require.NoError(t, err)
	return hasBOM, rows
}

func TestCSVWriter_WriteRecords(t *testing.T) {
	tests := []struct {
		name string
		bom  bool
	}{
		{"with BOM", true},
		{"without BOM", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", DefaultFileName("Bhadla Oscillation Data_01", FormatCSV))

			err := NewCSVWriter(nil).WriteRecords(path, sampleView(), []string{"FEEDER"}, WriteOptions{BOMPrefix: tt.bom})
			require.NoError(t, err)

			hasBOM, rows := readCSV(t, path)
			assert.Equal(t, tt.bom, hasBOM)
			require.Len(t, rows, 3)
			assert.Equal(t, []string{"PRECISE_TIME", "STARTDATE", "HZ", "VPM", "SOURCE_FILE", "INTERPOLATED", "FEEDER"}, rows[0])
			assert.Equal(t, []string{
				"2024-01-13T10:05:00Z", "2024-01-13 10:05:00", "50.01", "1.25", "Bhadla Oscillation Data_01", "false", "F1",
			}, rows[1])
			assert.Equal(t, []string{
				"2024-01-13T10:05:20.5Z", "2024-01-13 10:05:00", "50.02", "", "Bhadla Oscillation Data_01", "true", "F2",
			}, rows[2])
		})
	}
}

func TestCSVWriter_EmptyView(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, NewCSVWriter(nil).WriteRecords(path, nil, nil, WriteOptions{}))

	_, rows := readCSV(t, path)
	require.Len(t, rows, 1)
	assert.Len(t, rows[0], 6)
}

func TestCSVWriter_OverwritesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, os.WriteFile(path, []byte("old,content\n1,2\n3,4\n5,6\n"), 0644))

	require.NoError(t, NewCSVWriter(nil).WriteRecords(path, sampleView()[:1], nil, WriteOptions{}))

	_, rows := readCSV(t, path)
	assert.Len(t, rows, 2)
}

func TestXLSXWriter_WriteRecords(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	path := filepath.Join(t.TempDir(), DefaultFileName("station", FormatXLSX))

	err := NewXLSXWriter(logger).WriteRecords(path, sampleView(), []string{"FEEDER"}, WriteOptions{SheetName: "station"})
	require.NoError(t, err)
	testutil.AssertLogAttr(t, handler, "sheet", "station")

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"station"}, f.GetSheetList())
	rows, err := f.GetRows("station")
	require.NoError(t, err)

	require.Len(t, rows, 3)
	assert.Equal(t, Headers([]string{"FEEDER"}), rows[0])
	assert.Equal(t, "2024-01-13T10:05:20.5Z", rows[2][0])
	assert.Equal(t, "50.02", rows[2][2])
	assert.Equal(t, "", rows[2][3])
	assert.Equal(t, "TRUE", rows[2][5])
	assert.Equal(t, "F2", rows[2][6])
}

func TestHeaders(t *testing.T) {
	fixed := []string{"PRECISE_TIME", "STARTDATE", "HZ", "VPM", "SOURCE_FILE", "INTERPOLATED"}

	tests := []struct {
		name  string
		extra []string
		want  []string
	}{
		{"no passthrough", nil, nil},
		{"distinct", []string{"FEEDER", "BUS"}, []string{"FEEDER", "BUS"}},
		{"fixed label", []string{"SOURCE_FILE", "INTERPOLATED"}, []string{"SOURCE_FILE.1", "INTERPOLATED.1"}},
		{"other case", []string{"precise_time"}, []string{"precise_time.1"}},
		{"suffix already taken", []string{"HZ.1", "HZ"}, []string{"HZ.1", "HZ.2"}},
		{"repeated passthrough", []string{"FEEDER", "FEEDER", "FEEDER"}, []string{"FEEDER", "FEEDER.1", "FEEDER.2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Headers(tt.extra)
			assert.Equal(t, append(append([]string{}, fixed...), tt.want...), got)

			seen := make(map[string]bool)
			for _, h := range got {
				assert.False(t, seen[strings.ToUpper(h)], "duplicate header %q", h)
				seen[strings.ToUpper(h)] = true
			}
		})
	}
}

func TestCSVWriter_PassthroughNamedLikeFixedColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	view := sampleView()
	for i := range view {
		view[i].Extra = map[string]string{"SOURCE_FILE": "feeder.xls"}
	}

	require.NoError(t, NewCSVWriter(nil).WriteRecords(path, view, []string{"SOURCE_FILE"}, WriteOptions{}))

	_, rows := readCSV(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, "SOURCE_FILE.1", rows[0][6])
	assert.Equal(t, "Bhadla Oscillation Data_01", rows[1][4])
	assert.Equal(t, "feeder.xls", rows[1][6])
}

func TestWriters_RoundTripThroughLoader(t *testing.T) {
	for _, format := range []Format{FormatCSV, FormatXLSX} {
		t.Run(string(format), func(t *testing.T) {
			writer, err := NewWriter(format, nil)
			require.NoError(t, err)
			assert.Equal(t, format, writer.Format())

			path := filepath.Join(t.TempDir(), DefaultFileName("station", format))
			require.NoError(t, writer.WriteRecords(path, sampleView(), []string{"FEEDER"}, WriteOptions{BOMPrefix: true}))

			loaded, err := dataprocessing.NewLoader(dataprocessing.DefaultColumns, nil).Load(domain.NewSourceFile(path))
			require.NoError(t, err)

			require.Len(t, loaded.Records, 2)
			assert.Equal(t, []string{"PRECISE_TIME", "SOURCE_FILE", "INTERPOLATED", "FEEDER"}, loaded.ExtraColumns)
			for i, rec := range loaded.Records {
				want := sampleView()[i]
				assert.True(t, want.Timestamp.Equal(rec.Timestamp))
				assert.InDelta(t, want.Frequency.Value, rec.Frequency.Value, 1e-9)
				assert.Equal(t, want.Magnitude.Valid, rec.Magnitude.Valid)
				assert.Equal(t, want.Extra["FEEDER"], rec.Extra["FEEDER"])
			}
			assert.Equal(t, "2024-01-13T10:05:20.5Z", loaded.Records[1].Extra["PRECISE_TIME"])
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"csv", FormatCSV, false},
		{" XLSX ", FormatXLSX, false},
		{"parquet", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := NewWriter("parquet", nil)
	assert.Error(t, err)
}

func TestDefaultFileName(t *testing.T) {
	assert.Equal(t, "Bhada Oscillation Data_02_reconstructed.xlsx", DefaultFileName("Bhada Oscillation Data_02", FormatXLSX))
}

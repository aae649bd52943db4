package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"osccli/pkg/contracts/domain"
)

var testPatterns = []string{
	"Bhada Oscillation Data_*.xlsx",
	"Bhadla Oscillation Data_*.xlsx",
	"Bhada Oscillation Data_*.xls",
	"Bhadla Oscillation Data_*.xls",
	"Bhada Oscillation Data_*.csv",
	"Bhadla Oscillation Data_*.csv",
}

func createFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("test content"), 0644))
	}
}

func names(files []domain.SourceFile) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.Name)
	}
	return out
}

func TestNewDiscovery(t *testing.T) {
	d := NewDiscovery([]string{"A_*.CSV"}, nil)

	assert.NotNil(t, d.logger)
	assert.Equal(t, []string{"a_*.csv"}, d.patterns)
}

func TestFindSourceFiles(t *testing.T) {
	tests := []struct {
		name     string
		files    []string
		expected []string
	}{
		{
			name: "both spellings and all formats",
			files: []string{
				"Bhadla Oscillation Data_02.xlsx",
				"Bhada Oscillation Data_01.csv",
				"Bhadla Oscillation Data_03.xls",
			},
			expected: []string{
				"Bhada Oscillation Data_01.csv",
				"Bhadla Oscillation Data_02.xlsx",
				"Bhadla Oscillation Data_03.xls",
			},
		},
		{
			name:     "case-insensitive match",
			files:    []string{"BHADLA OSCILLATION DATA_01.CSV", "bhadla oscillation data_02.Xlsx"},
			expected: []string{"BHADLA OSCILLATION DATA_01.CSV", "bhadla oscillation data_02.Xlsx"},
		},
		{
			name: "non-matching names ignored",
			files: []string{
				"Bhadla Oscillation Data_01.txt",
				"Bhadla Oscillation Data.csv",
				"notes.csv",
				"Other Oscillation Data_01.csv",
			},
			expected: []string{},
		},
		{
			name:     "empty directory",
			files:    nil,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			createFiles(t, dir, tt.files...)

			found := NewDiscovery(testPatterns, nil).FindSourceFiles(dir)

			assert.Equal(t, tt.expected, names(found))
			for _, f := range found {
				assert.Equal(t, filepath.Join(dir, f.Name), f.Path)
				assert.NotEqual(t, domain.FormatUnknown, f.Format)
				assert.Greater(t, f.Size, int64(0))
				assert.False(t, f.ModTime.IsZero())
			}
		})
	}
}

func TestFindSourceFiles_DedupAcrossOverlappingPatterns(t *testing.T) {
	dir := t.TempDir()
	createFiles(t, dir, "Bhadla Oscillation Data_01.csv")

	d := NewDiscovery([]string{"*.csv", "Bhadla*", "bhadla oscillation data_*.csv"}, nil)
	found := d.FindSourceFiles(dir)

	assert.Equal(t, []string{"Bhadla Oscillation Data_01.csv"}, names(found))
}

func TestFindSourceFiles_SkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "Bhadla Oscillation Data_old.csv"), 0755))
	createFiles(t, dir, "Bhadla Oscillation Data_new.csv")

	found := NewDiscovery(testPatterns, nil).FindSourceFiles(dir)
	assert.Equal(t, []string{"Bhadla Oscillation Data_new.csv"}, names(found))
}

func TestFindSourceFiles_MissingDirectory(t *testing.T) {
	found := NewDiscovery(testPatterns, nil).FindSourceFiles(filepath.Join(t.TempDir(), "absent"))
	assert.Empty(t, found)
}

func TestFindSourceFiles_InvalidPatternIgnored(t *testing.T) {
	dir := t.TempDir()
	createFiles(t, dir, "Bhadla Oscillation Data_01.csv")

	found := NewDiscovery([]string{"[", "*.csv"}, nil).FindSourceFiles(dir)
	assert.Len(t, found, 1)
}

func TestSnapshot(t *testing.T) {
	dir := t.TempDir()
	createFiles(t, dir, "Bhadla Oscillation Data_01.csv")
	d := NewDiscovery(testPatterns, nil)

	first := d.TakeSnapshot(dir)
	second := d.TakeSnapshot(dir)
	assert.Equal(t, first.Fingerprint, second.Fingerprint)
	assert.Len(t, first.Files, 1)

	// A new file changes the fingerprint.
	createFiles(t, dir, "Bhadla Oscillation Data_02.csv")
	third := d.TakeSnapshot(dir)
	assert.NotEqual(t, first.Fingerprint, third.Fingerprint)

	// So does touching an existing one.
	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "Bhadla Oscillation Data_01.csv"), later, later))
	fourth := d.TakeSnapshot(dir)
	assert.NotEqual(t, third.Fingerprint, fourth.Fingerprint)
}

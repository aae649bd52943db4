package dataprocessing

import (
	"context"
	"encoding/csv"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"osccli/internal/shared/testutil"
	"osccli/pkg/contracts/domain"
)

func TestSummarize(t *testing.T) {
	records := []domain.ReconstructedRecord{
		taggedRecord("s", 0, 50.0, domain.ValueOf(1)),
		taggedRecord("s", 15*time.Second, 50.1, domain.Missing()),
		taggedRecord("s", 30*time.Second, 50.2, domain.ValueOf(3)),
		taggedRecord("s", 45*time.Second, 50.3, domain.Missing()),
	}
	records[1].Interpolated = true

	s := Summarize("s", records)

	assert.Equal(t, "s", s.Source)
	assert.Equal(t, 4, s.Samples)
	assert.Equal(t, 1, s.Interpolated)
	assert.InDelta(t, 50.3, s.FreqMax, 1e-9)
	assert.InDelta(t, 50.0, s.FreqMin, 1e-9)
	assert.InDelta(t, 0.3, s.PeakToPeak, 1e-9)
	assert.InDelta(t, 50.15, s.FreqMean, 1e-9)
	assert.InDelta(t, math.Sqrt(0.05/3), s.FreqStdDev, 1e-6)

	assert.Equal(t, 2, s.MagnitudeSamples)
	assert.Equal(t, 2, s.MagnitudeMissing)
	assert.InDelta(t, 3.0, s.MagnitudeMax, 1e-9)
	assert.InDelta(t, 1.0, s.MagnitudeMin, 1e-9)
	assert.InDelta(t, 2.0, s.MagnitudeMean, 1e-9)

	assert.Equal(t, t0, s.Start)
	assert.Equal(t, t0.Add(45*time.Second), s.End)
}

func TestSummarize_Edges(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		s := Summarize("none", nil)
		assert.Equal(t, Summary{Source: "none"}, s)
	})

	t.Run("single sample", func(t *testing.T) {
		s := Summarize("one", []domain.ReconstructedRecord{taggedRecord("one", 0, 49.95, domain.Missing())})
		assert.Equal(t, 1, s.Samples)
		assert.Zero(t, s.PeakToPeak)
		assert.Zero(t, s.FreqStdDev)
		assert.Zero(t, s.MagnitudeSamples)
		assert.Zero(t, s.MagnitudeMax)
		assert.Equal(t, s.Start, s.End)
	})
}

func TestSummarizer_Dataset(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	summarizer := NewSummarizer(logger)
	ctx := context.Background()

	summaries := summarizer.SummarizeDataset(ctx, Aggregate(sampleResults()))
	require.Len(t, summaries, 2)
	assert.Equal(t, "a", summaries[0].Source)
	assert.Equal(t, "b", summaries[1].Source)
	assert.InDelta(t, 0.2, summaries[1].PeakToPeak, 1e-9)
	assert.Contains(t, summaries[1].String(), "peak-to-peak 0.200 Hz")

	path := filepath.Join(t.TempDir(), "nested", "summary.csv")
	require.NoError(t, summarizer.WriteCSV(ctx, path, summaries))
	testutil.AssertLogContains(t, handler, slog.LevelInfo, "Summary CSV written")

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 3)
	assert.Equal(t, "Source", rows[0][0])
	assert.Equal(t, "b", rows[2][0])
	assert.Equal(t, "2", rows[2][1])
	assert.Equal(t, "0.2000", rows[2][5])
}

func TestSummarizer_EmptyDataset(t *testing.T) {
	assert.Empty(t, NewSummarizer(nil).SummarizeDataset(context.Background(), Aggregate(nil)))
}

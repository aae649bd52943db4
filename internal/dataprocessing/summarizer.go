package dataprocessing

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-gota/gota/series"

	"osccli/internal/errors"
	"osccli/pkg/contracts/domain"
)

// Summary describes the signal of one view
type Summary struct {
	Source string `json:"source"`

	Samples      int     `json:"samples"`
	Interpolated int     `json:"interpolated"`
	FreqMax      float64 `json:"freq_max"`
	FreqMin      float64 `json:"freq_min"`
	PeakToPeak   float64 `json:"peak_to_peak"`
	FreqMean     float64 `json:"freq_mean"`
	FreqStdDev   float64 `json:"freq_std_dev"`

	MagnitudeSamples int     `json:"magnitude_samples"`
	MagnitudeMissing int     `json:"magnitude_missing"`
	MagnitudeMax     float64 `json:"magnitude_max"`
	MagnitudeMin     float64 `json:"magnitude_min"`
	MagnitudeMean    float64 `json:"magnitude_mean"`

	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Summarizer produces per-source signal summaries
type Summarizer struct {
	logger *slog.Logger
}

// NewSummarizer creates a new summarizer
func NewSummarizer(logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{logger: logger}
}

// Summarize computes the summary of records. The records are expected to be
// cleaned (complete frequency); an empty input yields a zero Summary.
func Summarize(source string, records []domain.ReconstructedRecord) Summary {
	s := Summary{Source: source, Samples: len(records)}
	if len(records) == 0 {
		return s
	}

	hz := make([]float64, 0, len(records))
	var vpm []float64
	s.Start, s.End = records[0].PreciseTime, records[0].PreciseTime
	for _, rec := range records {
		if rec.Frequency.Valid {
			hz = append(hz, rec.Frequency.Value)
		}
		if rec.Interpolated {
			s.Interpolated++
		}
		if rec.Magnitude.Valid {
			vpm = append(vpm, rec.Magnitude.Value)
		} else {
			s.MagnitudeMissing++
		}
		if rec.PreciseTime.Before(s.Start) {
			s.Start = rec.PreciseTime
		}
		if rec.PreciseTime.After(s.End) {
			s.End = rec.PreciseTime
		}
	}

	if len(hz) > 0 {
		freq := series.New(hz, series.Float, ColumnFrequency)
		s.FreqMax = freq.Max()
		s.FreqMin = freq.Min()
		s.PeakToPeak = s.FreqMax - s.FreqMin
		s.FreqMean = freq.Mean()
		if len(hz) > 1 {
			s.FreqStdDev = freq.StdDev()
		}
	}

	s.MagnitudeSamples = len(vpm)
	if len(vpm) > 0 {
		mag := series.New(vpm, series.Float, ColumnMagnitude)
		s.MagnitudeMax = mag.Max()
		s.MagnitudeMin = mag.Min()
		s.MagnitudeMean = mag.Mean()
	}
	return s
}

// SummarizeDataset returns one summary per source, in source order
func (s *Summarizer) SummarizeDataset(ctx context.Context, ds *Dataset) []Summary {
	sources := ds.Sources()
	summaries := make([]Summary, 0, len(sources))
	for _, src := range sources {
		summaries = append(summaries, Summarize(src, ds.View(src)))
	}

	s.logger.DebugContext(ctx, "Summaries generated", slog.Int("source_count", len(summaries)))
	return summaries
}

// WriteCSV writes summaries to path, one row per source
func (s *Summarizer) WriteCSV(ctx context.Context, path string, summaries []Summary) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("failed to create directory for summary output", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.NewStorageError("failed to create summary CSV", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	header := []string{
		"Source", "Samples", "Interpolated", "FreqMax", "FreqMin", "PeakToPeak", "FreqMean", "FreqStdDev",
		"MagnitudeSamples", "MagnitudeMissing", "MagnitudeMax", "MagnitudeMin", "MagnitudeMean", "Start", "End",
	}
	if err := writer.Write(header); err != nil {
		return errors.NewStorageError("failed to write summary header", err)
	}

	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 4, 64) }
	for _, sum := range summaries {
		row := []string{
			sum.Source,
			strconv.Itoa(sum.Samples),
			strconv.Itoa(sum.Interpolated),
			f(sum.FreqMax), f(sum.FreqMin), f(sum.PeakToPeak), f(sum.FreqMean), f(sum.FreqStdDev),
			strconv.Itoa(sum.MagnitudeSamples),
			strconv.Itoa(sum.MagnitudeMissing),
			f(sum.MagnitudeMax), f(sum.MagnitudeMin), f(sum.MagnitudeMean),
			sum.Start.Format(time.RFC3339Nano),
			sum.End.Format(time.RFC3339Nano),
		}
		if err := writer.Write(row); err != nil {
			return errors.NewStorageError("failed to write summary row", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return errors.NewStorageError("failed to flush summary CSV", err)
	}

	s.logger.InfoContext(ctx, "Summary CSV written",
		slog.String("path", path),
		slog.Int("summary_count", len(summaries)))
	return nil
}

// String renders the headline metrics the way the dashboard shows them
func (s Summary) String() string {
	return fmt.Sprintf("%s: max %.3f Hz, min %.3f Hz, peak-to-peak %.3f Hz, %d samples",
		s.Source, s.FreqMax, s.FreqMin, s.PeakToPeak, s.Samples)
}

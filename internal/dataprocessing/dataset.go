package dataprocessing

import (
	"sort"
	"strconv"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"osccli/pkg/contracts/domain"
)

// Column labels of the tabular output contract
const (
	ColumnPreciseTime = "PRECISE_TIME"
	ColumnFrequency   = "HZ"
	ColumnMagnitude   = "VPM"
	ColumnSource      = "SOURCE_FILE"
)

// FileResult is the cleaned output of one source file
type FileResult struct {
	Source       domain.SourceFile
	Records      []domain.ReconstructedRecord
	ExtraColumns []string
}

// Dataset is the merged, read-only result of a pipeline run. It is never
// modified after Aggregate returns, so it can be shared between readers.
type Dataset struct {
	records []domain.ReconstructedRecord
	extra   []string
	sources []string
}

// Aggregate concatenates per-file results in the order given. No results
// produce an empty Dataset, not an error.
func Aggregate(results []FileResult) *Dataset {
	ds := &Dataset{}
	seenCol := make(map[string]bool)
	seenSrc := make(map[string]bool)

	total := 0
	for _, r := range results {
		total += len(r.Records)
	}
	ds.records = make([]domain.ReconstructedRecord, 0, total)

	for _, r := range results {
		ds.records = append(ds.records, r.Records...)
		for _, col := range r.ExtraColumns {
			if !seenCol[col] {
				seenCol[col] = true
				ds.extra = append(ds.extra, col)
			}
		}
		for _, rec := range r.Records {
			if !seenSrc[rec.SourceTag] {
				seenSrc[rec.SourceTag] = true
				ds.sources = append(ds.sources, rec.SourceTag)
			}
		}
	}
	sort.Strings(ds.sources)
	return ds
}

// Len returns the number of records
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// IsEmpty reports whether no file contributed data
func (d *Dataset) IsEmpty() bool {
	return d.Len() == 0
}

// Records returns a copy of all records in aggregation order
func (d *Dataset) Records() []domain.ReconstructedRecord {
	if d == nil {
		return nil
	}
	out := make([]domain.ReconstructedRecord, len(d.records))
	copy(out, d.records)
	return out
}

// Sources returns the distinct SourceTags, sorted
func (d *Dataset) Sources() []string {
	if d == nil {
		return nil
	}
	return append([]string(nil), d.sources...)
}

// ExtraColumns returns the passthrough column names in first-seen order
func (d *Dataset) ExtraColumns() []string {
	if d == nil {
		return nil
	}
	return append([]string(nil), d.extra...)
}

// View returns the records of one source ordered by PreciseTime. An empty tag
// selects every source.
func (d *Dataset) View(tag string) []domain.ReconstructedRecord {
	if d == nil {
		return nil
	}
	var out []domain.ReconstructedRecord
	for _, rec := range d.records {
		if tag == "" || rec.SourceTag == tag {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PreciseTime.Before(out[j].PreciseTime)
	})
	return out
}

// Frame returns View(tag) as a dataframe with the PRECISE_TIME, HZ, VPM and
// SOURCE_FILE columns. Missing magnitudes are NaN elements.
func (d *Dataset) Frame(tag string) dataframe.DataFrame {
	return RecordsFrame(d.View(tag))
}

// RecordsFrame converts records to the tabular output contract
func RecordsFrame(records []domain.ReconstructedRecord) dataframe.DataFrame {
	times := make([]string, len(records))
	hz := make([]float64, len(records))
	vpm := make([]string, len(records))
	tags := make([]string, len(records))
	for i, rec := range records {
		times[i] = rec.PreciseTime.Format(time.RFC3339Nano)
		hz[i] = rec.Frequency.Value
		if rec.Magnitude.Valid {
			vpm[i] = strconv.FormatFloat(rec.Magnitude.Value, 'g', -1, 64)
		} else {
			vpm[i] = "NaN"
		}
		tags[i] = rec.SourceTag
	}
	return dataframe.New(
		series.New(times, series.String, ColumnPreciseTime),
		series.New(hz, series.Float, ColumnFrequency),
		series.New(vpm, series.Float, ColumnMagnitude),
		series.New(tags, series.String, ColumnSource),
	)
}

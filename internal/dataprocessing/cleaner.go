package dataprocessing

import (
	"fmt"
	"sort"

	apperrors "osccli/internal/errors"
	"osccli/pkg/contracts/domain"
)

// InterpolationMethod selects how gaps between two known frequency values are filled
type InterpolationMethod string

const (
	// InterpolateLinear treats samples as equally spaced
	InterpolateLinear InterpolationMethod = "linear"
	// InterpolateTime weights by PreciseTime distance
	InterpolateTime InterpolationMethod = "time"
)

// Cleaner fills missing frequency values. Magnitude is never touched.
type Cleaner struct {
	method InterpolationMethod
}

// NewCleaner creates a cleaner; an unknown method falls back to linear
func NewCleaner(method InterpolationMethod) *Cleaner {
	if method != InterpolateTime {
		method = InterpolateLinear
	}
	return &Cleaner{method: method}
}

// Clean returns the records ordered by PreciseTime with every missing
// frequency filled, and the number of values it filled. Gaps between two
// known values are interpolated; gaps at either end take the nearest known
// value. A non-empty input without a single known frequency cannot be
// filled and yields a NO_DATA error. The pipeline then skips that file whole
// instead of keeping its rows with empty frequencies; no record leaves Clean
// without a frequency.
func (c *Cleaner) Clean(records []domain.ReconstructedRecord) ([]domain.ReconstructedRecord, int, error) {
	out := make([]domain.ReconstructedRecord, len(records))
	copy(out, records)
	if len(out) == 0 {
		return out, 0, nil
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PreciseTime.Before(out[j].PreciseTime)
	})

	var known []int
	for i := range out {
		if out[i].Frequency.Valid {
			known = append(known, i)
		}
	}
	if len(known) == 0 {
		return nil, 0, apperrors.NewNoDataError(fmt.Sprintf("none of %d rows has a frequency value", len(out)))
	}

	filled := 0
	fill := func(i int, v float64) {
		out[i].Frequency = domain.ValueOf(v)
		out[i].Interpolated = true
		filled++
	}

	first, last := known[0], known[len(known)-1]
	for i := 0; i < first; i++ {
		fill(i, out[first].Frequency.Value)
	}
	for i := last + 1; i < len(out); i++ {
		fill(i, out[last].Frequency.Value)
	}

	for n := 1; n < len(known); n++ {
		a, b := known[n-1], known[n]
		if b-a < 2 {
			continue
		}
		va, vb := out[a].Frequency.Value, out[b].Frequency.Value
		for i := a + 1; i < b; i++ {
			fill(i, va+(vb-va)*c.weight(out, a, b, i))
		}
	}

	return out, filled, nil
}

// weight is the fraction of the way from a to b at which i lies
func (c *Cleaner) weight(out []domain.ReconstructedRecord, a, b, i int) float64 {
	if c.method == InterpolateTime {
		span := out[b].PreciseTime.Sub(out[a].PreciseTime)
		if span > 0 {
			return float64(out[i].PreciseTime.Sub(out[a].PreciseTime)) / float64(span)
		}
	}
	return float64(i-a) / float64(b-a)
}

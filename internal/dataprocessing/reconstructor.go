package dataprocessing

import (
	"time"

	"osccli/pkg/contracts/domain"
)

// DefaultWindow is the span one coarse timestamp represents
const DefaultWindow = time.Minute

// TimestampGroup lists the records sharing one coarse timestamp, by their
// index in the input, in original row order
type TimestampGroup struct {
	Timestamp time.Time
	Indexes   []int
}

// Reconstructor spreads co-timestamped samples evenly across the window
// their coarse timestamp stands for.
//
// Row order inside a group is taken to be acquisition order and the sample
// rate is taken to be uniform within the window. Neither can be checked
// against the source data, which carries no sub-minute field; the resulting
// PreciseTime is an estimate, not a measurement.
type Reconstructor struct {
	window time.Duration
}

// NewReconstructor creates a reconstructor for the given window; a
// non-positive window selects DefaultWindow
func NewReconstructor(window time.Duration) *Reconstructor {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Reconstructor{window: window}
}

// Window returns the span a coarse timestamp represents
func (r *Reconstructor) Window() time.Duration {
	return r.window
}

// Offset returns the offset of the i-th of k samples: i*window/k, computed in
// integer nanoseconds so offsets are exact, strictly increasing in i and
// always below the window.
func (r *Reconstructor) Offset(i, k int) time.Duration {
	if k <= 1 || i <= 0 {
		return 0
	}
	return time.Duration(int64(i) * int64(r.window) / int64(k))
}

// Reconstruct assigns every record its PreciseTime. The output has the same
// length and order as the input.
func (r *Reconstructor) Reconstruct(records []domain.RawRecord) []domain.ReconstructedRecord {
	out := make([]domain.ReconstructedRecord, len(records))
	for _, g := range GroupByTimestamp(records) {
		k := len(g.Indexes)
		for i, idx := range g.Indexes {
			out[idx] = domain.ReconstructedRecord{
				RawRecord:   records[idx],
				PreciseTime: g.Timestamp.Add(r.Offset(i, k)),
			}
		}
	}
	return out
}

// GroupByTimestamp partitions records by coarse timestamp. Groups are returned
// in order of first appearance; indexes within a group keep input order.
func GroupByTimestamp(records []domain.RawRecord) []TimestampGroup {
	type instant struct {
		sec  int64
		nsec int
	}
	var groups []TimestampGroup
	byKey := make(map[instant]int)
	for i, rec := range records {
		key := instant{rec.Timestamp.Unix(), rec.Timestamp.Nanosecond()}
		gi, ok := byKey[key]
		if !ok {
			gi = len(groups)
			byKey[key] = gi
			groups = append(groups, TimestampGroup{Timestamp: rec.Timestamp})
		}
		groups[gi].Indexes = append(groups[gi].Indexes, i)
	}
	return groups
}

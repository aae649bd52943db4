package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"osccli/pkg/contracts/domain"
)

var t0 = time.Date(2024, 1, 13, 10, 5, 0, 0, time.UTC)

func rawAt(ts time.Time, hz float64, row int) domain.RawRecord {
	return domain.RawRecord{
		Timestamp: ts,
		Frequency: domain.ValueOf(hz),
		Magnitude: domain.ValueOf(1),
		Row:       row,
		SourceTag: "station",
	}
}

func TestReconstructor_EvenSpread(t *testing.T) {
	records := []domain.RawRecord{
		rawAt(t0, 50.0, 1),
		rawAt(t0, 50.1, 2),
		rawAt(t0, 50.2, 3),
		rawAt(t0, 50.3, 4),
	}

	out := NewReconstructor(time.Minute).Reconstruct(records)

	require.Len(t, out, 4)
	want := []time.Duration{0, 15 * time.Second, 30 * time.Second, 45 * time.Second}
	for i, rec := range out {
		assert.Equal(t, want[i], rec.Offset(), "row %d", i)
		assert.Equal(t, t0.Add(want[i]), rec.PreciseTime)
		assert.Equal(t, records[i], rec.RawRecord)
		assert.False(t, rec.Interpolated)
	}
}

func TestReconstructor_SingleSampleKeepsTimestamp(t *testing.T) {
	out := NewReconstructor(time.Minute).Reconstruct([]domain.RawRecord{rawAt(t0, 50, 1)})
	require.Len(t, out, 1)
	assert.Equal(t, t0, out[0].PreciseTime)
}

func TestReconstructor_InterleavedGroups(t *testing.T) {
	t1 := t0.Add(time.Minute)
	records := []domain.RawRecord{
		rawAt(t0, 50.0, 1),
		rawAt(t1, 50.1, 2),
		rawAt(t0, 50.2, 3),
		rawAt(t0, 50.3, 4),
	}

	out := NewReconstructor(time.Minute).Reconstruct(records)

	require.Len(t, out, 4)
	// Output keeps input order; offsets follow order within each group.
	for i := range records {
		assert.Equal(t, records[i].Row, out[i].Row)
	}
	assert.Equal(t, t0, out[0].PreciseTime)
	assert.Equal(t, t1, out[1].PreciseTime)
	assert.Equal(t, t0.Add(20*time.Second), out[2].PreciseTime)
	assert.Equal(t, t0.Add(40*time.Second), out[3].PreciseTime)
}

func TestReconstructor_Offset(t *testing.T) {
	tests := []struct {
		name   string
		window time.Duration
		k      int
	}{
		{"one minute seven samples", time.Minute, 7},
		{"one minute sixty samples", time.Minute, 60},
		{"thirty seconds three samples", 30 * time.Second, 3},
		{"one minute thousand samples", time.Minute, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReconstructor(tt.window)
			assert.Zero(t, r.Offset(0, tt.k))

			prev := time.Duration(-1)
			for i := 0; i < tt.k; i++ {
				off := r.Offset(i, tt.k)
				assert.Greater(t, off, prev)
				assert.Less(t, off, tt.window)
				assert.Equal(t, time.Duration(int64(i)*int64(tt.window)/int64(tt.k)), off)
				prev = off
			}
		})
	}
}

func TestReconstructor_DefaultWindow(t *testing.T) {
	assert.Equal(t, DefaultWindow, NewReconstructor(0).Window())
	assert.Equal(t, DefaultWindow, NewReconstructor(-time.Second).Window())
	assert.Equal(t, 10*time.Second, NewReconstructor(10*time.Second).Window())
}

func TestReconstructor_Idempotent(t *testing.T) {
	records := []domain.RawRecord{rawAt(t0, 50, 1), rawAt(t0, 50, 2), rawAt(t0.Add(time.Minute), 50, 3)}
	r := NewReconstructor(time.Minute)

	assert.Equal(t, r.Reconstruct(records), r.Reconstruct(records))
}

func TestReconstructor_Empty(t *testing.T) {
	assert.Empty(t, NewReconstructor(time.Minute).Reconstruct(nil))
}

func TestGroupByTimestamp(t *testing.T) {
	t1 := t0.Add(time.Minute)
	records := []domain.RawRecord{rawAt(t1, 50, 1), rawAt(t0, 50, 2), rawAt(t1, 50, 3)}

	groups := GroupByTimestamp(records)

	require.Len(t, groups, 2)
	assert.Equal(t, t1, groups[0].Timestamp)
	assert.Equal(t, []int{0, 2}, groups[0].Indexes)
	assert.Equal(t, t0, groups[1].Timestamp)
	assert.Equal(t, []int{1}, groups[1].Indexes)
}

func TestReconstructor_InterleavingDoesNotChangeTimes(t *testing.T) {
	t1 := t0.Add(time.Minute)
	t2 := t0.Add(2 * time.Minute)
	sample := func(ts time.Time, seq int, row int) domain.RawRecord {
		rec := rawAt(ts, 50, row)
		rec.Magnitude = domain.ValueOf(float64(seq))
		return rec
	}
	type key struct {
		ts  time.Time
		seq float64
	}

	tests := []struct {
		name  string
		order []domain.RawRecord
	}{
		{
			name: "grouped",
			order: []domain.RawRecord{
				sample(t0, 1, 1), sample(t0, 2, 2), sample(t0, 3, 3),
				sample(t1, 1, 4), sample(t1, 2, 5),
				sample(t2, 1, 6),
			},
		},
		{
			name: "interleaved",
			order: []domain.RawRecord{
				sample(t1, 1, 1), sample(t0, 1, 2), sample(t2, 1, 3),
				sample(t0, 2, 4), sample(t1, 2, 5), sample(t0, 3, 6),
			},
		},
		{
			name: "reversed groups",
			order: []domain.RawRecord{
				sample(t2, 1, 1),
				sample(t1, 1, 2), sample(t1, 2, 3),
				sample(t0, 1, 4), sample(t0, 2, 5), sample(t0, 3, 6),
			},
		},
	}

	r := NewReconstructor(time.Minute)
	var want map[key]time.Time
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := make(map[key]time.Time)
			for _, rec := range r.Reconstruct(tt.order) {
				got[key{rec.Timestamp, rec.Magnitude.Float64()}] = rec.PreciseTime
			}
			require.Len(t, got, len(tt.order))
			if want == nil {
				want = got
				assert.Equal(t, t0.Add(40*time.Second), got[key{t0, 3}])
				assert.Equal(t, t1.Add(30*time.Second), got[key{t1, 2}])
				assert.Equal(t, t2, got[key{t2, 1}])
				return
			}
			assert.Equal(t, want, got)
		})
	}
}

package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "osccli/internal/errors"
	"osccli/pkg/contracts/domain"
)

func reconstructedAt(offset time.Duration, hz domain.Reading) domain.ReconstructedRecord {
	return domain.ReconstructedRecord{
		RawRecord: domain.RawRecord{
			Timestamp: t0,
			Frequency: hz,
			Magnitude: domain.Missing(),
			SourceTag: "station",
		},
		PreciseTime: t0.Add(offset),
	}
}

func frequencies(records []domain.ReconstructedRecord) []float64 {
	out := make([]float64, len(records))
	for i, rec := range records {
		out[i] = rec.Frequency.Value
	}
	return out
}

func TestCleaner_LinearInterior(t *testing.T) {
	raw := []domain.RawRecord{
		rawAt(t0, 50.0, 1),
		{Timestamp: t0, Frequency: domain.Missing(), Row: 2, SourceTag: "station"},
		{Timestamp: t0, Frequency: domain.Missing(), Row: 3, SourceTag: "station"},
		rawAt(t0, 50.3, 4),
	}
	records := NewReconstructor(time.Minute).Reconstruct(raw)

	out, filled, err := NewCleaner(InterpolateLinear).Clean(records)
	require.NoError(t, err)

	assert.Equal(t, 2, filled)
	want := []float64{50.0, 50.1, 50.2, 50.3}
	for i, rec := range out {
		assert.True(t, rec.Frequency.Valid)
		assert.InDelta(t, want[i], rec.Frequency.Value, 1e-9)
	}
	assert.Equal(t, []bool{false, true, true, false},
		[]bool{out[0].Interpolated, out[1].Interpolated, out[2].Interpolated, out[3].Interpolated})

	// Input is left untouched.
	assert.False(t, records[1].Frequency.Valid)
}

func TestCleaner_BoundaryExtension(t *testing.T) {
	records := []domain.ReconstructedRecord{
		reconstructedAt(0, domain.Missing()),
		reconstructedAt(15*time.Second, domain.ValueOf(50.0)),
		reconstructedAt(30*time.Second, domain.ValueOf(50.2)),
		reconstructedAt(45*time.Second, domain.Missing()),
	}

	out, filled, err := NewCleaner(InterpolateLinear).Clean(records)
	require.NoError(t, err)

	assert.Equal(t, 2, filled)
	assert.InDeltaSlice(t, []float64{50.0, 50.0, 50.2, 50.2}, frequencies(out), 1e-9)
	assert.True(t, out[0].Interpolated)
	assert.True(t, out[3].Interpolated)
}

func TestCleaner_TimeWeighted(t *testing.T) {
	records := []domain.ReconstructedRecord{
		reconstructedAt(0, domain.ValueOf(50.0)),
		reconstructedAt(10*time.Second, domain.Missing()),
		reconstructedAt(40*time.Second, domain.ValueOf(50.4)),
	}

	tests := []struct {
		method InterpolationMethod
		want   float64
	}{
		{InterpolateLinear, 50.2},
		{InterpolateTime, 50.1},
	}

	for _, tt := range tests {
		t.Run(string(tt.method), func(t *testing.T) {
			out, _, err := NewCleaner(tt.method).Clean(records)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, out[1].Frequency.Value, 1e-9)
		})
	}
}

func TestCleaner_SortsByPreciseTime(t *testing.T) {
	records := []domain.ReconstructedRecord{
		reconstructedAt(30*time.Second, domain.ValueOf(50.3)),
		reconstructedAt(0, domain.ValueOf(50.0)),
		reconstructedAt(15*time.Second, domain.Missing()),
	}

	out, filled, err := NewCleaner(InterpolateLinear).Clean(records)
	require.NoError(t, err)

	assert.Equal(t, 1, filled)
	for i := 1; i < len(out); i++ {
		assert.False(t, out[i].PreciseTime.Before(out[i-1].PreciseTime))
	}
	assert.InDeltaSlice(t, []float64{50.0, 50.15, 50.3}, frequencies(out), 1e-9)
}

func TestCleaner_LeavesMagnitudeAlone(t *testing.T) {
	records := []domain.ReconstructedRecord{
		reconstructedAt(0, domain.ValueOf(50.0)),
		reconstructedAt(30*time.Second, domain.Missing()),
	}

	out, _, err := NewCleaner(InterpolateLinear).Clean(records)
	require.NoError(t, err)
	for _, rec := range out {
		assert.False(t, rec.Magnitude.Valid)
	}
}

func TestCleaner_NoFrequencyValues(t *testing.T) {
	records := []domain.ReconstructedRecord{
		reconstructedAt(0, domain.Missing()),
		reconstructedAt(30*time.Second, domain.Missing()),
	}

	out, filled, err := NewCleaner(InterpolateLinear).Clean(records)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNoData))
	assert.Nil(t, out)
	assert.Zero(t, filled)
}

func TestCleaner_Empty(t *testing.T) {
	out, filled, err := NewCleaner(InterpolateTime).Clean(nil)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Zero(t, filled)
}

func TestCleaner_Idempotent(t *testing.T) {
	records := []domain.ReconstructedRecord{
		reconstructedAt(0, domain.ValueOf(50.0)),
		reconstructedAt(20*time.Second, domain.Missing()),
		reconstructedAt(40*time.Second, domain.ValueOf(50.2)),
	}
	c := NewCleaner(InterpolateLinear)

	once, _, err := c.Clean(records)
	require.NoError(t, err)
	twice, filled, err := c.Clean(once)
	require.NoError(t, err)

	assert.Zero(t, filled)
	assert.Equal(t, frequencies(once), frequencies(twice))
}

func TestNewCleaner_UnknownMethodFallsBack(t *testing.T) {
	assert.Equal(t, InterpolateLinear, NewCleaner("cubic").method)
}

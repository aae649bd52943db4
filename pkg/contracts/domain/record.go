package domain

import (
	"encoding/json"
	"math"
	"time"
)

// Reading is a numeric measurement that may be missing
type Reading struct {
	Value float64
	Valid bool
}

// ValueOf returns a valid reading. NaN and infinities are treated as missing.
func ValueOf(v float64) Reading {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Reading{}
	}
	return Reading{Value: v, Valid: true}
}

// Missing returns a reading with no value.
func Missing() Reading {
	return Reading{}
}

// Float64 returns the value, or NaN when the reading is missing.
func (r Reading) Float64() float64 {
	if !r.Valid {
		return math.NaN()
	}
	return r.Value
}

// MarshalJSON encodes a missing reading as null.
func (r Reading) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(r.Value)
}

// UnmarshalJSON accepts a number or null.
func (r *Reading) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = Reading{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = ValueOf(v)
	return nil
}

// RawRecord is one row of a source file after type coercion
type RawRecord struct {
	Timestamp time.Time         `json:"startdate"`
	Frequency Reading           `json:"hz"`
	Magnitude Reading           `json:"vpm"`
	Extra     map[string]string `json:"extra,omitempty"`
	Row       int               `json:"row"` // 1-based data row index in the source file
	SourceTag string            `json:"source_file"`
}

// ReconstructedRecord is a RawRecord with its reconstructed sub-minute timestamp
type ReconstructedRecord struct {
	RawRecord
	PreciseTime  time.Time `json:"precise_time"`
	Interpolated bool      `json:"interpolated"` // frequency was filled by the cleaner
}

// Offset is the distance between the precise and the coarse timestamp.
func (r ReconstructedRecord) Offset() time.Duration {
	return r.PreciseTime.Sub(r.Timestamp)
}

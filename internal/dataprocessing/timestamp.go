package dataprocessing

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"osccli/pkg/contracts/domain"
)

// dayFirstLayouts are tried in order. Day and month accept one or two digits.
// ISO layouts come first because they are unambiguous.
var dayFirstLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.RFC3339,
	"2006-01-02",
	"2006.01.02 15:04:05",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2/1/2006 3:04:05 PM",
	"2/1/2006 3:04 PM",
	"2/1/2006",
	"2-1-2006 15:04:05",
	"2-1-2006 15:04",
	"2-1-2006",
	"2.1.2006 15:04:05",
	"2.1.2006 15:04",
	"2.1.2006",
	"2/1/06 15:04:05",
	"2/1/06 15:04",
	"2-1-06 15:04",
	"2-Jan-2006 15:04:05",
	"2-Jan-2006 15:04",
	"2 Jan 2006 15:04:05",
	"2 Jan 2006 15:04",
}

// SerialDates selects whether and how a bare number is read as a
// spreadsheet serial date
type SerialDates int

const (
	SerialNone SerialDates = iota // numbers are not dates (delimited text)
	Serial1900                    // days since 1899-12-30
	Serial1904                    // days since 1904-01-01
)

// maxSerialDate is the spreadsheet serial number of 9999-12-31
const maxSerialDate = 2958465

// minSerialTime is the earliest instant a serial date may decode to. Smaller
// serials are misread cells, not recordings.
var minSerialTime = time.Date(1950, 1, 1, 0, 0, 0, 0, time.UTC)

// ParseTimestamp parses a coarse timestamp, reading ambiguous numeric dates
// day-first. Unless serial is SerialNone, a bare number is read as a
// spreadsheet serial date in that date system and rounded to the second.
func ParseTimestamp(value string, serial SerialDates) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	if serial != SerialNone {
		if n, err := strconv.ParseFloat(value, 64); err == nil {
			if n <= 0 || n > maxSerialDate {
				return time.Time{}, fmt.Errorf("serial date %q out of range", value)
			}
			t, err := excelize.ExcelDateToTime(n, serial == Serial1904)
			if err != nil {
				return time.Time{}, fmt.Errorf("invalid serial date %q: %w", value, err)
			}
			t = t.Round(time.Second).UTC()
			if t.Before(minSerialTime) {
				return time.Time{}, fmt.Errorf("serial date %q decodes to %s, before %d", value, t.Format("2006-01-02"), minSerialTime.Year())
			}
			return t, nil
		}
	}

	for _, layout := range dayFirstLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}

// ParseReading coerces a cell to a float. Empty, non-numeric, NaN and
// infinite values become a missing reading.
func ParseReading(value string) domain.Reading {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return domain.Missing()
	}
	return domain.ValueOf(v)
}

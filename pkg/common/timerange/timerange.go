// Package timerange implements the half-open timestamp interval
// [min, max) a scan is restricted to.
package timerange

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidRange is returned when min > max.
var ErrInvalidRange = errors.New("invalid time range")

// Comparison results for Range.Compare.
const (
	// Before means the timestamp falls before the range.
	Before = -1
	// Within means the timestamp falls inside the range.
	Within = 0
	// After means the timestamp falls at or after the range's upper bound.
	After = 1
)

// Range is a half-open interval over timestamps: min inclusive, max
// exclusive. The zero value is not usable; construct with New, All or At.
// A Range is immutable and safe to share across a whole scan.
type Range struct {
	min     int64
	max     int64
	allTime bool
}

// All returns the range matching every timestamp.
func All() Range {
	return Range{min: 0, max: math.MaxInt64, allTime: true}
}

// New returns the range [min, max). min must not exceed max.
func New(min, max int64) (Range, error) {
	if min > max {
		return Range{}, fmt.Errorf("%w: min %d > max %d", ErrInvalidRange, min, max)
	}
	return Range{
		min:     min,
		max:     max,
		allTime: min == 0 && max == math.MaxInt64,
	}, nil
}

// At returns the range matching exactly one timestamp.
func At(ts int64) (Range, error) {
	return New(ts, ts+1)
}

// Min returns the inclusive lower bound.
func (r Range) Min() int64 { return r.min }

// Max returns the exclusive upper bound.
func (r Range) Max() int64 { return r.max }

// IsAllTime returns true if the range matches every timestamp.
func (r Range) IsAllTime() bool { return r.allTime }

// Compare classifies ts against the range as Before, Within or After.
func (r Range) Compare(ts int64) int {
	if r.allTime {
		return Within
	}
	if ts < r.min {
		return Before
	}
	if ts >= r.max {
		return After
	}
	return Within
}

// WithinTimeRange returns true if ts falls inside [min, max).
func (r Range) WithinTimeRange(ts int64) bool {
	return r.allTime || (ts >= r.min && ts < r.max)
}

// WithinOrAfterTimeRange returns true if ts falls inside the range or after
// it. Delete markers newer than the range still shadow cells inside it, so
// the ledger needs this weaker test.
func (r Range) WithinOrAfterTimeRange(ts int64) bool {
	return r.allTime || ts >= r.min
}

// String renders the range for diagnostics.
func (r Range) String() string {
	if r.allTime {
		return "[0, inf)"
	}
	return fmt.Sprintf("[%d, %d)", r.min, r.max)
}

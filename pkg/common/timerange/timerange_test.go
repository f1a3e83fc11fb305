package timerange

import (
	"errors"
	"math"
	"testing"
)

func TestNewRejectsInvertedBounds(t *testing.T) {
	_, err := New(10, 5)
	if err == nil {
		t.Fatal("Expected error for min > max")
	}
	if !errors.Is(err, ErrInvalidRange) {
		t.Errorf("Expected ErrInvalidRange, got %v", err)
	}
}

func TestCompareClassifiesTimestamps(t *testing.T) {
	r, err := New(10, 20)
	if err != nil {
		t.Fatalf("Failed to create range: %v", err)
	}

	tests := []struct {
		ts   int64
		want int
	}{
		{9, Before},
		{10, Within},
		{15, Within},
		{19, Within},
		{20, After}, // max is exclusive
		{100, After},
	}
	for _, tt := range tests {
		if got := r.Compare(tt.ts); got != tt.want {
			t.Errorf("Compare(%d) = %d, want %d", tt.ts, got, tt.want)
		}
	}
}

func TestAllTimeMatchesEverything(t *testing.T) {
	r := All()
	if !r.IsAllTime() {
		t.Fatal("All() should report all-time")
	}
	for _, ts := range []int64{0, 1, math.MaxInt64} {
		if r.Compare(ts) != Within {
			t.Errorf("All-time range should contain %d", ts)
		}
		if !r.WithinTimeRange(ts) {
			t.Errorf("WithinTimeRange(%d) should be true for all-time", ts)
		}
	}

	// Full-width explicit bounds collapse to all-time too.
	r2, err := New(0, math.MaxInt64)
	if err != nil {
		t.Fatalf("Failed to create range: %v", err)
	}
	if !r2.IsAllTime() {
		t.Error("New(0, MaxInt64) should be all-time")
	}
}

func TestAtMatchesSingleTimestamp(t *testing.T) {
	r, err := At(42)
	if err != nil {
		t.Fatalf("Failed to create range: %v", err)
	}
	if !r.WithinTimeRange(42) {
		t.Error("At(42) should contain 42")
	}
	if r.WithinTimeRange(41) || r.WithinTimeRange(43) {
		t.Error("At(42) should contain only 42")
	}
}

func TestWithinOrAfterTimeRange(t *testing.T) {
	r, err := New(10, 20)
	if err != nil {
		t.Fatalf("Failed to create range: %v", err)
	}
	if r.WithinOrAfterTimeRange(9) {
		t.Error("Timestamp below min should not be within-or-after")
	}
	if !r.WithinOrAfterTimeRange(10) {
		t.Error("Timestamp at min should be within-or-after")
	}
	if !r.WithinOrAfterTimeRange(1000) {
		t.Error("Timestamp past max should still be within-or-after")
	}
}

func TestString(t *testing.T) {
	if got := All().String(); got != "[0, inf)" {
		t.Errorf("All().String() = %q", got)
	}
	r, _ := New(5, 9)
	if got := r.String(); got != "[5, 9)" {
		t.Errorf("String() = %q, want [5, 9)", got)
	}
}

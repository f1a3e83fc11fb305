package scan

import (
	"testing"

	"github.com/CairnDB/cairn/pkg/common/cell"
)

func newWildcardTracker(t *testing.T, minVersions, maxVersions int, oldest int64) *WildcardColumnTracker {
	t.Helper()
	tr, err := NewWildcardColumnTracker(minVersions, maxVersions, oldest)
	if err != nil {
		t.Fatalf("Failed to create wildcard tracker: %v", err)
	}
	return tr
}

func TestWildcardTrackerAcceptsEveryColumn(t *testing.T) {
	tr := newWildcardTracker(t, 0, 1, 0)

	if tr.Done() {
		t.Error("Wildcard tracker is never done with a row")
	}
	if got := checkColumn(t, tr, putCell("anything", 10)); got != MatchInclude {
		t.Errorf("CheckColumn: got %s, want INCLUDE", got)
	}
	if hint := tr.ColumnHint(); hint != nil {
		t.Errorf("ColumnHint = %q, want nil", hint)
	}
}

func TestWildcardTrackerVersionBudget(t *testing.T) {
	tr := newWildcardTracker(t, 0, 2, 0)

	if got := checkVersions(t, tr, putCell("q", 30)); got != MatchInclude {
		t.Errorf("First version: got %s, want INCLUDE", got)
	}
	if got := checkVersions(t, tr, putCell("q", 20)); got != MatchInclude {
		t.Errorf("Second version: got %s, want INCLUDE", got)
	}
	if got := checkVersions(t, tr, putCell("q", 10)); got != MatchSeekNextCol {
		t.Errorf("Version past the budget: got %s, want SEEK_NEXT_COL", got)
	}
}

func TestWildcardTrackerNewColumnResetsBudget(t *testing.T) {
	tr := newWildcardTracker(t, 0, 1, 0)

	if got := checkVersions(t, tr, putCell("a", 30)); got != MatchInclude {
		t.Fatalf("Column a: got %s, want INCLUDE", got)
	}
	if got := checkVersions(t, tr, putCell("a", 20)); got != MatchSeekNextCol {
		t.Fatalf("Second version of a: got %s, want SEEK_NEXT_COL", got)
	}
	// A new column starts with a clean count.
	if got := checkVersions(t, tr, putCell("b", 30)); got != MatchInclude {
		t.Errorf("Column b: got %s, want INCLUDE", got)
	}
}

func TestWildcardTrackerDuplicateVersionSkipped(t *testing.T) {
	tr := newWildcardTracker(t, 0, 3, 0)

	if got := checkVersions(t, tr, putCell("q", 30)); got != MatchInclude {
		t.Fatalf("First copy: got %s, want INCLUDE", got)
	}
	if got := checkVersions(t, tr, putCell("q", 30)); got != MatchSkip {
		t.Errorf("Duplicate copy: got %s, want SKIP", got)
	}
}

func TestWildcardTrackerDeleteMarkersNotCounted(t *testing.T) {
	tr := newWildcardTracker(t, 0, 1, 0)

	marker := deleteMarker("q", 40, cell.TypeDelete)
	code, err := tr.CheckVersions(marker, marker.Timestamp, marker.Type, false)
	if err != nil {
		t.Fatalf("CheckVersions failed: %v", err)
	}
	if code != MatchInclude {
		t.Fatalf("Delete marker: got %s, want INCLUDE", code)
	}
	// The put below still fits in the one-version budget.
	if got := checkVersions(t, tr, putCell("q", 30)); got != MatchInclude {
		t.Errorf("Put after marker: got %s, want INCLUDE", got)
	}
}

func TestWildcardTrackerOutOfOrderColumnIsError(t *testing.T) {
	tr := newWildcardTracker(t, 0, 1, 0)
	checkVersions(t, tr, putCell("m", 30))

	if _, err := tr.CheckVersions(putCell("a", 30), 30, cell.TypePut, false); err == nil {
		t.Fatal("Expected error for a column running backwards")
	}
}

func TestWildcardTrackerTTLExpiry(t *testing.T) {
	const oldest = 100

	tr := newWildcardTracker(t, 0, 5, oldest)
	if got := checkVersions(t, tr, putCell("q", 99)); got != MatchSeekNextCol {
		t.Errorf("Expired version: got %s, want SEEK_NEXT_COL", got)
	}

	// minVersions keeps expired versions up to the floor.
	tr = newWildcardTracker(t, 1, 5, oldest)
	if got := checkVersions(t, tr, putCell("q", 99)); got != MatchInclude {
		t.Errorf("Expired version within min floor: got %s, want INCLUDE", got)
	}
	if got := checkVersions(t, tr, putCell("q", 98)); got != MatchSeekNextCol {
		t.Errorf("Expired version past min floor: got %s, want SEEK_NEXT_COL", got)
	}
}

func TestWildcardTrackerGetNextRowOrNextColumn(t *testing.T) {
	tr := newWildcardTracker(t, 0, 1, 0)
	if got := tr.GetNextRowOrNextColumn(putCell("q", 10)); got != MatchSeekNextCol {
		t.Errorf("Got %s, want SEEK_NEXT_COL", got)
	}
}

func TestWildcardTrackerReset(t *testing.T) {
	tr := newWildcardTracker(t, 0, 1, 0)
	checkVersions(t, tr, putCell("q", 30))
	tr.Reset()

	// After Reset the tracker accepts an earlier column again.
	if got := checkVersions(t, tr, putCell("a", 30)); got != MatchInclude {
		t.Errorf("After Reset: got %s, want INCLUDE", got)
	}
}

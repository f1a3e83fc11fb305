package scan

import (
	"testing"

	"github.com/CairnDB/cairn/pkg/common/cell"
)

func deleteMarker(qualifier string, ts int64, typ cell.Type) *cell.Cell {
	return &cell.Cell{
		Row:       []byte("row"),
		Family:    []byte("f"),
		Qualifier: []byte(qualifier),
		Timestamp: ts,
		Type:      typ,
	}
}

func putCell(qualifier string, ts int64) *cell.Cell {
	return &cell.Cell{
		Row:       []byte("row"),
		Family:    []byte("f"),
		Qualifier: []byte(qualifier),
		Timestamp: ts,
		Type:      cell.TypePut,
	}
}

func mustDeleteResult(t *testing.T, tr DeleteTracker, c *cell.Cell) DeleteResult {
	t.Helper()
	ret, err := tr.IsDeleted(c)
	if err != nil {
		t.Fatalf("IsDeleted(%s) failed: %v", c, err)
	}
	return ret
}

func TestDeleteTrackerEmpty(t *testing.T) {
	tr := NewScanDeleteTracker()
	if !tr.IsEmpty() {
		t.Fatal("New tracker should be empty")
	}
	if got := mustDeleteResult(t, tr, putCell("q", 10)); got != NotDeleted {
		t.Errorf("Empty tracker returned %s, want NOT_DELETED", got)
	}
}

func TestDeleteTrackerFamilyDelete(t *testing.T) {
	tr := NewScanDeleteTracker()
	tr.Add(deleteMarker("", 100, cell.TypeDeleteFamily))

	if got := mustDeleteResult(t, tr, putCell("a", 100)); got != FamilyDeleted {
		t.Errorf("Put at marker timestamp: got %s, want FAMILY_DELETED", got)
	}
	if got := mustDeleteResult(t, tr, putCell("z", 50)); got != FamilyDeleted {
		t.Errorf("Older put in any column: got %s, want FAMILY_DELETED", got)
	}
	if got := mustDeleteResult(t, tr, putCell("a", 101)); got != NotDeleted {
		t.Errorf("Newer put: got %s, want NOT_DELETED", got)
	}
}

func TestDeleteTrackerFamilyVersionDelete(t *testing.T) {
	tr := NewScanDeleteTracker()
	tr.Add(deleteMarker("", 70, cell.TypeDeleteFamilyVersion))
	tr.Add(deleteMarker("", 50, cell.TypeDeleteFamilyVersion))

	if got := mustDeleteResult(t, tr, putCell("a", 70)); got != FamilyVersionDeleted {
		t.Errorf("Put at stamped timestamp: got %s, want FAMILY_VERSION_DELETED", got)
	}
	if got := mustDeleteResult(t, tr, putCell("b", 50)); got != FamilyVersionDeleted {
		t.Errorf("Put at second stamp: got %s, want FAMILY_VERSION_DELETED", got)
	}
	if got := mustDeleteResult(t, tr, putCell("a", 60)); got != NotDeleted {
		t.Errorf("Put between stamps: got %s, want NOT_DELETED", got)
	}
}

func TestDeleteTrackerColumnDelete(t *testing.T) {
	tr := NewScanDeleteTracker()
	tr.Add(deleteMarker("col", 80, cell.TypeDeleteColumn))

	if got := mustDeleteResult(t, tr, putCell("col", 80)); got != ColumnDeleted {
		t.Errorf("Put at marker timestamp: got %s, want COLUMN_DELETED", got)
	}
	if got := mustDeleteResult(t, tr, putCell("col", 10)); got != ColumnDeleted {
		t.Errorf("Older put in the column: got %s, want COLUMN_DELETED", got)
	}
	// Moving to a later column clears the column marker.
	if got := mustDeleteResult(t, tr, putCell("zzz", 80)); got != NotDeleted {
		t.Errorf("Put in a later column: got %s, want NOT_DELETED", got)
	}
}

func TestDeleteTrackerVersionDelete(t *testing.T) {
	tr := NewScanDeleteTracker()
	tr.Add(deleteMarker("col", 40, cell.TypeDelete))

	if got := mustDeleteResult(t, tr, putCell("col", 40)); got != VersionDeleted {
		t.Errorf("Put at exactly the marker timestamp: got %s, want VERSION_DELETED", got)
	}
	if got := mustDeleteResult(t, tr, putCell("col", 39)); got != NotDeleted {
		t.Errorf("Older put: got %s, want NOT_DELETED", got)
	}
}

func TestDeleteTrackerEmptyQualifierMarker(t *testing.T) {
	// The zero-length qualifier is a real column; a marker on it must
	// register even though its qualifier slice is empty.
	tr := NewScanDeleteTracker()
	tr.Add(deleteMarker("", 40, cell.TypeDeleteColumn))
	if tr.IsEmpty() {
		t.Fatal("Tracker should not be empty after recording a marker on the null column")
	}
	if got := mustDeleteResult(t, tr, putCell("", 30)); got != ColumnDeleted {
		t.Errorf("Put in the null column: got %s, want COLUMN_DELETED", got)
	}
}

func TestDeleteTrackerFamilyStampSuppressesOlderMarkers(t *testing.T) {
	tr := NewScanDeleteTracker()
	tr.Add(deleteMarker("", 100, cell.TypeDeleteFamily))
	// Markers at or below the family stamp add nothing.
	tr.Add(deleteMarker("col", 90, cell.TypeDeleteColumn))

	if got := mustDeleteResult(t, tr, putCell("col", 95)); got != FamilyDeleted {
		t.Errorf("Got %s, want FAMILY_DELETED from the newer family stamp", got)
	}
}

func TestDeleteTrackerBroaderMarkerWins(t *testing.T) {
	tr := NewScanDeleteTracker()
	tr.Add(deleteMarker("col", 100, cell.TypeDeleteColumn))
	// A narrower version delete on the same column must not displace the
	// column-wide marker.
	tr.Add(deleteMarker("col", 90, cell.TypeDelete))

	if got := mustDeleteResult(t, tr, putCell("col", 50)); got != ColumnDeleted {
		t.Errorf("Got %s, want COLUMN_DELETED to survive the later version marker", got)
	}
}

func TestDeleteTrackerOutOfOrderIsError(t *testing.T) {
	tr := NewScanDeleteTracker()
	tr.Add(deleteMarker("m", 100, cell.TypeDeleteColumn))

	// A cell before the marker's column means key order was violated.
	if _, err := tr.IsDeleted(putCell("a", 100)); err == nil {
		t.Fatal("Expected out-of-order error")
	}
}

func TestDeleteTrackerReset(t *testing.T) {
	tr := NewScanDeleteTracker()
	tr.Add(deleteMarker("", 100, cell.TypeDeleteFamily))
	tr.Add(deleteMarker("", 70, cell.TypeDeleteFamilyVersion))
	tr.Add(deleteMarker("col", 110, cell.TypeDeleteColumn))
	if tr.IsEmpty() {
		t.Fatal("Tracker should not be empty before Reset")
	}

	tr.Reset()
	if !tr.IsEmpty() {
		t.Fatal("Tracker should be empty after Reset")
	}
	if got := mustDeleteResult(t, tr, putCell("col", 10)); got != NotDeleted {
		t.Errorf("After Reset: got %s, want NOT_DELETED", got)
	}
}

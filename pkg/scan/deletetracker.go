package scan

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/CairnDB/cairn/pkg/common/cell"
)

// DeleteResult classifies how (or whether) a cell is shadowed by delete
// markers recorded earlier in the row.
type DeleteResult int

const (
	// NotDeleted means no recorded marker covers the cell.
	NotDeleted DeleteResult = iota

	// FamilyDeleted means a DeleteFamily marker covers the cell.
	FamilyDeleted

	// FamilyVersionDeleted means a DeleteFamilyVersion marker covers
	// exactly this timestamp.
	FamilyVersionDeleted

	// ColumnDeleted means a DeleteColumn marker covers the cell.
	ColumnDeleted

	// VersionDeleted means a Delete marker covers exactly this version.
	VersionDeleted
)

// String returns the result's name.
func (d DeleteResult) String() string {
	switch d {
	case NotDeleted:
		return "NOT_DELETED"
	case FamilyDeleted:
		return "FAMILY_DELETED"
	case FamilyVersionDeleted:
		return "FAMILY_VERSION_DELETED"
	case ColumnDeleted:
		return "COLUMN_DELETED"
	case VersionDeleted:
		return "VERSION_DELETED"
	default:
		return fmt.Sprintf("DeleteResult(%d)", int(d))
	}
}

// DeleteTracker accumulates the delete markers seen in the current row and
// classifies whether later cells are shadowed by them. Family deletes take
// priority over column deletes, which take priority over version deletes,
// regardless of the order the markers arrived in. Reset at row boundaries.
type DeleteTracker interface {
	// Reset clears all recorded markers; called at each row transition.
	Reset()

	// Add records a delete marker cell.
	Add(c *cell.Cell)

	// IsEmpty returns true when no markers are pending.
	IsEmpty() bool

	// IsDeleted classifies a non-delete cell against the recorded
	// markers. An error indicates cells arriving out of key order, which
	// is corruption and fatal to the scan.
	IsDeleted(c *cell.Cell) (DeleteResult, error)
}

// ScanDeleteTracker is the delete ledger used for forward scans. Because
// delete markers sort ahead of the cells they affect, it only needs the
// newest family stamp, the set of family-version stamps, and the marker
// state for the single column currently being walked.
type ScanDeleteTracker struct {
	hasFamilyStamp      bool
	familyStamp         int64
	familyVersionStamps []int64

	deleteQualifier []byte
	deleteType      cell.Type
	deleteTimestamp int64
}

// NewScanDeleteTracker returns an empty tracker.
func NewScanDeleteTracker() *ScanDeleteTracker {
	return &ScanDeleteTracker{}
}

// Add records a delete marker for the current row.
func (t *ScanDeleteTracker) Add(c *cell.Cell) {
	ts := c.Timestamp
	if t.hasFamilyStamp && ts <= t.familyStamp {
		// Already covered by a newer family delete.
		return
	}
	switch c.Type {
	case cell.TypeDeleteFamily:
		t.hasFamilyStamp = true
		t.familyStamp = ts
		return
	case cell.TypeDeleteFamilyVersion:
		i := sort.Search(len(t.familyVersionStamps), func(i int) bool {
			return t.familyVersionStamps[i] >= ts
		})
		if i < len(t.familyVersionStamps) && t.familyVersionStamps[i] == ts {
			return
		}
		t.familyVersionStamps = append(t.familyVersionStamps, 0)
		copy(t.familyVersionStamps[i+1:], t.familyVersionStamps[i:])
		t.familyVersionStamps[i] = ts
		return
	}
	if t.deleteQualifier != nil && c.Type < t.deleteType &&
		bytes.Equal(c.Qualifier, t.deleteQualifier) {
		// A more specific marker for a column we already hold a broader
		// marker for: a Delete after a DeleteColumn adds nothing.
		return
	}
	// Non-nil even for the empty qualifier: nil-ness tracks marker presence.
	t.deleteQualifier = append(make([]byte, 0, len(c.Qualifier)), c.Qualifier...)
	t.deleteType = c.Type
	t.deleteTimestamp = ts
}

// IsDeleted classifies a cell against the recorded markers.
func (t *ScanDeleteTracker) IsDeleted(c *cell.Cell) (DeleteResult, error) {
	ts := c.Timestamp
	if t.hasFamilyStamp && ts <= t.familyStamp {
		return FamilyDeleted, nil
	}
	if len(t.familyVersionStamps) > 0 {
		i := sort.Search(len(t.familyVersionStamps), func(i int) bool {
			return t.familyVersionStamps[i] >= ts
		})
		if i < len(t.familyVersionStamps) && t.familyVersionStamps[i] == ts {
			return FamilyVersionDeleted, nil
		}
	}
	if t.deleteQualifier != nil {
		ret := bytes.Compare(t.deleteQualifier, c.Qualifier)
		switch {
		case ret == 0:
			if t.deleteType == cell.TypeDeleteColumn {
				return ColumnDeleted, nil
			}
			// A version delete affects puts at exactly its timestamp.
			if ts == t.deleteTimestamp {
				return VersionDeleted, nil
			}
		case ret < 0:
			// Moved past the column the marker covered.
			t.deleteQualifier = nil
		default:
			return NotDeleted, fmt.Errorf(
				"out-of-order cell in delete tracker: marker qualifier %q after cell qualifier %q",
				t.deleteQualifier, c.Qualifier)
		}
	}
	return NotDeleted, nil
}

// IsEmpty returns true when no markers are pending.
func (t *ScanDeleteTracker) IsEmpty() bool {
	return !t.hasFamilyStamp && t.deleteQualifier == nil &&
		len(t.familyVersionStamps) == 0
}

// Reset clears all recorded markers.
func (t *ScanDeleteTracker) Reset() {
	t.hasFamilyStamp = false
	t.familyStamp = 0
	t.familyVersionStamps = t.familyVersionStamps[:0]
	t.deleteQualifier = nil
	t.deleteType = 0
	t.deleteTimestamp = 0
}

var _ DeleteTracker = (*ScanDeleteTracker)(nil)

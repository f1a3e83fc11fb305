package scan

import (
	"bytes"
	"fmt"

	"github.com/CairnDB/cairn/pkg/common/cell"
)

// WildcardColumnTracker serves scans over all columns of the family. It has
// no target set to walk; it tracks the column currently under the cursor
// and its version count.
type WildcardColumnTracker struct {
	columnQualifier []byte
	hasColumn       bool
	currentCount    int

	maxVersions int
	minVersions int
	oldestStamp int64

	versionState columnVersionState
}

// NewWildcardColumnTracker builds a tracker that accepts every column.
func NewWildcardColumnTracker(minVersions, maxVersions int, oldestUnexpiredTS int64) (*WildcardColumnTracker, error) {
	if maxVersions < 1 {
		return nil, fmt.Errorf("max versions must be positive, got %d", maxVersions)
	}
	t := &WildcardColumnTracker{
		maxVersions: maxVersions,
		minVersions: minVersions,
		oldestStamp: oldestUnexpiredTS,
	}
	t.Reset()
	return t, nil
}

// Done always returns false: a wildcard scan is never done with a row until
// the row runs out of cells.
func (t *WildcardColumnTracker) Done() bool {
	return false
}

// IsDone returns true once expired versions can no longer be wanted.
func (t *WildcardColumnTracker) IsDone(ts int64) bool {
	return t.minVersions <= 0 && t.isExpired(ts)
}

// ColumnHint always returns nil: there is no next requested column.
func (t *WildcardColumnTracker) ColumnHint() []byte {
	return nil
}

// CheckColumn accepts every column; bookkeeping happens in CheckVersions.
func (t *WildcardColumnTracker) CheckColumn(c *cell.Cell, typ cell.Type) (MatchCode, error) {
	return MatchInclude, nil
}

// CheckVersions counts the version against the current column's budget,
// rolling the cursor forward when a new column starts.
func (t *WildcardColumnTracker) CheckVersions(c *cell.Cell, ts int64, typ cell.Type, ignoreCount bool) (MatchCode, error) {
	if !t.hasColumn {
		t.resetColumn(c)
		if ignoreCount {
			return MatchInclude, nil
		}
		return t.checkVersion(typ, ts), nil
	}
	cmp := bytes.Compare(c.Qualifier, t.columnQualifier)
	if cmp == 0 {
		if ignoreCount {
			return MatchInclude, nil
		}
		if t.versionState.sameAsPrevious(ts, typ) {
			// Same version surfaced by another source; already counted.
			return MatchSkip, nil
		}
		return t.checkVersion(typ, ts), nil
	}
	t.versionState.reset()
	if cmp > 0 {
		// A new column started.
		t.resetColumn(c)
		if ignoreCount {
			return MatchInclude, nil
		}
		return t.checkVersion(typ, ts), nil
	}
	// Cells ran backwards within the row: corruption.
	return MatchSkip, fmt.Errorf(
		"wildcard column tracker saw column %q after column %q",
		c.Qualifier, t.columnQualifier)
}

// checkVersion counts one version of the current column. Delete markers are
// never counted as versions but can still be emitted.
func (t *WildcardColumnTracker) checkVersion(typ cell.Type, ts int64) MatchCode {
	if !typ.IsDelete() {
		t.currentCount++
	}
	if t.currentCount > t.maxVersions {
		return MatchSeekNextCol
	}
	// Keep if inside the min-versions floor or not yet expired.
	if t.currentCount <= t.minVersions || !t.isExpired(ts) {
		t.versionState.set(ts, typ)
		return MatchInclude
	}
	return MatchSeekNextCol
}

// GetNextRowOrNextColumn always skips to the next column: without a target
// set there is never evidence the rest of the row is unwanted.
func (t *WildcardColumnTracker) GetNextRowOrNextColumn(c *cell.Cell) MatchCode {
	return MatchSeekNextCol
}

// Reset clears the column cursor.
func (t *WildcardColumnTracker) Reset() {
	t.columnQualifier = nil
	t.hasColumn = false
	t.currentCount = 0
	t.versionState.reset()
}

func (t *WildcardColumnTracker) resetColumn(c *cell.Cell) {
	t.columnQualifier = append(t.columnQualifier[:0], c.Qualifier...)
	t.hasColumn = true
	t.currentCount = 0
	t.versionState.reset()
}

func (t *WildcardColumnTracker) isExpired(ts int64) bool {
	return ts < t.oldestStamp
}

var _ ColumnTracker = (*WildcardColumnTracker)(nil)

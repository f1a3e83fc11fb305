package scan

import (
	"bytes"
	"fmt"

	"github.com/CairnDB/cairn/pkg/common/cell"
)

// ExplicitColumnTracker serves scans that requested a specific set of
// columns. It walks the requested set in step with the cells, which arrive
// in qualifier order, counting emitted versions per column.
type ExplicitColumnTracker struct {
	columns     [][]byte
	index       int
	column      []byte // columns[index], nil once exhausted
	currentCount int

	maxVersions int
	minVersions int

	// Timestamp horizon below which versions beyond minVersions expire.
	oldestStamp int64

	versionState columnVersionState
}

// NewExplicitColumnTracker builds a tracker over the requested qualifiers,
// which must be sorted ascending and free of duplicates.
func NewExplicitColumnTracker(columns [][]byte, minVersions, maxVersions int, oldestUnexpiredTS int64) (*ExplicitColumnTracker, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("explicit column tracker requires at least one column")
	}
	if maxVersions < 1 {
		return nil, fmt.Errorf("max versions must be positive, got %d", maxVersions)
	}
	t := &ExplicitColumnTracker{
		columns:     columns,
		maxVersions: maxVersions,
		minVersions: minVersions,
		oldestStamp: oldestUnexpiredTS,
	}
	t.Reset()
	return t, nil
}

// Done returns true once every requested column has been satisfied.
func (t *ExplicitColumnTracker) Done() bool {
	return t.index >= len(t.columns)
}

// IsDone returns true once expired versions can no longer be wanted.
func (t *ExplicitColumnTracker) IsDone(ts int64) bool {
	return t.minVersions <= 0 && t.isExpired(ts)
}

// ColumnHint returns the requested column currently being sought, or nil
// once the set is exhausted.
func (t *ExplicitColumnTracker) ColumnHint() []byte {
	return t.column
}

// CheckColumn advances the requested set until it reaches or passes the
// cell's qualifier.
func (t *ExplicitColumnTracker) CheckColumn(c *cell.Cell, typ cell.Type) (MatchCode, error) {
	if typ.IsDelete() {
		return MatchInclude, fmt.Errorf("delete marker passed to CheckColumn: %s", c)
	}
	for {
		// Exhausted the requested set, done with row.
		if t.column == nil {
			return MatchSeekNextRow, nil
		}
		ret := bytes.Compare(c.Qualifier, t.column)
		if ret == 0 {
			return MatchInclude, nil
		}
		t.versionState.reset()
		if ret < 0 {
			// The cell sorts before the requested column; seek ahead.
			return MatchSeekNextCol, nil
		}
		// Cell is past the current requested column; move to the next.
		t.index++
		t.currentCount = 0
		if t.Done() {
			t.column = nil
			return MatchSeekNextRow, nil
		}
		t.column = t.columns[t.index]
	}
}

// CheckVersions counts this version against the column's budget.
func (t *ExplicitColumnTracker) CheckVersions(c *cell.Cell, ts int64, typ cell.Type, ignoreCount bool) (MatchCode, error) {
	if ignoreCount {
		return MatchInclude, nil
	}
	if t.versionState.sameAsPrevious(ts, typ) {
		// Same version surfaced by another source; already counted.
		return MatchSkip, nil
	}
	t.currentCount++
	if t.currentCount >= t.maxVersions ||
		(t.currentCount >= t.minVersions && t.isExpired(ts)) {
		// Budget used up, move to the next requested column.
		t.index++
		t.versionState.reset()
		if t.Done() {
			t.column = nil
			return MatchIncludeAndSeekNextRow, nil
		}
		t.column = t.columns[t.index]
		t.currentCount = 0
		return MatchIncludeAndSeekNextCol, nil
	}
	t.versionState.set(ts, typ)
	return MatchInclude, nil
}

// GetNextRowOrNextColumn skips the cell's column, advancing past any
// requested columns it already covers.
func (t *ExplicitColumnTracker) GetNextRowOrNextColumn(c *cell.Cell) MatchCode {
	t.doneWithColumn(c)
	if t.column == nil {
		return MatchSeekNextRow
	}
	return MatchSeekNextCol
}

// doneWithColumn drops every requested column at or before the cell's
// qualifier.
func (t *ExplicitColumnTracker) doneWithColumn(c *cell.Cell) {
	for t.column != nil {
		if bytes.Compare(t.column, c.Qualifier) > 0 {
			return
		}
		t.versionState.reset()
		t.index++
		t.currentCount = 0
		if t.Done() {
			t.column = nil
			return
		}
		t.column = t.columns[t.index]
	}
}

// Reset restarts the tracker at the first requested column.
func (t *ExplicitColumnTracker) Reset() {
	t.index = 0
	t.column = t.columns[0]
	t.currentCount = 0
	t.versionState.reset()
}

func (t *ExplicitColumnTracker) isExpired(ts int64) bool {
	return ts < t.oldestStamp
}

var _ ColumnTracker = (*ExplicitColumnTracker)(nil)

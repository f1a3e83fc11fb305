package scan

import (
	"github.com/CairnDB/cairn/pkg/common/cell"
)

// ColumnTracker tracks, within the current row, which columns are still
// wanted and how many versions each may still contribute, against the
// scan's min/max version policy and the family's TTL horizon. Two variants
// exist: one for explicitly requested columns, one for wildcard (all
// columns) scans. Reset at row boundaries.
type ColumnTracker interface {
	// Reset clears per-row progress; called at each row transition.
	Reset()

	// Done returns true once no further column in this row can be wanted.
	Done() bool

	// IsDone is a fast early-out: true once no version at or before ts
	// in the current column can be wanted.
	IsDone(ts int64) bool

	// CheckColumn classifies whether the cell's column is wanted at all,
	// ignoring version budgets. Delete markers must not be passed here.
	CheckColumn(c *cell.Cell, typ cell.Type) (MatchCode, error)

	// CheckVersions classifies whether this specific version is wanted.
	// ignoreCount suppresses budget accounting for versions above the
	// scan's read point. Called only after CheckColumn said include.
	CheckVersions(c *cell.Cell, ts int64, typ cell.Type, ignoreCount bool) (MatchCode, error)

	// GetNextRowOrNextColumn produces the correct skip decision for the
	// cell's column given the tracker's current state.
	GetNextRowOrNextColumn(c *cell.Cell) MatchCode

	// ColumnHint returns the next column the tracker still wants, or nil.
	// Used to synthesize seek keys.
	ColumnHint() []byte
}

// columnVersionState carries the duplicate-version bookkeeping both tracker
// variants share: the same (timestamp, type) appearing in several sources
// must only be counted once.
type columnVersionState struct {
	latestTS   int64
	latestType cell.Type
}

func (s *columnVersionState) sameAsPrevious(ts int64, typ cell.Type) bool {
	return s.latestTS == ts && s.latestType == typ
}

func (s *columnVersionState) set(ts int64, typ cell.Type) {
	s.latestTS = ts
	s.latestType = typ
}

func (s *columnVersionState) reset() {
	s.latestTS = cell.LatestTimestamp
	s.latestType = 0
}

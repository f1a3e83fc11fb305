// Package scan implements the visibility-decision engine of the read path:
// given cells in key order from the merge iterator, it decides per cell
// whether to emit it, drop it, or direct the caller to seek ahead, while
// reconciling MVCC visibility, delete markers, TTL, the scan's time range,
// version budgets and an optional pluggable filter.
package scan

import "fmt"

// MatchCode is the decision the matcher hands back for one cell. It
// instructs the merge iterator what to do with the current cell and where
// to go next.
type MatchCode int

const (
	// MatchInclude emits the cell in the result.
	MatchInclude MatchCode = iota

	// MatchSkip drops the cell and moves to the next one.
	MatchSkip

	// MatchSeekNextRow drops the cell; nothing further in this row can
	// match, seek to the next row.
	MatchSeekNextRow

	// MatchSeekNextCol drops the cell; nothing further in this column can
	// match, seek to the next column.
	MatchSeekNextCol

	// MatchDone ends the current row; the caller has already moved past it.
	MatchDone

	// MatchDoneScan ends the whole scan.
	MatchDoneScan

	// MatchSeekUsingHint drops the cell and seeks to the position the
	// filter supplies through NextCellHint.
	MatchSeekUsingHint

	// MatchIncludeAndSeekNextCol emits the cell and seeks to the next
	// column.
	MatchIncludeAndSeekNextCol

	// MatchIncludeAndSeekNextRow emits the cell and seeks to the next row.
	MatchIncludeAndSeekNextRow
)

// IsInclude returns true for the three decisions that emit the cell.
func (m MatchCode) IsInclude() bool {
	return m == MatchInclude || m == MatchIncludeAndSeekNextCol ||
		m == MatchIncludeAndSeekNextRow
}

// String returns the decision's name.
func (m MatchCode) String() string {
	switch m {
	case MatchInclude:
		return "INCLUDE"
	case MatchSkip:
		return "SKIP"
	case MatchSeekNextRow:
		return "SEEK_NEXT_ROW"
	case MatchSeekNextCol:
		return "SEEK_NEXT_COL"
	case MatchDone:
		return "DONE"
	case MatchDoneScan:
		return "DONE_SCAN"
	case MatchSeekUsingHint:
		return "SEEK_USING_HINT"
	case MatchIncludeAndSeekNextCol:
		return "INCLUDE_AND_SEEK_NEXT_COL"
	case MatchIncludeAndSeekNextRow:
		return "INCLUDE_AND_SEEK_NEXT_ROW"
	default:
		return fmt.Sprintf("MatchCode(%d)", int(m))
	}
}

package scan

import (
	"fmt"

	"github.com/CairnDB/cairn/pkg/common/cell"
)

// ReturnCode is the verdict a Filter hands back for one cell.
type ReturnCode int

const (
	// FilterInclude keeps the cell.
	FilterInclude ReturnCode = iota

	// FilterIncludeAndNextCol keeps the cell and asks to seek to the next
	// column.
	FilterIncludeAndNextCol

	// FilterIncludeAndSeekNextRow keeps the cell and asks to seek to the
	// next row.
	FilterIncludeAndSeekNextRow

	// FilterSkip drops the cell.
	FilterSkip

	// FilterNextCol drops the cell and the rest of its column.
	//
	// Deprecated: filters should return FilterSeekNextUsingHint with a
	// first-on-next-column hint instead; retained for compatibility.
	FilterNextCol

	// FilterNextRow drops the cell and the rest of its row.
	FilterNextRow

	// FilterSeekNextUsingHint drops the cell and asks to seek to the
	// position returned by NextCellHint.
	FilterSeekNextUsingHint
)

// String returns the verdict's name.
func (r ReturnCode) String() string {
	switch r {
	case FilterInclude:
		return "INCLUDE"
	case FilterIncludeAndNextCol:
		return "INCLUDE_AND_NEXT_COL"
	case FilterIncludeAndSeekNextRow:
		return "INCLUDE_AND_SEEK_NEXT_ROW"
	case FilterSkip:
		return "SKIP"
	case FilterNextCol:
		return "NEXT_COL"
	case FilterNextRow:
		return "NEXT_ROW"
	case FilterSeekNextUsingHint:
		return "SEEK_NEXT_USING_HINT"
	default:
		return fmt.Sprintf("ReturnCode(%d)", int(r))
	}
}

// Filter is the externally pluggable row/column predicate. Implementations
// are injected at scan construction; the matcher treats a nil Filter as
// always-include. Filters may carry per-row state; they are used by exactly
// one scan at a time.
type Filter interface {
	// FilterAllRemaining returns true once nothing further in the scan
	// can pass; the matcher then ends the whole scan.
	FilterAllRemaining() bool

	// FilterCell judges one cell. An error is fatal to the scan.
	FilterCell(c *cell.Cell) (ReturnCode, error)

	// IsFamilyEssential reports whether the family must be loaded for the
	// filter to make its decision.
	IsFamilyEssential(family []byte) bool

	// NextCellHint returns the position to seek to after a
	// FilterSeekNextUsingHint verdict, or nil if the filter has none.
	NextCellHint(c *cell.Cell) *cell.Cell
}

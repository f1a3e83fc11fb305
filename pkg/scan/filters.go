package scan

import (
	"bytes"
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/CairnDB/cairn/pkg/common/cell"
)

// Built-in filters. These cover the common predicate shapes and double as
// reference implementations of the Filter contract, seek hints included.

// ColumnPrefixFilter keeps only cells whose qualifier starts with a prefix,
// steering the scan with seek hints instead of skipping cell by cell.
type ColumnPrefixFilter struct {
	prefix []byte
}

// NewColumnPrefixFilter returns a filter matching qualifiers with the given
// prefix.
func NewColumnPrefixFilter(prefix []byte) *ColumnPrefixFilter {
	return &ColumnPrefixFilter{prefix: prefix}
}

// FilterAllRemaining always returns false: later rows may still match.
func (f *ColumnPrefixFilter) FilterAllRemaining() bool { return false }

// FilterCell keeps qualifiers under the prefix, seeks forward to the prefix
// when the qualifier sorts before it, and gives up on the row once past it.
func (f *ColumnPrefixFilter) FilterCell(c *cell.Cell) (ReturnCode, error) {
	if len(c.Qualifier) >= len(f.prefix) && bytes.HasPrefix(c.Qualifier, f.prefix) {
		return FilterInclude, nil
	}
	if bytes.Compare(c.Qualifier, f.prefix) < 0 {
		return FilterSeekNextUsingHint, nil
	}
	return FilterNextRow, nil
}

// IsFamilyEssential returns true: the verdict depends on the cell itself.
func (f *ColumnPrefixFilter) IsFamilyEssential(family []byte) bool { return true }

// NextCellHint seeks to the first possible cell of the prefixed column
// range on the current row.
func (f *ColumnPrefixFilter) NextCellHint(c *cell.Cell) *cell.Cell {
	return cell.FirstOnRowCol(c, f.prefix)
}

var _ Filter = (*ColumnPrefixFilter)(nil)

// TimestampsFilter keeps only cells whose timestamp is in a fixed set.
// Because versions arrive newest first, once the cell's timestamp drops
// below a selected one the filter can hint a direct seek to it.
type TimestampsFilter struct {
	// Sorted descending, matching scan order within a column.
	timestamps []int64
	minTS      int64
}

// NewTimestampsFilter returns a filter selecting exactly the given
// timestamps.
func NewTimestampsFilter(timestamps ...int64) *TimestampsFilter {
	ts := append([]int64(nil), timestamps...)
	sort.Slice(ts, func(i, j int) bool { return ts[i] > ts[j] })
	min := int64(0)
	if len(ts) > 0 {
		min = ts[len(ts)-1]
	}
	return &TimestampsFilter{timestamps: ts, minTS: min}
}

// FilterAllRemaining always returns false.
func (f *TimestampsFilter) FilterAllRemaining() bool { return false }

// FilterCell keeps selected timestamps, skips to the next column once below
// the smallest one, and otherwise hints a seek to the next selected
// timestamp below the cell's.
func (f *TimestampsFilter) FilterCell(c *cell.Cell) (ReturnCode, error) {
	for _, ts := range f.timestamps {
		if c.Timestamp == ts {
			return FilterInclude, nil
		}
		if c.Timestamp > ts {
			break
		}
	}
	if c.Timestamp < f.minTS {
		return FilterNextCol, nil
	}
	return FilterSeekNextUsingHint, nil
}

// IsFamilyEssential returns true.
func (f *TimestampsFilter) IsFamilyEssential(family []byte) bool { return true }

// NextCellHint seeks to the same column at the largest selected timestamp
// below the cell's own.
func (f *TimestampsFilter) NextCellHint(c *cell.Cell) *cell.Cell {
	for _, ts := range f.timestamps {
		if ts < c.Timestamp {
			hint := c.Clone()
			hint.Timestamp = ts
			hint.Type = cell.TypeMaximum
			hint.Value = nil
			return hint
		}
	}
	return cell.LastOnRowCol(c)
}

var _ Filter = (*TimestampsFilter)(nil)

// RowSampleFilter keeps a deterministic 1-in-n sample of rows, hashing the
// row key so repeated scans select the same rows.
type RowSampleFilter struct {
	modulus uint64

	// Verdict for the current row, computed once at its first cell.
	currentRow []byte
	keepRow    bool
}

// NewRowSampleFilter returns a filter keeping rows whose hash falls in the
// 1/modulus sample. A modulus of 1 keeps everything.
func NewRowSampleFilter(modulus uint64) *RowSampleFilter {
	if modulus == 0 {
		modulus = 1
	}
	return &RowSampleFilter{modulus: modulus}
}

// FilterAllRemaining always returns false.
func (f *RowSampleFilter) FilterAllRemaining() bool { return false }

// FilterCell keeps every cell of a sampled row and skips whole rows
// otherwise.
func (f *RowSampleFilter) FilterCell(c *cell.Cell) (ReturnCode, error) {
	if !bytes.Equal(f.currentRow, c.Row) {
		f.currentRow = append(f.currentRow[:0], c.Row...)
		f.keepRow = xxhash.Sum64(c.Row)%f.modulus == 0
	}
	if f.keepRow {
		return FilterInclude, nil
	}
	return FilterNextRow, nil
}

// IsFamilyEssential returns true: the row key alone decides, so any family
// serves.
func (f *RowSampleFilter) IsFamilyEssential(family []byte) bool { return true }

// NextCellHint returns nil; this filter never asks for a hinted seek.
func (f *RowSampleFilter) NextCellHint(c *cell.Cell) *cell.Cell { return nil }

var _ Filter = (*RowSampleFilter)(nil)

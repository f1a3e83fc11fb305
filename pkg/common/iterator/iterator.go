// Package iterator defines the cell-stream contract between the read
// path's sorted sources and the visibility engine. The merging of multiple
// sources lives with the caller; the engine only requires that whatever
// feeds it satisfies this interface and delivers cells in key order.
package iterator

import (
	"github.com/CairnDB/cairn/pkg/common/cell"
)

// Iterator walks versioned cells in key order.
type Iterator interface {
	// SeekToFirst positions the iterator at the first cell
	SeekToFirst()

	// Seek positions the iterator at the first cell >= target
	Seek(target *cell.Cell) bool

	// Next advances the iterator to the next cell
	Next() bool

	// Cell returns the cell at the current position
	Cell() *cell.Cell

	// Valid returns true if the iterator is positioned at a valid cell
	Valid() bool
}

// SliceIterator walks an in-memory sorted slice of cells. Sources hand the
// read path far larger structures in production; this one backs tests and
// benchmarks.
type SliceIterator struct {
	cells []*cell.Cell
	pos   int
}

// NewSliceIterator wraps a slice of cells already sorted in key order.
func NewSliceIterator(cells []*cell.Cell) *SliceIterator {
	return &SliceIterator{cells: cells, pos: -1}
}

// SeekToFirst positions the iterator at the first cell
func (it *SliceIterator) SeekToFirst() {
	if len(it.cells) > 0 {
		it.pos = 0
	} else {
		it.pos = -1
	}
}

// Seek positions the iterator at the first cell >= target
func (it *SliceIterator) Seek(target *cell.Cell) bool {
	for i, c := range it.cells {
		if cell.Compare(c, target) >= 0 {
			it.pos = i
			return true
		}
	}
	it.pos = -1
	return false
}

// Next advances the iterator to the next cell
func (it *SliceIterator) Next() bool {
	if it.pos < 0 || it.pos+1 >= len(it.cells) {
		it.pos = -1
		return false
	}
	it.pos++
	return true
}

// Cell returns the cell at the current position
func (it *SliceIterator) Cell() *cell.Cell {
	if !it.Valid() {
		return nil
	}
	return it.cells[it.pos]
}

// Valid returns true if the iterator is positioned at a valid cell
func (it *SliceIterator) Valid() bool {
	return it.pos >= 0 && it.pos < len(it.cells)
}

var _ Iterator = (*SliceIterator)(nil)

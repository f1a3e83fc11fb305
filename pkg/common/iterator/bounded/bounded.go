// Package bounded constrains a cell iterator to a row range.
package bounded

import (
	"bytes"

	"github.com/CairnDB/cairn/pkg/common/cell"
	"github.com/CairnDB/cairn/pkg/common/iterator"
)

// BoundedIterator wraps an iterator and limits it to rows in
// [startRow, stopRow). Empty bounds leave the respective end open.
type BoundedIterator struct {
	iterator.Iterator
	startRow []byte
	stopRow  []byte
}

// NewBoundedIterator creates a new bounded iterator over the given row
// range. The bounds are copied.
func NewBoundedIterator(it iterator.Iterator, startRow, stopRow []byte) *BoundedIterator {
	return &BoundedIterator{
		Iterator: it,
		startRow: append([]byte(nil), startRow...),
		stopRow:  append([]byte(nil), stopRow...),
	}
}

// SeekToFirst positions at the first cell of the first in-range row
func (b *BoundedIterator) SeekToFirst() {
	if len(b.startRow) > 0 {
		b.Iterator.Seek(cell.FirstOnRow(b.startRow))
	} else {
		b.Iterator.SeekToFirst()
	}
}

// Seek positions at the first in-range cell >= target
func (b *BoundedIterator) Seek(target *cell.Cell) bool {
	if len(b.startRow) > 0 && bytes.Compare(target.Row, b.startRow) < 0 {
		target = cell.FirstOnRow(b.startRow)
	}
	if len(b.stopRow) > 0 && bytes.Compare(target.Row, b.stopRow) >= 0 {
		return false
	}
	if !b.Iterator.Seek(target) {
		return false
	}
	return b.inBounds()
}

// Next advances to the next in-range cell
func (b *BoundedIterator) Next() bool {
	if !b.inBounds() {
		return false
	}
	if !b.Iterator.Next() {
		return false
	}
	return b.inBounds()
}

// Valid returns true if positioned at a valid in-range cell
func (b *BoundedIterator) Valid() bool {
	return b.Iterator.Valid() && b.inBounds()
}

// Cell returns the current cell if within bounds
func (b *BoundedIterator) Cell() *cell.Cell {
	if !b.Valid() {
		return nil
	}
	return b.Iterator.Cell()
}

func (b *BoundedIterator) inBounds() bool {
	if !b.Iterator.Valid() {
		return false
	}
	row := b.Iterator.Cell().Row
	if len(b.startRow) > 0 && bytes.Compare(row, b.startRow) < 0 {
		return false
	}
	if len(b.stopRow) > 0 && bytes.Compare(row, b.stopRow) >= 0 {
		return false
	}
	return true
}

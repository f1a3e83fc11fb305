// Package cell defines the versioned cell model used across the read path.
// A cell is one version of one column: (row, family, qualifier, timestamp,
// type, sequence id). Cells are immutable once handed to the read path.
package cell

import (
	"fmt"
	"math"
	"time"
)

// Type identifies what a cell represents. The byte codes participate in key
// ordering: for an otherwise identical key, a higher code sorts first, so a
// DeleteFamily marker sorts ahead of every cell it can shadow.
type Type byte

const (
	// TypeMinimum is a synthetic type used in seek keys that must sort
	// after every real cell of the same key prefix.
	TypeMinimum Type = 0

	// TypePut is a regular value write.
	TypePut Type = 4

	// TypeDelete marks exactly one version (same qualifier, same timestamp)
	// as deleted.
	TypeDelete Type = 8

	// TypeDeleteFamilyVersion marks one version in every column of the
	// family as deleted.
	TypeDeleteFamilyVersion Type = 10

	// TypeDeleteColumn marks all versions of one column at or before its
	// timestamp as deleted.
	TypeDeleteColumn Type = 12

	// TypeDeleteFamily marks all cells of the family at or before its
	// timestamp as deleted.
	TypeDeleteFamily Type = 14

	// TypeMaximum is a synthetic type used in seek keys that must sort
	// before every real cell of the same key prefix.
	TypeMaximum Type = 255
)

// Reserved timestamp values.
const (
	// LatestTimestamp sorts before every real timestamp (timestamps order
	// descending within a column).
	LatestTimestamp int64 = math.MaxInt64

	// OldestTimestamp marks synthetic seek-priming cells. A cell carrying
	// it must never be returned to a caller as a real result.
	OldestTimestamp int64 = 0
)

// String returns a human-readable name for the cell type.
func (t Type) String() string {
	switch t {
	case TypeMinimum:
		return "Minimum"
	case TypePut:
		return "Put"
	case TypeDelete:
		return "Delete"
	case TypeDeleteFamilyVersion:
		return "DeleteFamilyVersion"
	case TypeDeleteColumn:
		return "DeleteColumn"
	case TypeDeleteFamily:
		return "DeleteFamily"
	case TypeMaximum:
		return "Maximum"
	default:
		return fmt.Sprintf("Type(%d)", byte(t))
	}
}

// IsDelete returns true for any of the four delete marker types.
func (t Type) IsDelete() bool {
	return t == TypeDelete || t == TypeDeleteFamilyVersion ||
		t == TypeDeleteColumn || t == TypeDeleteFamily
}

// IsValid returns true if the byte is one of the defined type codes.
// Anything else reaching the read path indicates corruption.
func (t Type) IsValid() bool {
	switch t {
	case TypeMinimum, TypePut, TypeDelete, TypeDeleteFamilyVersion,
		TypeDeleteColumn, TypeDeleteFamily, TypeMaximum:
		return true
	}
	return false
}

// Cell is one version of one column. The read path never mutates a Cell and
// never retains the byte slices beyond the current match call unless it
// copies them.
type Cell struct {
	Row       []byte
	Family    []byte
	Qualifier []byte
	Value     []byte

	// Timestamp in milliseconds since epoch, assigned at write time.
	Timestamp int64

	Type Type

	// SeqID is the MVCC sequence id assigned at commit. Cells with a
	// sequence id above a reader's read point are invisible to it.
	SeqID uint64

	// TTL is an optional per-cell time to live. Zero means the cell only
	// expires through its family's TTL horizon.
	TTL time.Duration
}

// IsDelete returns true if the cell is a delete marker of any kind.
func (c *Cell) IsDelete() bool {
	return c.Type.IsDelete()
}

// Expired reports whether the cell's own TTL has lapsed at the given wall
// clock time (milliseconds). Cells without a per-cell TTL never expire here;
// family-level TTL is enforced by the column trackers.
func (c *Cell) Expired(now int64) bool {
	if c.TTL <= 0 {
		return false
	}
	return c.Timestamp+c.TTL.Milliseconds() < now
}

// Clone returns a deep copy of the cell.
func (c *Cell) Clone() *Cell {
	out := &Cell{
		Timestamp: c.Timestamp,
		Type:      c.Type,
		SeqID:     c.SeqID,
		TTL:       c.TTL,
	}
	out.Row = append([]byte(nil), c.Row...)
	out.Family = append([]byte(nil), c.Family...)
	out.Qualifier = append([]byte(nil), c.Qualifier...)
	out.Value = append([]byte(nil), c.Value...)
	return out
}

// String renders the cell's coordinates for diagnostics.
func (c *Cell) String() string {
	return fmt.Sprintf("%s/%s:%s/%d/%s/seq=%d",
		c.Row, c.Family, c.Qualifier, c.Timestamp, c.Type, c.SeqID)
}

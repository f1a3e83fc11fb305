package scan

import (
	"bytes"

	"github.com/google/btree"

	"github.com/CairnDB/cairn/pkg/common/timerange"
)

// Scan describes one read request: row bounds, time range, version limit,
// requested columns and the optional filter. Build it with the setters,
// then hand it to NewMatcher; the matcher does not mutate it afterwards.
type Scan struct {
	startRow []byte
	stopRow  []byte

	tr timerange.Range

	maxVersions int
	raw         bool
	reversed    bool
	get         bool

	filter Filter

	// Requested qualifiers, kept ordered and deduplicated. Empty means
	// wildcard: every column of the family.
	columns *btree.BTreeG[[]byte]
}

// NewScan returns a scan over [startRow, stopRow) selecting the newest
// version of every column.
func NewScan(startRow, stopRow []byte) *Scan {
	return &Scan{
		startRow:    startRow,
		stopRow:     stopRow,
		tr:          timerange.All(),
		maxVersions: 1,
	}
}

// NewGetScan returns a single-row (point lookup) scan.
func NewGetScan(row []byte) *Scan {
	s := NewScan(row, row)
	s.get = true
	return s
}

// SetTimeRange restricts the scan to the given time range.
func (s *Scan) SetTimeRange(tr timerange.Range) *Scan {
	s.tr = tr
	return s
}

// SetMaxVersions sets how many versions per column the scan wants.
func (s *Scan) SetMaxVersions(n int) *Scan {
	s.maxVersions = n
	return s
}

// SetRaw makes the scan return delete markers and the cells they shadow,
// bypassing delete handling entirely.
func (s *Scan) SetRaw(raw bool) *Scan {
	s.raw = raw
	return s
}

// SetReversed flips the scan direction.
func (s *Scan) SetReversed(reversed bool) *Scan {
	s.reversed = reversed
	return s
}

// SetFilter installs the external predicate.
func (s *Scan) SetFilter(f Filter) *Scan {
	s.filter = f
	return s
}

// AddColumn adds one requested qualifier. Without any, the scan covers all
// columns.
func (s *Scan) AddColumn(qualifier []byte) *Scan {
	if s.columns == nil {
		s.columns = btree.NewG[[]byte](2, func(a, b []byte) bool {
			return bytes.Compare(a, b) < 0
		})
	}
	// Non-nil even for the empty qualifier: the null column is a real column.
	s.columns.ReplaceOrInsert(append(make([]byte, 0, len(qualifier)), qualifier...))
	return s
}

// Columns returns the requested qualifiers in ascending order, or nil for a
// wildcard scan.
func (s *Scan) Columns() [][]byte {
	if s.columns == nil || s.columns.Len() == 0 {
		return nil
	}
	out := make([][]byte, 0, s.columns.Len())
	s.columns.Ascend(func(q []byte) bool {
		out = append(out, q)
		return true
	})
	return out
}

// StartRow returns the inclusive start row.
func (s *Scan) StartRow() []byte { return s.startRow }

// StopRow returns the exclusive stop row (inclusive when reversed).
func (s *Scan) StopRow() []byte { return s.stopRow }

// TimeRange returns the scan's time range.
func (s *Scan) TimeRange() timerange.Range { return s.tr }

// MaxVersions returns the requested per-column version limit.
func (s *Scan) MaxVersions() int { return s.maxVersions }

// IsRaw returns true for raw scans.
func (s *Scan) IsRaw() bool { return s.raw }

// IsReversed returns true for reversed scans.
func (s *Scan) IsReversed() bool { return s.reversed }

// IsGetScan returns true for single-row lookups.
func (s *Scan) IsGetScan() bool {
	return s.get || (len(s.startRow) > 0 && bytes.Equal(s.startRow, s.stopRow))
}

// Filter returns the installed predicate, or nil.
func (s *Scan) Filter() Filter { return s.filter }

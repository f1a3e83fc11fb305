package scan

import (
	"errors"
	"fmt"

	"github.com/CairnDB/cairn/pkg/common/cell"
	"github.com/CairnDB/cairn/pkg/common/timerange"
)

// ErrInvalidDropRange is returned when a drop-deletes matcher is
// constructed with a nil bound.
var ErrInvalidDropRange = errors.New("drop deletes range bounds must be non-nil")

// Matcher is the per-cell visibility state machine. The merge iterator
// feeds it every cell in key order, notifies it of row changes through
// SetToNewRow, and acts on the MatchCode it returns. One Matcher serves one
// scan or compaction and is not safe for concurrent use.
type Matcher struct {
	// Once a decision covers the rest of the row, later cells short out
	// to SeekNextRow without re-evaluation; cleared at row transitions.
	stickyNextRow bool

	stopRow []byte

	tr timerange.Range

	filter Filter

	deletes DeleteTracker
	columns ColumnTracker

	// Whether delete markers are passed through to the output. Mutable:
	// a partial drop-deletes range flips it off inside the range.
	retainDeletesInOutput bool

	keepDeletedCells     KeepDeletedCells
	seePastDeleteMarkers bool

	startKey *cell.Cell

	// Row the matcher is currently on; every submitted cell must carry it
	// until the next SetToNewRow.
	curCell *cell.Cell

	// Oldest put across the involved sources; a family delete older than
	// this can shadow nothing and may be dropped.
	earliestPutTs int64

	// TTL horizon and wall clock, both milliseconds.
	oldestUnexpiredTS int64
	now               int64

	// Cells above this read point are invisible to version counting.
	maxReadPointToTrackVersions uint64

	dropDeletesFromRow []byte
	dropDeletesToRow   []byte
	dropDeletes        bool

	hasNullColumn bool

	timeToPurgeDeletes int64

	isUserScan bool
	reversed   bool
	get        bool
}

// NewMatcher builds the matcher for a scan or compaction over one family.
// readPoint bounds version counting; earliestPutTs is the oldest put seen
// in any source; oldestUnexpiredTS and now are the TTL horizon and wall
// clock in milliseconds.
func NewMatcher(s *Scan, info *ScanInfo, scanType ScanType, readPoint uint64,
	earliestPutTs, oldestUnexpiredTS, now int64) (*Matcher, error) {
	if err := info.Validate(); err != nil {
		return nil, err
	}

	isUserScan := scanType == ScanTypeUser

	keep := info.KeepDeletedCells
	if s.IsRaw() {
		keep = KeepDeletedCellsTrue
	} else if isUserScan {
		keep = KeepDeletedCellsFalse
	}

	maxVersions := s.MaxVersions()
	if !s.IsRaw() && maxVersions > info.MaxVersions {
		maxVersions = info.MaxVersions
	}

	m := &Matcher{
		stopRow: s.StopRow(),
		tr:      s.TimeRange(),
		filter:  s.Filter(),
		deletes: NewScanDeleteTracker(),

		retainDeletesInOutput: scanType == ScanTypeCompactRetainDeletes || s.IsRaw(),
		keepDeletedCells:      keep,
		seePastDeleteMarkers:  info.KeepDeletedCells != KeepDeletedCellsFalse && isUserScan,

		startKey: cell.FirstDeleteFamilyOnRow(s.StartRow(), info.Family),

		earliestPutTs:     earliestPutTs,
		oldestUnexpiredTS: oldestUnexpiredTS,
		now:               now,

		maxReadPointToTrackVersions: readPoint,
		timeToPurgeDeletes:          info.TimeToPurgeDeletes.Milliseconds(),

		isUserScan: isUserScan,
		reversed:   s.IsReversed(),
		get:        s.IsGetScan(),
	}

	requested := s.Columns()
	if len(requested) == 0 {
		// A wildcard query always includes the null column.
		m.hasNullColumn = true
		tracker, err := NewWildcardColumnTracker(info.MinVersions, maxVersions, oldestUnexpiredTS)
		if err != nil {
			return nil, err
		}
		m.columns = tracker
	} else {
		m.hasNullColumn = len(requested[0]) == 0
		tracker, err := NewExplicitColumnTracker(requested, info.MinVersions, maxVersions, oldestUnexpiredTS)
		if err != nil {
			return nil, err
		}
		m.columns = tracker
	}

	return m, nil
}

// NewDropDeletesMatcher builds a compaction matcher that drops delete
// markers only inside [dropFromRow, dropToRow). Empty (but non-nil) bounds
// open the respective end of the range. Used when compacting a bounded
// region in one linear pass.
func NewDropDeletesMatcher(s *Scan, info *ScanInfo, readPoint uint64,
	earliestPutTs, oldestUnexpiredTS, now int64,
	dropFromRow, dropToRow []byte) (*Matcher, error) {
	if dropFromRow == nil || dropToRow == nil {
		return nil, ErrInvalidDropRange
	}
	m, err := NewMatcher(s, info, ScanTypeCompactRetainDeletes, readPoint,
		earliestPutTs, oldestUnexpiredTS, now)
	if err != nil {
		return nil, err
	}
	m.dropDeletesFromRow = dropFromRow
	m.dropDeletesToRow = dropToRow
	m.dropDeletes = true
	return m, nil
}

// HasNullColumnInQuery reports whether the zero-length qualifier
// participates in the query. Always true for wildcard scans.
func (m *Matcher) HasNullColumnInQuery() bool {
	return m.hasNullColumn
}

// IsUserScan reports whether the matcher serves a client read.
func (m *Matcher) IsUserScan() bool {
	return m.isUserScan
}

// StartKey returns the key the merge iterator should open the scan at.
func (m *Matcher) StartKey() *cell.Cell {
	return m.startKey
}

// Match decides what the caller should do with the cell: emit it, drop it,
// seek to the next column/row/hinted position, end the row, or end the
// scan. Cells must arrive in key order within the current row. An error
// indicates corruption and is fatal to the scan.
func (m *Matcher) Match(c *cell.Cell) (MatchCode, error) {
	if m.filter != nil && m.filter.FilterAllRemaining() {
		return MatchDoneScan, nil
	}

	if m.curCell == nil {
		// No current row: the caller already advanced past this one.
		return MatchDone, nil
	}
	ret := cell.CompareRows(m.curCell, c)
	if !m.reversed {
		if ret < 0 {
			return MatchDone, nil
		} else if ret > 0 {
			// A cell before the current row should not normally reach
			// the matcher; send the iterator back on course.
			return MatchSeekNextRow, nil
		}
	} else {
		if ret < 0 {
			return MatchSeekNextRow, nil
		} else if ret > 0 {
			return MatchDone, nil
		}
	}

	if m.stickyNextRow {
		return MatchSeekNextRow, nil
	}

	if m.columns.Done() {
		m.stickyNextRow = true
		return MatchSeekNextRow, nil
	}

	timestamp := c.Timestamp
	// Early out on timestamp alone.
	if m.columns.IsDone(timestamp) {
		return m.columns.GetNextRowOrNextColumn(c), nil
	}

	if c.Expired(m.now) {
		return MatchSkip, nil
	}

	typ := c.Type
	mvcc := c.SeqID
	if c.IsDelete() {
		if m.keepDeletedCells == KeepDeletedCellsFalse ||
			(m.keepDeletedCells == KeepDeletedCellsTTL && timestamp < m.oldestUnexpiredTS) {
			// The marker must shadow cells in this row. Record it unless
			// the scan's time range excludes it; a scan that can see past
			// delete markers only honors markers inside its range.
			//
			// Markers above any open reader's read point are not recorded
			// either: rows they shadow could still be seen by that
			// reader and must not be collected yet.
			includeDeleteMarker := false
			if m.seePastDeleteMarkers {
				includeDeleteMarker = m.tr.WithinTimeRange(timestamp)
			} else {
				includeDeleteMarker = m.tr.WithinOrAfterTimeRange(timestamp)
			}
			if includeDeleteMarker && mvcc <= m.maxReadPointToTrackVersions {
				m.deletes.Add(c)
			}
			// No early out: family delete markers sort before everything
			// else in the row.
		}

		if !m.isUserScan && m.timeToPurgeDeletes > 0 &&
			m.now-timestamp <= m.timeToPurgeDeletes {
			// Inside the purge grace period, compactions keep the marker
			// unconditionally: shadowed puts may still arrive out of
			// order.
			return MatchInclude, nil
		} else if m.retainDeletesInOutput || mvcc > m.maxReadPointToTrackVersions {
			if !m.isUserScan {
				// Compactions pass it through right here; raw scans fall
				// through to normal version and time-range checking.
				return MatchInclude, nil
			}
		} else if m.keepDeletedCells == KeepDeletedCellsTrue ||
			(m.keepDeletedCells == KeepDeletedCellsTTL && timestamp >= m.oldestUnexpiredTS) {
			if timestamp < m.earliestPutTs {
				// Keeping deleted rows, but no put in any source is old
				// enough for this marker to shadow.
				return m.columns.GetNextRowOrNextColumn(c), nil
			}
			// Fall through: version-count the marker like the puts it
			// shadows.
		} else {
			return MatchSkip, nil
		}
		// Delete markers are not subject to other delete markers.
	} else if !m.deletes.IsEmpty() {
		deleteResult, err := m.deletes.IsDeleted(c)
		if err != nil {
			return MatchSkip, err
		}
		switch deleteResult {
		case FamilyDeleted, ColumnDeleted:
			return m.columns.GetNextRowOrNextColumn(c), nil
		case VersionDeleted, FamilyVersionDeleted:
			return MatchSkip, nil
		case NotDeleted:
			// proceed
		default:
			return MatchSkip, fmt.Errorf("unexpected delete result %v for %s", deleteResult, c)
		}
	}

	// A seek-priming cell carries the reserved OldestTimestamp and must
	// never be included: force it below the time range so it resolves to
	// a seek. The generic comparator does not know about the sentinel;
	// folding this into it has caused visible data corruption before.
	timestampComparison := timerange.Before
	if timestamp != cell.OldestTimestamp {
		timestampComparison = m.tr.Compare(timestamp)
	}
	if timestampComparison == timerange.After {
		return MatchSkip, nil
	} else if timestampComparison == timerange.Before {
		return m.columns.GetNextRowOrNextColumn(c), nil
	}

	// The column must be wanted at all before versions are counted.
	colChecker, err := m.columns.CheckColumn(c, typ)
	if err != nil {
		return MatchSkip, err
	}
	if colChecker == MatchInclude {
		return m.matchColumn(c, timestamp, typ, mvcc)
	}
	if colChecker == MatchSeekNextRow {
		m.stickyNextRow = true
	}
	return colChecker, nil
}

// matchColumn runs the filter and the version budget and reconciles their
// verdicts. The precedence is load-bearing; see the combination table in
// the tests before changing anything here.
func (m *Matcher) matchColumn(c *cell.Cell, timestamp int64, typ cell.Type, mvcc uint64) (MatchCode, error) {
	filterResponse := FilterSkip
	if m.filter != nil {
		var err error
		filterResponse, err = m.filter.FilterCell(c)
		if err != nil {
			return MatchSkip, err
		}
		switch filterResponse {
		case FilterSkip:
			return MatchSkip, nil
		case FilterNextCol:
			return m.columns.GetNextRowOrNextColumn(c), nil
		case FilterNextRow:
			m.stickyNextRow = true
			return MatchSeekNextRow, nil
		case FilterSeekNextUsingHint:
			return MatchSeekUsingHint, nil
		case FilterInclude, FilterIncludeAndNextCol, FilterIncludeAndSeekNextRow:
			// fall through to version counting
		default:
			return MatchSkip, fmt.Errorf("unexpected filter verdict %v for %s", filterResponse, c)
		}
	}

	// The filter kept the cell (or there is none). The version budget now
	// yields Skip, Include, IncludeAndSeekNextCol or IncludeAndSeekNextRow,
	// combined with the filter verdict as follows:
	//
	//	filter                     versions                   result
	//	INCLUDE                    SKIP                       SKIP
	//	INCLUDE                    INCLUDE                    INCLUDE
	//	INCLUDE                    INCLUDE_AND_SEEK_NEXT_COL  INCLUDE_AND_SEEK_NEXT_COL
	//	INCLUDE                    INCLUDE_AND_SEEK_NEXT_ROW  INCLUDE_AND_SEEK_NEXT_ROW
	//	INCLUDE_AND_NEXT_COL       SKIP                       SKIP
	//	INCLUDE_AND_NEXT_COL       INCLUDE                    INCLUDE_AND_SEEK_NEXT_COL
	//	INCLUDE_AND_NEXT_COL       INCLUDE_AND_SEEK_NEXT_COL  INCLUDE_AND_SEEK_NEXT_COL
	//	INCLUDE_AND_NEXT_COL       INCLUDE_AND_SEEK_NEXT_ROW  INCLUDE_AND_SEEK_NEXT_ROW
	colChecker, err := m.columns.CheckVersions(c, timestamp, typ,
		mvcc > m.maxReadPointToTrackVersions)
	if err != nil {
		return MatchSkip, err
	}

	seekNextRowFromEssential := filterResponse == FilterIncludeAndSeekNextRow &&
		m.filter.IsFamilyEssential(c.Family)
	if colChecker == MatchIncludeAndSeekNextRow || seekNextRowFromEssential {
		m.stickyNextRow = true
	}
	if filterResponse == FilterIncludeAndSeekNextRow {
		if colChecker != MatchSkip {
			return MatchIncludeAndSeekNextRow, nil
		}
		return MatchSeekNextRow, nil
	}
	if filterResponse == FilterIncludeAndNextCol && colChecker == MatchInclude {
		return MatchIncludeAndSeekNextCol, nil
	}
	return colChecker, nil
}

// checkPartialDropDeleteRange flips delete retention off while the scan is
// inside [dropDeletesFromRow, dropDeletesToRow). Keys arrive in order, so
// each bound is compared until crossed once and then cleared.
func (m *Matcher) checkPartialDropDeleteRange(c *cell.Cell) {
	if !m.dropDeletes {
		return
	}
	if m.dropDeletesFromRow != nil &&
		(len(m.dropDeletesFromRow) == 0 ||
			cell.CompareRowsToBytes(c, m.dropDeletesFromRow) >= 0) {
		m.retainDeletesInOutput = false
		m.dropDeletesFromRow = nil
	}
	if m.dropDeletesFromRow == nil && m.dropDeletesToRow != nil &&
		len(m.dropDeletesToRow) > 0 &&
		cell.CompareRowsToBytes(c, m.dropDeletesToRow) >= 0 {
		m.retainDeletesInOutput = true
		m.dropDeletesToRow = nil
	}
}

// SetToNewRow moves the matcher to the row the cell is on. The caller must
// invoke it at every row transition before submitting the row's cells.
func (m *Matcher) SetToNewRow(c *cell.Cell) {
	m.checkPartialDropDeleteRange(c)
	m.curCell = c
	m.Reset()
}

// Reset clears the per-row state: delete ledger, column budgets and the
// sticky next-row latch.
func (m *Matcher) Reset() {
	m.deletes.Reset()
	m.columns.Reset()
	m.stickyNextRow = false
}

// MoreRowsMayExistAfter returns false only when the scan cannot contain any
// row after the cell's: single-row lookups, or the stop row reached in the
// scan's direction.
func (m *Matcher) MoreRowsMayExistAfter(c *cell.Cell) bool {
	if m.get {
		return false
	}
	if len(m.stopRow) == 0 {
		return true
	}
	if m.reversed {
		return cell.CompareRowsToBytes(c, m.stopRow) > 0
	}
	return cell.CompareRowsToBytes(c, m.stopRow) < 0
}

// NextKeyHint forwards to the filter's seek hint after a MatchSeekUsingHint
// decision. Nil without a filter.
func (m *Matcher) NextKeyHint(c *cell.Cell) *cell.Cell {
	if m.filter == nil {
		return nil
	}
	return m.filter.NextCellHint(c)
}

// KeyForNextColumn synthesizes the seek key skipping the rest of the cell's
// column: the next requested column if the tracker knows one, otherwise the
// end of the current column.
func (m *Matcher) KeyForNextColumn(c *cell.Cell) *cell.Cell {
	if hint := m.columns.ColumnHint(); hint != nil {
		return cell.FirstOnRowCol(c, hint)
	}
	return cell.LastOnRowCol(c)
}

// KeyForNextRow synthesizes the seek key skipping the rest of the cell's
// row.
func (m *Matcher) KeyForNextRow(c *cell.Cell) *cell.Cell {
	return cell.LastOnRow(c.Row)
}

// CompareKeyForNextRow compares a block-index boundary key against the
// next-row seek position for the cell, letting the caller skip an entire
// block without synthesizing the key.
func (m *Matcher) CompareKeyForNextRow(nextIndexed, c *cell.Cell) int {
	return cell.CompareWithHint(nextIndexed, c, nil, nil,
		cell.OldestTimestamp, cell.TypeMinimum)
}

// CompareKeyForNextColumn is CompareKeyForNextRow's next-column analogue.
func (m *Matcher) CompareKeyForNextColumn(nextIndexed, c *cell.Cell) int {
	hint := m.columns.ColumnHint()
	if hint == nil {
		return cell.CompareWithHint(nextIndexed, c, c.Family, c.Qualifier,
			cell.OldestTimestamp, cell.TypeMinimum)
	}
	return cell.CompareWithHint(nextIndexed, c, c.Family, hint,
		cell.LatestTimestamp, cell.TypeMaximum)
}

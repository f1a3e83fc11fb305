package scan

import (
	"testing"

	"github.com/CairnDB/cairn/pkg/common/cell"
)

// stubFilter returns a fixed verdict for every cell.
type stubFilter struct {
	allRemaining bool
	verdict      ReturnCode
	essential    bool
	hint         *cell.Cell
}

func (f *stubFilter) FilterAllRemaining() bool                    { return f.allRemaining }
func (f *stubFilter) FilterCell(c *cell.Cell) (ReturnCode, error) { return f.verdict, nil }
func (f *stubFilter) IsFamilyEssential(family []byte) bool        { return f.essential }
func (f *stubFilter) NextCellHint(c *cell.Cell) *cell.Cell        { return f.hint }

var _ Filter = (*stubFilter)(nil)

// stubColumns answers CheckVersions with a fixed code, isolating the
// matcher's verdict reconciliation from real budget bookkeeping.
type stubColumns struct {
	versions MatchCode
}

func (s *stubColumns) Reset()            {}
func (s *stubColumns) Done() bool        { return false }
func (s *stubColumns) IsDone(int64) bool { return false }
func (s *stubColumns) CheckColumn(c *cell.Cell, typ cell.Type) (MatchCode, error) {
	return MatchInclude, nil
}
func (s *stubColumns) CheckVersions(c *cell.Cell, ts int64, typ cell.Type, ignoreCount bool) (MatchCode, error) {
	return s.versions, nil
}
func (s *stubColumns) GetNextRowOrNextColumn(c *cell.Cell) MatchCode { return MatchSeekNextCol }
func (s *stubColumns) ColumnHint() []byte                            { return nil }

var _ ColumnTracker = (*stubColumns)(nil)

// Every combination of filter verdict and version-budget outcome must
// reconcile to exactly one decision; an include from only one side never
// survives alone.
func TestMatcherFilterVersionPriority(t *testing.T) {
	tests := []struct {
		filter   ReturnCode
		versions MatchCode
		want     MatchCode
	}{
		{FilterInclude, MatchSkip, MatchSkip},
		{FilterInclude, MatchInclude, MatchInclude},
		{FilterInclude, MatchIncludeAndSeekNextCol, MatchIncludeAndSeekNextCol},
		{FilterInclude, MatchIncludeAndSeekNextRow, MatchIncludeAndSeekNextRow},

		{FilterIncludeAndNextCol, MatchSkip, MatchSkip},
		{FilterIncludeAndNextCol, MatchInclude, MatchIncludeAndSeekNextCol},
		{FilterIncludeAndNextCol, MatchIncludeAndSeekNextCol, MatchIncludeAndSeekNextCol},
		{FilterIncludeAndNextCol, MatchIncludeAndSeekNextRow, MatchIncludeAndSeekNextRow},

		{FilterIncludeAndSeekNextRow, MatchSkip, MatchSeekNextRow},
		{FilterIncludeAndSeekNextRow, MatchInclude, MatchIncludeAndSeekNextRow},
		{FilterIncludeAndSeekNextRow, MatchIncludeAndSeekNextCol, MatchIncludeAndSeekNextRow},
		{FilterIncludeAndSeekNextRow, MatchIncludeAndSeekNextRow, MatchIncludeAndSeekNextRow},
	}

	for _, tt := range tests {
		m := newTestMatcher(t, NewScan(nil, nil), testScanInfo(), ScanTypeUser)
		m.filter = &stubFilter{verdict: tt.filter, essential: true}
		m.columns = &stubColumns{versions: tt.versions}

		c := rowCell("r", "q", 100, cell.TypePut, 1)
		m.SetToNewRow(c)
		if got := mustMatch(t, m, c); got != tt.want {
			t.Errorf("filter %s x versions %s: got %s, want %s",
				tt.filter, tt.versions, got, tt.want)
		}
	}
}

// A next-row filter verdict latches the row done even when the versions
// side said include.
func TestMatcherFilterSeekNextRowIsSticky(t *testing.T) {
	m := newTestMatcher(t, NewScan(nil, nil), testScanInfo(), ScanTypeUser)
	m.filter = &stubFilter{verdict: FilterIncludeAndSeekNextRow, essential: true}
	m.columns = &stubColumns{versions: MatchInclude}

	c := rowCell("r", "q", 100, cell.TypePut, 1)
	m.SetToNewRow(c)
	if got := mustMatch(t, m, c); got != MatchIncludeAndSeekNextRow {
		t.Fatalf("First cell: got %s, want INCLUDE_AND_SEEK_NEXT_ROW", got)
	}
	if got := mustMatch(t, m, rowCell("r", "z", 100, cell.TypePut, 1)); got != MatchSeekNextRow {
		t.Errorf("Cell after latch: got %s, want SEEK_NEXT_ROW", got)
	}
}

func TestMatcherFilterExclusionVerdicts(t *testing.T) {
	tests := []struct {
		verdict ReturnCode
		want    MatchCode
	}{
		{FilterSkip, MatchSkip},
		{FilterNextCol, MatchSeekNextCol},
		{FilterNextRow, MatchSeekNextRow},
		{FilterSeekNextUsingHint, MatchSeekUsingHint},
	}
	for _, tt := range tests {
		m := newTestMatcher(t, NewScan(nil, nil), testScanInfo(), ScanTypeUser)
		m.filter = &stubFilter{verdict: tt.verdict}

		c := rowCell("r", "q", 100, cell.TypePut, 1)
		m.SetToNewRow(c)
		if got := mustMatch(t, m, c); got != tt.want {
			t.Errorf("filter %s: got %s, want %s", tt.verdict, got, tt.want)
		}
	}
}

func TestMatcherNextKeyHintForwardsToFilter(t *testing.T) {
	hint := cell.FirstOnRowCol(rowCell("r", "q", 100, cell.TypePut, 1), []byte("target"))
	m := newTestMatcher(t, NewScan(nil, nil), testScanInfo(), ScanTypeUser)
	m.filter = &stubFilter{verdict: FilterSeekNextUsingHint, hint: hint}

	c := rowCell("r", "q", 100, cell.TypePut, 1)
	m.SetToNewRow(c)
	if got := mustMatch(t, m, c); got != MatchSeekUsingHint {
		t.Fatalf("Got %s, want SEEK_USING_HINT", got)
	}
	if got := m.NextKeyHint(c); got != hint {
		t.Errorf("NextKeyHint returned %v, want the filter's hint", got)
	}

	m.filter = nil
	if got := m.NextKeyHint(c); got != nil {
		t.Errorf("NextKeyHint without a filter returned %v, want nil", got)
	}
}

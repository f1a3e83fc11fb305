package scan

import (
	"testing"

	"github.com/CairnDB/cairn/pkg/common/cell"
)

func filterCell(t *testing.T, f Filter, c *cell.Cell) ReturnCode {
	t.Helper()
	ret, err := f.FilterCell(c)
	if err != nil {
		t.Fatalf("FilterCell(%s) failed: %v", c, err)
	}
	return ret
}

func TestColumnPrefixFilter(t *testing.T) {
	f := NewColumnPrefixFilter([]byte("pre"))

	if got := filterCell(t, f, putCell("prefix", 10)); got != FilterInclude {
		t.Errorf("Matching qualifier: got %s, want INCLUDE", got)
	}
	if got := filterCell(t, f, putCell("pre", 10)); got != FilterInclude {
		t.Errorf("Exact prefix: got %s, want INCLUDE", got)
	}
	// Before the prefix range: the filter steers the scan to it.
	if got := filterCell(t, f, putCell("aaa", 10)); got != FilterSeekNextUsingHint {
		t.Errorf("Qualifier before prefix: got %s, want SEEK_NEXT_USING_HINT", got)
	}
	// Past the prefix range: nothing later in the row can match.
	if got := filterCell(t, f, putCell("zzz", 10)); got != FilterNextRow {
		t.Errorf("Qualifier past prefix: got %s, want NEXT_ROW", got)
	}

	c := putCell("aaa", 10)
	hint := f.NextCellHint(c)
	if string(hint.Qualifier) != "pre" {
		t.Errorf("Hint qualifier %q, want pre", hint.Qualifier)
	}
	if cell.Compare(hint, c) <= 0 {
		t.Error("Hint must sort after the current cell")
	}
}

func TestTimestampsFilter(t *testing.T) {
	f := NewTimestampsFilter(30, 70, 50)

	for _, ts := range []int64{70, 50, 30} {
		if got := filterCell(t, f, putCell("q", ts)); got != FilterInclude {
			t.Errorf("Selected timestamp %d: got %s, want INCLUDE", ts, got)
		}
	}
	// Between selected timestamps: seek straight to the next lower one.
	if got := filterCell(t, f, putCell("q", 60)); got != FilterSeekNextUsingHint {
		t.Errorf("Timestamp between selections: got %s, want SEEK_NEXT_USING_HINT", got)
	}
	hint := f.NextCellHint(putCell("q", 60))
	if hint.Timestamp != 50 {
		t.Errorf("Hint timestamp %d, want 50", hint.Timestamp)
	}
	if cell.Compare(hint, putCell("q", 60)) <= 0 {
		t.Error("Hint must sort after the current cell")
	}

	// Below the smallest selection: the column is exhausted.
	if got := filterCell(t, f, putCell("q", 10)); got != FilterNextCol {
		t.Errorf("Timestamp below all selections: got %s, want NEXT_COL", got)
	}
}

func TestRowSampleFilterIsDeterministicPerRow(t *testing.T) {
	f := NewRowSampleFilter(3)

	verdicts := make(map[string]ReturnCode)
	kept := 0
	for _, row := range []string{"r0", "r1", "r2", "r3", "r4", "r5", "r6", "r7"} {
		c := &cell.Cell{Row: []byte(row), Family: []byte("f"), Qualifier: []byte("q"),
			Timestamp: 10, Type: cell.TypePut}
		got := filterCell(t, f, c)
		if got != FilterInclude && got != FilterNextRow {
			t.Fatalf("Row %s: unexpected verdict %s", row, got)
		}
		verdicts[row] = got
		if got == FilterInclude {
			kept++
		}
	}

	// Replaying the same rows reproduces the same sample.
	g := NewRowSampleFilter(3)
	for row, want := range verdicts {
		c := &cell.Cell{Row: []byte(row), Family: []byte("f"), Qualifier: []byte("q"),
			Timestamp: 10, Type: cell.TypePut}
		if got := filterCell(t, g, c); got != want {
			t.Errorf("Row %s: verdict changed from %s to %s across filters", row, want, got)
		}
	}

	// Every cell of a kept row is kept.
	h := NewRowSampleFilter(1)
	for i := 0; i < 3; i++ {
		c := &cell.Cell{Row: []byte("same"), Family: []byte("f"), Qualifier: []byte{byte('a' + i)},
			Timestamp: 10, Type: cell.TypePut}
		if got := filterCell(t, h, c); got != FilterInclude {
			t.Errorf("Modulus 1 should keep everything, got %s", got)
		}
	}
}

func TestRowSampleFilterModulusOne(t *testing.T) {
	f := NewRowSampleFilter(0) // normalized to 1
	if got := filterCell(t, f, putCell("q", 10)); got != FilterInclude {
		t.Errorf("Got %s, want INCLUDE with modulus 1", got)
	}
}

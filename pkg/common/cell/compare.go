package cell

import "bytes"

// Compare orders two cells the way the sorted sources store them: row
// ascending, then family ascending, qualifier ascending, timestamp
// descending, type code descending, sequence id descending. A cell with an
// empty column and TypeMinimum is a last-on-row sentinel and sorts after
// everything else in its row.
func Compare(a, b *Cell) int {
	if d := bytes.Compare(a.Row, b.Row); d != 0 {
		return d
	}
	return CompareWithoutRow(a, b)
}

// CompareRows compares only the row portion of two cells.
func CompareRows(a, b *Cell) int {
	return bytes.Compare(a.Row, b.Row)
}

// CompareRowsToBytes compares a cell's row against a plain row key.
func CompareRowsToBytes(a *Cell, row []byte) int {
	return bytes.Compare(a.Row, row)
}

// CompareQualifiers compares only the qualifier portion of two cells.
func CompareQualifiers(a, b *Cell) int {
	return bytes.Compare(a.Qualifier, b.Qualifier)
}

// CompareWithoutRow compares everything after the row portion. Callers must
// have established the rows are equal.
func CompareWithoutRow(a, b *Cell) int {
	// Last-on-row sentinels sort after all real cells of the row.
	if len(a.Family) == 0 && len(a.Qualifier) == 0 && a.Type == TypeMinimum {
		if len(b.Family) == 0 && len(b.Qualifier) == 0 && b.Type == TypeMinimum {
			return 0
		}
		return 1
	}
	if len(b.Family) == 0 && len(b.Qualifier) == 0 && b.Type == TypeMinimum {
		return -1
	}
	if d := bytes.Compare(a.Family, b.Family); d != 0 {
		return d
	}
	if d := bytes.Compare(a.Qualifier, b.Qualifier); d != 0 {
		return d
	}
	// Newer timestamps sort first.
	if a.Timestamp > b.Timestamp {
		return -1
	}
	if a.Timestamp < b.Timestamp {
		return 1
	}
	// Higher type codes sort first, so delete markers precede the puts
	// they shadow at the same timestamp.
	if a.Type != b.Type {
		return int(b.Type) - int(a.Type)
	}
	// Later writes sort first.
	if a.SeqID > b.SeqID {
		return -1
	}
	if a.SeqID < b.SeqID {
		return 1
	}
	return 0
}

// CompareWithHint compares a block-index boundary key against the synthetic
// key (current row, family, qualifier, ts, typ). It lets the caller decide
// whether a whole underlying block can be skipped without materializing the
// seek key. The sequence id does not participate.
func CompareWithHint(indexed, current *Cell, family, qualifier []byte, ts int64, typ Type) int {
	hint := Cell{
		Row:       current.Row,
		Family:    family,
		Qualifier: qualifier,
		Timestamp: ts,
		Type:      typ,
	}
	key := Cell{
		Row:       indexed.Row,
		Family:    indexed.Family,
		Qualifier: indexed.Qualifier,
		Timestamp: indexed.Timestamp,
		Type:      indexed.Type,
	}
	if d := bytes.Compare(key.Row, hint.Row); d != 0 {
		return d
	}
	return CompareWithoutRow(&key, &hint)
}

package cell

// Synthetic key builders. These produce sentinel cells that bracket real
// cells in sort order; the merge iterator seeks with them, they are never
// returned as results.

// FirstOnRow returns a cell sorting before every real cell of row.
func FirstOnRow(row []byte) *Cell {
	return &Cell{
		Row:       row,
		Timestamp: LatestTimestamp,
		Type:      TypeMaximum,
	}
}

// LastOnRow returns a cell sorting after every real cell of row.
func LastOnRow(row []byte) *Cell {
	return &Cell{
		Row:  row,
		Type: TypeMinimum,
	}
}

// FirstOnRowCol returns a cell sorting before every version of the given
// column on c's row.
func FirstOnRowCol(c *Cell, qualifier []byte) *Cell {
	return &Cell{
		Row:       c.Row,
		Family:    c.Family,
		Qualifier: qualifier,
		Timestamp: LatestTimestamp,
		Type:      TypeMaximum,
	}
}

// LastOnRowCol returns a cell sorting after every version of c's column.
func LastOnRowCol(c *Cell) *Cell {
	return &Cell{
		Row:       c.Row,
		Family:    c.Family,
		Qualifier: c.Qualifier,
		Timestamp: OldestTimestamp,
		Type:      TypeMinimum,
	}
}

// FirstDeleteFamilyOnRow returns the first possible key on row for the given
// family: a DeleteFamily marker at LatestTimestamp. Family delete markers
// sort ahead of everything else in the row, so this is the scan start key.
func FirstDeleteFamilyOnRow(row, family []byte) *Cell {
	return &Cell{
		Row:       row,
		Family:    family,
		Timestamp: LatestTimestamp,
		Type:      TypeDeleteFamily,
	}
}

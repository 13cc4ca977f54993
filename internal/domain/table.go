package domain

// Cell holds one raw field value. Null marks an empty source field.
type Cell struct {
	Raw  string
	Null bool
}

// Text builds a non-null cell.
func Text(v string) Cell {
	return Cell{Raw: v}
}

// NullCell builds an empty cell.
func NullCell() Cell {
	return Cell{Null: true}
}

// Table is an ordered, column-addressable set of rows.
type Table struct {
	Columns []string
	Rows    [][]Cell
}

// Index returns the position of a column or -1 when it is absent.
func (t Table) Index(name string) int {
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// Len reports the row count.
func (t Table) Len() int {
	return len(t.Rows)
}

// Column returns a copy of every cell of the named column.
func (t Table) Column(name string) ([]Cell, bool) {
	idx := t.Index(name)
	if idx < 0 {
		return nil, false
	}
	out := make([]Cell, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx]
	}
	return out, true
}

package domain

import (
	"fmt"
	"math"
	"slices"
	"strconv"
)

const (
	// MissingSentinel is the token MET writes for an absent value.
	MissingSentinel = "NA"
	// IndexColumn names the row index of parsed and accumulated tables.
	IndexColumn = "line"
)

// Value is one table cell. The zero Value is missing.
type Value struct {
	Text  string
	Valid bool
}

// Text wraps a present token.
func Text(s string) Value {
	return Value{Text: s, Valid: true}
}

// ParseToken maps the missing sentinel to a missing Value and keeps every
// other token verbatim.
func ParseToken(tok string) Value {
	if tok == MissingSentinel {
		return Value{}
	}
	return Text(tok)
}

// IsMissing reports whether the cell holds no value.
func (v Value) IsMissing() bool {
	return !v.Valid
}

// Float returns the numeric view of the cell. Missing cells are NaN.
func (v Value) Float() (float64, error) {
	if !v.Valid {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(v.Text, 64)
}

func (v Value) String() string {
	if !v.Valid {
		return MissingSentinel
	}
	return v.Text
}

// Table is a column-oriented set of rows with an integer row index.
// Every slice in Data has the same length as Index.
type Table struct {
	Columns []string
	Index   []int
	Data    map[string][]Value
}

// NewTable returns an empty table with the given columns.
func NewTable(columns []string) *Table {
	t := &Table{
		Columns: slices.Clone(columns),
		Data:    make(map[string][]Value, len(columns)),
	}
	for _, c := range columns {
		t.Data[c] = nil
	}
	return t
}

// Len is the number of rows.
func (t *Table) Len() int {
	return len(t.Index)
}

// HasColumn reports whether the table carries the named column.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.Data[name]
	return ok
}

// Column returns the values of the named column.
func (t *Table) Column(name string) ([]Value, bool) {
	v, ok := t.Data[name]
	return v, ok
}

// Value returns the cell at row i of the named column. Unknown columns read
// as missing.
func (t *Table) Value(column string, i int) Value {
	col, ok := t.Data[column]
	if !ok || i < 0 || i >= len(col) {
		return Value{}
	}
	return col[i]
}

// LastIndex is the index of the final row, or 0 for an empty table.
func (t *Table) LastIndex() int {
	if len(t.Index) == 0 {
		return 0
	}
	return t.Index[len(t.Index)-1]
}

// AppendRow adds one row. values must be aligned to Columns.
func (t *Table) AppendRow(index int, values []Value) {
	for i, c := range t.Columns {
		t.Data[c] = append(t.Data[c], values[i])
	}
	t.Index = append(t.Index, index)
}

// SchemaDiff describes how an appended table's columns differ from the
// table it was appended to.
type SchemaDiff struct {
	// Added columns were new to the accumulated table and are missing for
	// its earlier rows.
	Added []string
	// Absent columns exist in the accumulated table but not in the appended
	// one and are missing for the appended rows.
	Absent []string
}

// Empty reports whether both schemas matched.
func (d SchemaDiff) Empty() bool {
	return len(d.Added) == 0 && len(d.Absent) == 0
}

// Append concatenates other beneath t. other's index values are offset by
// t's last index, so an index of 1..k becomes n+1..n+k. Columns are outer
// joined: first-seen order is kept and gaps are filled with missing values.
func (t *Table) Append(other *Table) SchemaDiff {
	var diff SchemaDiff
	for _, c := range other.Columns {
		if !t.HasColumn(c) {
			diff.Added = append(diff.Added, c)
		}
	}
	for _, c := range t.Columns {
		if !other.HasColumn(c) {
			diff.Absent = append(diff.Absent, c)
		}
	}

	n, k := t.Len(), other.Len()
	for _, c := range diff.Added {
		t.Columns = append(t.Columns, c)
		t.Data[c] = make([]Value, n, n+k)
	}
	for _, c := range t.Columns {
		src, ok := other.Data[c]
		if !ok {
			src = make([]Value, k)
		}
		t.Data[c] = append(t.Data[c], src...)
	}

	offset := t.LastIndex()
	t.Index = slices.Grow(t.Index, k)
	for _, line := range other.Index {
		t.Index = append(t.Index, line+offset)
	}
	return diff
}

// Filter returns a new table holding the rows for which keep returns true.
// The index values of kept rows are preserved.
func (t *Table) Filter(keep func(i int) bool) *Table {
	out := NewTable(t.Columns)
	for i, idx := range t.Index {
		if !keep(i) {
			continue
		}
		for _, c := range t.Columns {
			out.Data[c] = append(out.Data[c], t.Data[c][i])
		}
		out.Index = append(out.Index, idx)
	}
	return out
}

// MissingCount returns how many cells of the named column are missing.
func (t *Table) MissingCount(column string) int {
	n := 0
	for _, v := range t.Data[column] {
		if v.IsMissing() {
			n++
		}
	}
	return n
}

// Validate checks the structural invariants of an accumulated table: every
// column is as long as the index and the index runs 1..n without gaps.
func (t *Table) Validate() error {
	if len(t.Columns) != len(t.Data) {
		return fmt.Errorf("table lists %d columns but holds %d", len(t.Columns), len(t.Data))
	}
	for _, c := range t.Columns {
		col, ok := t.Data[c]
		if !ok {
			return fmt.Errorf("column %q has no data", c)
		}
		if len(col) != len(t.Index) {
			return fmt.Errorf("column %q has %d rows, index has %d", c, len(col), len(t.Index))
		}
	}
	for i, idx := range t.Index {
		if idx != i+1 {
			return fmt.Errorf("index at row %d is %d, want %d", i, idx, i+1)
		}
	}
	return nil
}

// TableSet maps a file type to its accumulated table.
type TableSet map[string]*Table

// Merge folds a parsed file's table into the accumulated table for fileType.
// The first table seen for a type is adopted as is.
func (s TableSet) Merge(fileType string, t *Table) SchemaDiff {
	acc, ok := s[fileType]
	if !ok {
		s[fileType] = t
		return SchemaDiff{}
	}
	return acc.Append(t)
}

// Types returns the file types in sorted order.
func (s TableSet) Types() []string {
	types := make([]string, 0, len(s))
	for k := range s {
		types = append(types, k)
	}
	slices.Sort(types)
	return types
}

// Rows returns the row count per file type.
func (s TableSet) Rows() map[string]int {
	rows := make(map[string]int, len(s))
	for k, t := range s {
		rows[k] = t.Len()
	}
	return rows
}

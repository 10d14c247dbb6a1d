package dataset

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
)

// Table is the in-memory form of one uploaded worksheet: a header row plus
// ordered data rows, all cells kept as text. Typing decisions (numeric vs
// categorical) are made per column on demand.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Empty reports whether the table has no data rows.
func (t *Table) Empty() bool {
	return t == nil || len(t.Rows) == 0
}

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

func (t *Table) cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// IsNumeric reports whether a column holds numbers: every non-blank cell
// must parse as a float and at least one cell must be non-blank.
func (t *Table) IsNumeric(name string) bool {
	col := t.ColumnIndex(name)
	if col < 0 {
		return false
	}
	seen := false
	for _, row := range t.Rows {
		v := t.cell(row, col)
		if v == "" {
			continue
		}
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			return false
		}
		seen = true
	}
	return seen
}

// NumericPairs extracts the (x, y) value pairs of two numeric columns,
// skipping rows where either cell is blank or unparsable.
func (t *Table) NumericPairs(x, y string) (xs, ys []float64) {
	xi, yi := t.ColumnIndex(x), t.ColumnIndex(y)
	if xi < 0 || yi < 0 {
		return nil, nil
	}
	for _, row := range t.Rows {
		xv, errX := strconv.ParseFloat(t.cell(row, xi), 64)
		yv, errY := strconv.ParseFloat(t.cell(row, yi), 64)
		if errX != nil || errY != nil {
			continue
		}
		xs = append(xs, xv)
		ys = append(ys, yv)
	}
	return xs, ys
}

// Preview renders the first n rows as column-aligned plain text with no
// index column, the form embedded in prompts.
func (t *Table) Preview(n int) string {
	if t == nil || len(t.Columns) == 0 {
		return ""
	}
	if n > len(t.Rows) {
		n = len(t.Rows)
	}

	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(t.Columns, "\t"))
	for _, row := range t.Rows[:n] {
		cells := make([]string, len(t.Columns))
		for i := range t.Columns {
			cells[i] = t.cell(row, i)
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	w.Flush()
	return strings.TrimRight(b.String(), "\n")
}

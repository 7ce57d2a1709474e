// Package table provides the in-memory aggregate built from per-file
// measurement records. Columns form the union of every appended row's
// keys, in first-seen order, so files carrying unusual fields extend
// the table instead of breaking it.
package table

import (
	"sort"
	"strings"
)

// Cell holds a single table value. Exactly one of Text and Blob is
// meaningful: Text for displayable values, Blob for packed numeric
// buffers that only make sense in a binary sink.
type Cell struct {
	Text string
	Blob []byte
}

// IsBlob reports whether the cell carries a binary buffer.
func (c Cell) IsBlob() bool { return c.Blob != nil }

// TextCell wraps a string value.
func TextCell(s string) Cell { return Cell{Text: s} }

// BlobCell wraps a binary buffer.
func BlobCell(b []byte) Cell { return Cell{Blob: b} }

// Row maps column names to cells. Rows are sparse: a missing key means
// the source file did not provide that field.
type Row map[string]Cell

// Table accumulates rows while tracking column order. The zero value
// is ready to use.
type Table struct {
	columns []string
	seen    map[string]bool
	rows    []Row
}

// New returns an empty table.
func New() *Table {
	return &Table{seen: make(map[string]bool)}
}

// Append adds a row and unions its keys into the column order. Known
// keys keep their position; new keys are appended sorted, since map
// iteration order would otherwise make the column order vary run to
// run.
func (t *Table) Append(r Row) {
	if t.seen == nil {
		t.seen = make(map[string]bool)
	}
	var fresh []string
	for k := range r {
		if !t.seen[k] {
			fresh = append(fresh, k)
		}
	}
	sort.Strings(fresh)
	for _, k := range fresh {
		t.seen[k] = true
		t.columns = append(t.columns, k)
	}
	t.rows = append(t.rows, r)
}

// AddConstant sets a text cell on every row. The column joins the
// order if it is new.
func (t *Table) AddConstant(col, text string) {
	if t.seen == nil {
		t.seen = make(map[string]bool)
	}
	if !t.seen[col] {
		t.seen[col] = true
		t.columns = append(t.columns, col)
	}
	for _, r := range t.rows {
		r[col] = TextCell(text)
	}
}

// BlankTextAsMissing deletes text cells whose value trims to the empty
// string, turning them into genuinely missing cells. Blob cells are
// never touched.
func (t *Table) BlankTextAsMissing() {
	for _, r := range t.rows {
		for k, c := range r {
			if !c.IsBlob() && strings.TrimSpace(c.Text) == "" {
				delete(r, k)
			}
		}
	}
}

// DropIncompleteColumns removes every column absent from at least one
// row and returns the dropped names so the caller can log them. A
// table with no rows keeps all columns.
func (t *Table) DropIncompleteColumns() []string {
	if len(t.rows) == 0 {
		return nil
	}
	var kept, dropped []string
	for _, col := range t.columns {
		complete := true
		for _, r := range t.rows {
			if _, ok := r[col]; !ok {
				complete = false
				break
			}
		}
		if complete {
			kept = append(kept, col)
		} else {
			dropped = append(dropped, col)
			delete(t.seen, col)
		}
	}
	t.columns = kept
	for _, r := range t.rows {
		for _, col := range dropped {
			delete(r, col)
		}
	}
	return dropped
}

// Clone deep-copies the table so derived views can mutate freely.
func (t *Table) Clone() *Table {
	out := New()
	out.columns = append([]string(nil), t.columns...)
	for _, c := range out.columns {
		out.seen[c] = true
	}
	out.rows = make([]Row, 0, len(t.rows))
	for _, r := range t.rows {
		nr := make(Row, len(r))
		for k, c := range r {
			if c.IsBlob() {
				nr[k] = BlobCell(append([]byte(nil), c.Blob...))
			} else {
				nr[k] = c
			}
		}
		out.rows = append(out.rows, nr)
	}
	return out
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Columns returns the column names in table order. The slice is a
// copy.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Row returns the i-th row. The map is shared, not copied.
func (t *Table) Row(i int) Row { return t.rows[i] }

// Cell returns the named cell of the i-th row, and whether it exists.
func (t *Table) Cell(i int, col string) (Cell, bool) {
	c, ok := t.rows[i][col]
	return c, ok
}

package value

import (
	"sort"

	vferrors "vegafusion-go/internal/errors"
)

// OrderingColumn is the name of the synthetic monotonic row-index
// column every Table carries, so transforms that must preserve or
// restore original row order (window, stack, impute) have a stable
// sort key regardless of intervening filters/joins (spec §3: "Tables
// are required to carry a monotonically increasing ordering column").
const OrderingColumn = "__vf_order__"

// Row is one record: a slice of scalars parallel to the owning
// Table's Schema.Fields.
type Row []Scalar

// Get returns the value of the named column in row r, using schema s
// to resolve the column index.
func (r Row) Get(s *Schema, name string) (Scalar, bool) {
	i := s.IndexOf(name)
	if i < 0 || i >= len(r) {
		return Scalar{}, false
	}
	return r[i], true
}

// Table is an ordered, schema-typed sequence of rows: the Table half
// of TaskValue (spec §3 TaskValue::Table).
type Table struct {
	Schema *Schema
	Rows   []Row
}

// NewTable builds a Table. The ordering column is added automatically
// if not already present in schema, numbered by row position.
func NewTable(schema *Schema, rows []Row) *Table {
	if !schema.HasColumn(OrderingColumn) {
		schema = NewSchema(append(append([]Field{}, schema.Fields...), Field{Name: OrderingColumn, Type: FieldInt})...)
		withOrder := make([]Row, len(rows))
		for i, r := range rows {
			nr := make(Row, len(r)+1)
			copy(nr, r)
			nr[len(r)] = Int(int64(i))
			withOrder[i] = nr
		}
		rows = withOrder
	}
	return &Table{Schema: schema, Rows: rows}
}

// NumRows returns the row count.
func (t *Table) NumRows() int { return len(t.Rows) }

// Column returns the values of the named column across all rows, in
// row order.
func (t *Table) Column(name string) ([]Scalar, error) {
	i := t.Schema.IndexOf(name)
	if i < 0 {
		return nil, vferrors.Internal("table has no column %q", name)
	}
	out := make([]Scalar, len(t.Rows))
	for ri, row := range t.Rows {
		out[ri] = row[i]
	}
	return out, nil
}

// SortByOrderingColumn returns a shallow copy of t with rows restored
// to ordering-column order, undoing any reordering a transform (e.g.
// collect, window with no explicit sort) may have performed.
func (t *Table) SortByOrderingColumn() *Table {
	idx := t.Schema.IndexOf(OrderingColumn)
	rows := make([]Row, len(t.Rows))
	copy(rows, t.Rows)
	if idx >= 0 {
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i][idx].Int < rows[j][idx].Int
		})
	}
	return &Table{Schema: t.Schema, Rows: rows}
}

// Clone returns a deep-enough copy of t suitable for in-place mutation
// by a transform (new Rows slice and per-row slices; Scalars are
// copied by value).
func (t *Table) Clone() *Table {
	rows := make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		nr := make(Row, len(r))
		copy(nr, r)
		rows[i] = nr
	}
	return &Table{Schema: t.Schema, Rows: rows}
}

// WithColumn returns a new Table with column name added or replaced,
// computed by calling compute(row) for every row.
func (t *Table) WithColumn(field Field, compute func(Row) Scalar) *Table {
	schema := t.Schema.WithField(field)
	idx := schema.IndexOf(field.Name)
	rows := make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		val := compute(r)
		if idx == len(r) {
			nr := make(Row, len(r)+1)
			copy(nr, r)
			nr[idx] = val
			rows[i] = nr
		} else {
			nr := make(Row, len(r))
			copy(nr, r)
			nr[idx] = val
			rows[i] = nr
		}
	}
	return &Table{Schema: schema, Rows: rows}
}

// WithoutColumn returns a new Table with name dropped from schema and
// every row.
func (t *Table) WithoutColumn(name string) *Table {
	idx := t.Schema.IndexOf(name)
	if idx < 0 {
		return t
	}
	schema := t.Schema.WithoutField(name)
	rows := make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		nr := make(Row, 0, len(r)-1)
		for j, v := range r {
			if j != idx {
				nr = append(nr, v)
			}
		}
		rows[i] = nr
	}
	return &Table{Schema: schema, Rows: rows}
}

// Filter returns a new Table containing only rows for which keep
// returns true, preserving relative order.
func (t *Table) Filter(keep func(Row) bool) *Table {
	var rows []Row
	for _, r := range t.Rows {
		if keep(r) {
			rows = append(rows, r)
		}
	}
	return &Table{Schema: t.Schema, Rows: rows}
}

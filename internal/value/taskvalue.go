package value

import vferrors "vegafusion-go/internal/errors"

// TaskValueKind tags which field of TaskValue is populated.
type TaskValueKind int

const (
	TaskValueScalar TaskValueKind = iota
	TaskValueTable
)

// TaskValue is the sum type every task graph node evaluates to: either
// a single Scalar (typically a signal) or a Table (a dataset), per
// spec §3 "TaskValue. Sum type: Scalar(s) ... or Table(t) ...".
type TaskValue struct {
	Kind   TaskValueKind
	Scalar Scalar
	Table  *Table
}

func NewScalarValue(s Scalar) TaskValue { return TaskValue{Kind: TaskValueScalar, Scalar: s} }
func NewTableValue(t *Table) TaskValue  { return TaskValue{Kind: TaskValueTable, Table: t} }

func (v TaskValue) IsScalar() bool { return v.Kind == TaskValueScalar }
func (v TaskValue) IsTable() bool  { return v.Kind == TaskValueTable }

// AsScalar returns the scalar value, erroring if v holds a table.
func (v TaskValue) AsScalar() (Scalar, error) {
	if v.Kind != TaskValueScalar {
		return Scalar{}, vferrors.Internal("expected scalar task value, found table")
	}
	return v.Scalar, nil
}

// AsTable returns the table value, erroring if v holds a scalar.
func (v TaskValue) AsTable() (*Table, error) {
	if v.Kind != TaskValueTable {
		return nil, vferrors.Internal("expected table task value, found scalar")
	}
	return v.Table, nil
}

package logicalexpr

import (
	vferrors "vegafusion-go/internal/errors"
	"vegafusion-go/internal/value"
)

// ColumnRef evaluates to the named column of the current row,
// grounded on the teacher's Column expression (plan/expression.go).
type ColumnRef struct {
	base
	Name     string
	typeHint value.FieldType
}

func NewColumnRef(name string, typeHint value.FieldType) *ColumnRef {
	return &ColumnRef{Name: name, typeHint: typeHint}
}

func (c *ColumnRef) Eval(ctx *EvalContext) (value.Scalar, error) {
	v, ok := ctx.Row.Get(ctx.Schema, c.Name)
	if !ok {
		return value.Scalar{}, vferrors.Internal("column %q not found in row", c.Name)
	}
	return v, nil
}

func (c *ColumnRef) Type() value.FieldType { return c.typeHint }
func (c *ColumnRef) String() string        { return "datum." + c.Name }

// Const evaluates to a fixed value, grounded on the teacher's Constant
// expression.
type Const struct {
	base
	Value value.Scalar
}

func NewConst(v value.Scalar) *Const { return &Const{Value: v} }

func (c *Const) Eval(*EvalContext) (value.Scalar, error) { return c.Value, nil }
func (c *Const) Type() value.FieldType                    { return value.FieldTypeOf(c.Value.Kind) }
func (c *Const) String() string                            { return c.Value.ToStringValue() }

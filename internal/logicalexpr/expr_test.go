package logicalexpr

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"vegafusion-go/internal/value"
)

func evalNoRow(t *testing.T, e Expr) value.Scalar {
	t.Helper()
	v, err := e.Eval(&EvalContext{})
	require.NoError(t, err)
	return v
}

func TestArithmeticPrecedenceEvaluated(t *testing.T) {
	// (20 + 5) * 300
	expr := NewBinary(OpMul, NewBinary(OpAdd, NewConst(value.Float(20)), NewConst(value.Float(5))), NewConst(value.Float(300)))
	v := evalNoRow(t, expr)
	require.Equal(t, 7500.0, v.Float)
}

func TestStringConcatenation(t *testing.T) {
	expr := NewBinary(OpAdd, NewConst(value.String("a")), NewConst(value.Int(1)))
	v := evalNoRow(t, expr)
	require.Equal(t, "a1", v.Str)
}

func TestLogicalShortCircuitValueSemantics(t *testing.T) {
	expr := NewLogical(OpOr, NewConst(value.Int(0)), NewConst(value.String("fallback")))
	v := evalNoRow(t, expr)
	require.Equal(t, "fallback", v.Str)

	expr2 := NewLogical(OpAnd, NewConst(value.Int(0)), NewConst(value.String("unreached")))
	v2 := evalNoRow(t, expr2)
	require.Equal(t, int64(0), v2.Int)
}

func TestConditional(t *testing.T) {
	expr := NewConditional(NewConst(value.Bool(true)), NewConst(value.Int(1)), NewConst(value.Int(2)))
	v := evalNoRow(t, expr)
	require.Equal(t, int64(1), v.Int)
}

func TestCallBuiltin(t *testing.T) {
	c, err := NewCall("abs", []Expr{NewConst(value.Float(-4))})
	require.NoError(t, err)
	v := evalNoRow(t, c)
	require.Equal(t, 4.0, v.Float)

	_, err = NewCall("nope", nil)
	require.Error(t, err)
}

func TestColumnRefFromRow(t *testing.T) {
	schema := value.NewSchema(value.Field{Name: "x", Type: value.FieldInt})
	row := value.Row{value.Int(42)}
	ref := NewColumnRef("x", value.FieldInt)
	v, err := ref.Eval(&EvalContext{Row: row, Schema: schema})
	require.NoError(t, err)
	require.Equal(t, int64(42), v.Int)

	_, err = NewColumnRef("missing", value.FieldInt).Eval(&EvalContext{Row: row, Schema: schema})
	require.Error(t, err)
}

func TestDivisionByZeroIsInfNotError(t *testing.T) {
	expr := NewBinary(OpDiv, NewConst(value.Float(1)), NewConst(value.Float(0)))
	v := evalNoRow(t, expr)
	require.True(t, math.IsInf(v.Float, 1))
}

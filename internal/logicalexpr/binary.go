package logicalexpr

import (
	"strings"

	vferrors "vegafusion-go/internal/errors"
	"vegafusion-go/internal/value"
)

// BinaryOp identifies an arithmetic/comparison/bitwise operator,
// generalizing the teacher's BinaryOp enum (plan/expression.go) with
// the fuller operator set the expression grammar exposes (spec §4.1
// BinaryOperator).
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEQ
	OpStrictEQ
	OpNE
	OpStrictNE
	OpLT
	OpLE
	OpGT
	OpGE
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr
)

// Binary evaluates a two-operand expression, dispatching on Op the
// same way the teacher's BinaryOperation.Eval does, but coercing
// numeric operands the way the JS-like expression language does
// (float64 throughout) rather than requiring identical Go dynamic
// types on both sides.
type Binary struct {
	base
	Op          BinaryOp
	Left, Right Expr
}

func NewBinary(op BinaryOp, left, right Expr) *Binary {
	return &Binary{base: base{children: []Expr{left, right}}, Op: op, Left: left, Right: right}
}

func (b *Binary) Eval(ctx *EvalContext) (value.Scalar, error) {
	l, err := b.Left.Eval(ctx)
	if err != nil {
		return value.Scalar{}, err
	}
	r, err := b.Right.Eval(ctx)
	if err != nil {
		return value.Scalar{}, err
	}
	switch b.Op {
	case OpAdd:
		return evalAdd(l, r)
	case OpSub:
		return evalArith(l, r, '-')
	case OpMul:
		return evalArith(l, r, '*')
	case OpDiv:
		return evalArith(l, r, '/')
	case OpMod:
		return evalArith(l, r, '%')
	case OpEQ:
		return value.Bool(l.LooseEqual(r)), nil
	case OpStrictEQ:
		return value.Bool(l.Equal(r)), nil
	case OpNE:
		return value.Bool(!l.LooseEqual(r)), nil
	case OpStrictNE:
		return value.Bool(!l.Equal(r)), nil
	case OpLT, OpLE, OpGT, OpGE:
		return evalCompare(l, r, b.Op)
	case OpBitAnd, OpBitOr, OpBitXor, OpShl, OpShr:
		return evalBitwise(l, r, b.Op)
	default:
		return value.Scalar{}, vferrors.Internal("unknown binary operator %v", b.Op)
	}
}

func (b *Binary) Type() value.FieldType {
	switch b.Op {
	case OpEQ, OpStrictEQ, OpNE, OpStrictNE, OpLT, OpLE, OpGT, OpGE:
		return value.FieldBool
	case OpAdd:
		if b.Left.Type() == value.FieldString || b.Right.Type() == value.FieldString {
			return value.FieldString
		}
		return value.FieldFloat
	case OpBitAnd, OpBitOr, OpBitXor, OpShl, OpShr:
		return value.FieldInt
	default:
		return value.FieldFloat
	}
}

func (b *Binary) String() string {
	return "(" + b.Left.String() + " " + binaryOpSymbol(b.Op) + " " + b.Right.String() + ")"
}

func binaryOpSymbol(op BinaryOp) string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpMod:
		return "%"
	case OpEQ:
		return "=="
	case OpStrictEQ:
		return "==="
	case OpNE:
		return "!="
	case OpStrictNE:
		return "!=="
	case OpLT:
		return "<"
	case OpLE:
		return "<="
	case OpGT:
		return ">"
	case OpGE:
		return ">="
	case OpBitAnd:
		return "&"
	case OpBitOr:
		return "|"
	case OpBitXor:
		return "^"
	case OpShl:
		return "<<"
	case OpShr:
		return ">>"
	default:
		return "?"
	}
}

// evalAdd special-cases string concatenation (JS `+` operator
// semantics) before falling back to numeric addition.
func evalAdd(l, r value.Scalar) (value.Scalar, error) {
	if l.Kind == value.KindString || r.Kind == value.KindString {
		var sb strings.Builder
		sb.WriteString(l.ToStringValue())
		sb.WriteString(r.ToStringValue())
		return value.String(sb.String()), nil
	}
	return evalArith(l, r, '+')
}

func evalArith(l, r value.Scalar, op byte) (value.Scalar, error) {
	lf, lok := l.AsFloat64()
	rf, rok := r.AsFloat64()
	if !lok || !rok {
		return value.Scalar{}, vferrors.Internal("unsupported operand types for %c: %s and %s", op, l.Kind, r.Kind)
	}
	switch op {
	case '+':
		return value.Float(lf + rf), nil
	case '-':
		return value.Float(lf - rf), nil
	case '*':
		return value.Float(lf * rf), nil
	case '/':
		return value.Float(lf / rf), nil
	case '%':
		return value.Float(float64(int64(lf) % int64(rf))), nil
	default:
		return value.Scalar{}, vferrors.Internal("unknown arithmetic operator %c", op)
	}
}

func evalCompare(l, r value.Scalar, op BinaryOp) (value.Scalar, error) {
	if l.Kind == value.KindString && r.Kind == value.KindString {
		return compareResult(strings.Compare(l.Str, r.Str), op), nil
	}
	lf, lok := l.AsFloat64()
	rf, rok := r.AsFloat64()
	if !lok || !rok {
		return value.Scalar{}, vferrors.Internal("unsupported operand types for comparison: %s and %s", l.Kind, r.Kind)
	}
	switch {
	case lf < rf:
		return compareResult(-1, op), nil
	case lf > rf:
		return compareResult(1, op), nil
	default:
		return compareResult(0, op), nil
	}
}

func compareResult(cmp int, op BinaryOp) value.Scalar {
	switch op {
	case OpLT:
		return value.Bool(cmp < 0)
	case OpLE:
		return value.Bool(cmp <= 0)
	case OpGT:
		return value.Bool(cmp > 0)
	case OpGE:
		return value.Bool(cmp >= 0)
	default:
		return value.Bool(false)
	}
}

func evalBitwise(l, r value.Scalar, op BinaryOp) (value.Scalar, error) {
	lf, lok := l.AsFloat64()
	rf, rok := r.AsFloat64()
	if !lok || !rok {
		return value.Scalar{}, vferrors.Internal("unsupported operand types for bitwise op: %s and %s", l.Kind, r.Kind)
	}
	li, ri := int64(lf), int64(rf)
	switch op {
	case OpBitAnd:
		return value.Int(li & ri), nil
	case OpBitOr:
		return value.Int(li | ri), nil
	case OpBitXor:
		return value.Int(li ^ ri), nil
	case OpShl:
		return value.Int(li << uint(ri)), nil
	case OpShr:
		return value.Int(li >> uint(ri)), nil
	default:
		return value.Scalar{}, vferrors.Internal("unknown bitwise operator %v", op)
	}
}

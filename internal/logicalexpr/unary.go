package logicalexpr

import (
	vferrors "vegafusion-go/internal/errors"
	"vegafusion-go/internal/value"
)

type UnaryOp int

const (
	OpNeg UnaryOp = iota
	OpPos
	OpNot
	OpBitNot
)

// Unary evaluates a single-operand expression.
type Unary struct {
	base
	Op  UnaryOp
	Arg Expr
}

func NewUnary(op UnaryOp, arg Expr) *Unary {
	return &Unary{base: base{children: []Expr{arg}}, Op: op, Arg: arg}
}

func (u *Unary) Eval(ctx *EvalContext) (value.Scalar, error) {
	v, err := u.Arg.Eval(ctx)
	if err != nil {
		return value.Scalar{}, err
	}
	switch u.Op {
	case OpNeg:
		f, ok := v.AsFloat64()
		if !ok {
			return value.Scalar{}, vferrors.Internal("unsupported operand type for unary -: %s", v.Kind)
		}
		return value.Float(-f), nil
	case OpPos:
		f, ok := v.AsFloat64()
		if !ok {
			return value.Scalar{}, vferrors.Internal("unsupported operand type for unary +: %s", v.Kind)
		}
		return value.Float(f), nil
	case OpNot:
		return value.Bool(!v.ToBool()), nil
	case OpBitNot:
		f, ok := v.AsFloat64()
		if !ok {
			return value.Scalar{}, vferrors.Internal("unsupported operand type for ~: %s", v.Kind)
		}
		return value.Int(^int64(f)), nil
	default:
		return value.Scalar{}, vferrors.Internal("unknown unary operator %v", u.Op)
	}
}

func (u *Unary) Type() value.FieldType {
	if u.Op == OpNot {
		return value.FieldBool
	}
	if u.Op == OpBitNot {
		return value.FieldInt
	}
	return value.FieldFloat
}

func (u *Unary) String() string {
	sym := map[UnaryOp]string{OpNeg: "-", OpPos: "+", OpNot: "!", OpBitNot: "~"}[u.Op]
	return sym + u.Arg.String()
}

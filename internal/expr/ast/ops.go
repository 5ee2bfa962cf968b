package ast

import (
	vferrors "vegafusion-go/internal/errors"
	"vegafusion-go/internal/expr/lexer"
)

// UnaryOpFromToken maps a prefix-operator token to its UnaryOperator,
// mirroring vegafusion-core/src/expression/ops.rs's exhaustive table.
func UnaryOpFromToken(t lexer.Token) (UnaryOperator, error) {
	switch t.Kind {
	case lexer.Plus:
		return UnaryPlus, nil
	case lexer.Minus:
		return UnaryMinus, nil
	case lexer.Exclamation:
		return UnaryNot, nil
	case lexer.BitwiseNot:
		return UnaryBitwiseNot, nil
	default:
		return 0, vferrors.Parse("token %q is not a valid prefix operator", t.Text)
	}
}

// BinaryOpFromToken maps an infix-operator token to its BinaryOperator.
func BinaryOpFromToken(t lexer.Token) (BinaryOperator, error) {
	switch t.Kind {
	case lexer.Plus:
		return Plus, nil
	case lexer.Minus:
		return Minus, nil
	case lexer.Asterisk:
		return Mult, nil
	case lexer.Slash:
		return Div, nil
	case lexer.Percent:
		return Mod, nil
	case lexer.DoubleEquals:
		return Equals, nil
	case lexer.TripleEquals:
		return StrictEquals, nil
	case lexer.ExclamEquals:
		return NotEquals, nil
	case lexer.ExclamDouble:
		return NotStrictEquals, nil
	case lexer.GreaterThan:
		return GreaterThan, nil
	case lexer.GreaterEqual:
		return GreaterThanEqual, nil
	case lexer.LessThan:
		return LessThan, nil
	case lexer.LessEqual:
		return LessThanEqual, nil
	case lexer.BitwiseAnd:
		return BitwiseAnd, nil
	case lexer.BitwiseOr:
		return BitwiseOr, nil
	case lexer.BitwiseXor:
		return BitwiseXor, nil
	case lexer.ShiftLeft:
		return BitwiseShiftLeft, nil
	case lexer.ShiftRight:
		return BitwiseShiftRight, nil
	default:
		return 0, vferrors.Parse("token %q is not a valid binary operator", t.Text)
	}
}

// LogicalOpFromToken maps && / || tokens to LogicalOperator.
func LogicalOpFromToken(t lexer.Token) (LogicalOperator, error) {
	switch t.Kind {
	case lexer.LogicalOr:
		return LogicalOr, nil
	case lexer.LogicalAnd:
		return LogicalAnd, nil
	default:
		return 0, vferrors.Parse("token %q is not a valid logical operator", t.Text)
	}
}

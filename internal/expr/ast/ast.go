// Package ast defines the typed AST produced by the expression parser
// (spec §3 "Expression AST", §4.1). Every node is tree-shaped (no
// back-edges): children are held by value/slice, not shared references
// (design note "Cyclic shape between AST nodes and their display").
package ast

import "fmt"

// Span records the lexer byte offsets [Start, End) a node was parsed
// from, used for diagnostics; the zero value means "synthetic, no span".
type Span struct {
	Start, End int
}

// Node is implemented by every AST variant. BindingPower returns the
// (left, right) binding powers used both by the parser (to decide
// whether a following operator continues the current expression) and by
// String (to decide whether a child needs parenthesizing so that
// parse(stringify(e)) reproduces e, per spec §8).
type Node interface {
	Span() Span
	BindingPower() (left, right float64)
	String() string
}

// leafPower is the binding power of nodes that never need parenthesizing
// as a child of anything: literals, identifiers, arrays, objects.
const leafPower = 100.0

// memberLeftPower/memberRightPower are the postfix binding powers of
// member access and calls (spec §4.1: member access is (20.0, 20.5));
// unaryPower is the prefix binding power of unary operators.
const (
	memberLeftPower  = 20.0
	memberRightPower = 20.5
	unaryPower       = 17.0
)

// UnaryOperator enumerates the supported prefix operators.
type UnaryOperator int

const (
	UnaryPlus UnaryOperator = iota
	UnaryMinus
	UnaryNot
	UnaryBitwiseNot
)

func (o UnaryOperator) String() string {
	switch o {
	case UnaryPlus:
		return "+"
	case UnaryMinus:
		return "-"
	case UnaryNot:
		return "!"
	case UnaryBitwiseNot:
		return "~"
	default:
		return "?"
	}
}

// BinaryOperator enumerates arithmetic, comparison and bitwise infix
// operators (logical &&/|| are modeled separately as LogicalOperator so
// the compiler can special-case their value-semantics short circuit).
type BinaryOperator int

const (
	Plus BinaryOperator = iota
	Minus
	Mult
	Div
	Mod
	Equals
	StrictEquals
	NotEquals
	NotStrictEquals
	GreaterThan
	GreaterThanEqual
	LessThan
	LessThanEqual
	BitwiseAnd
	BitwiseOr
	BitwiseXor
	BitwiseShiftLeft
	BitwiseShiftRight
)

func (o BinaryOperator) String() string {
	switch o {
	case Plus:
		return "+"
	case Minus:
		return "-"
	case Mult:
		return "*"
	case Div:
		return "/"
	case Mod:
		return "%"
	case Equals:
		return "=="
	case StrictEquals:
		return "==="
	case NotEquals:
		return "!="
	case NotStrictEquals:
		return "!=="
	case GreaterThan:
		return ">"
	case GreaterThanEqual:
		return ">="
	case LessThan:
		return "<"
	case LessThanEqual:
		return "<="
	case BitwiseAnd:
		return "&"
	case BitwiseOr:
		return "|"
	case BitwiseXor:
		return "^"
	case BitwiseShiftLeft:
		return "<<"
	case BitwiseShiftRight:
		return ">>"
	default:
		return "?"
	}
}

// LogicalOperator is && or ||.
type LogicalOperator int

const (
	LogicalAnd LogicalOperator = iota
	LogicalOr
)

func (o LogicalOperator) String() string {
	if o == LogicalAnd {
		return "&&"
	}
	return "||"
}

// BinaryPrecedence mirrors JavaScript operator precedence (spec §4.1);
// higher binds tighter.
func BinaryPrecedence(op BinaryOperator) float64 {
	switch op {
	case Mult, Div, Mod:
		return 15
	case Plus, Minus:
		return 14
	case BitwiseShiftLeft, BitwiseShiftRight:
		return 13
	case LessThan, LessThanEqual, GreaterThan, GreaterThanEqual:
		return 12
	case Equals, NotEquals, StrictEquals, NotStrictEquals:
		return 11
	case BitwiseAnd:
		return 10
	case BitwiseXor:
		return 9
	case BitwiseOr:
		return 8
	default:
		return 0
	}
}

// LogicalPrecedence returns the binding power of && (7) and || (6),
// both below every BinaryOperator and above the ternary's (4.8,4.6,4.4).
func LogicalPrecedence(op LogicalOperator) float64 {
	if op == LogicalAnd {
		return 7
	}
	return 6
}

// needsParens reports whether a child node must be parenthesized given
// the binding power the parent requires on that side. inclusive makes
// equal precedence also parenthesize, used on the side where the
// operator is left-associative (so re-parsing doesn't re-associate).
func needsParens(childPower, requiredPower float64, inclusive bool) bool {
	if inclusive {
		return childPower <= requiredPower
	}
	return childPower < requiredPower
}

func wrap(s string, parens bool) string {
	if parens {
		return fmt.Sprintf("(%s)", s)
	}
	return s
}
